package node

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nexaflow/nxfd/internal/metrics"
)

// serveMetrics runs the /metrics HTTP endpoint until ctx is cancelled.
func (n *Node) serveMetrics(ctx context.Context) error {
	srv := &http.Server{
		Addr:    n.cfg.Metrics.ListenAddr,
		Handler: metrics.Handler(n.registry),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
