package node

import (
	"context"
	"errors"
	"time"

	coresync "github.com/nexaflow/nxfd/internal/core/sync"
	"github.com/nexaflow/nxfd/internal/p2p"
)

// syncTickInterval is how often the node re-checks whether it has fallen
// behind its connected peers (spec.md §4.6: "periodically, and on
// reconnect").
const syncTickInterval = 5 * time.Second

// syncLoop periodically attempts to catch up with connected peers via the
// status/delta/snapshot protocol (spec.md §4.6).
func (n *Node) syncLoop(ctx context.Context) error {
	ticker := time.NewTicker(syncTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.runSyncAttempt()
		}
	}
}

func (n *Node) runSyncAttempt() {
	ids := n.server.PeerIDs()
	if len(ids) == 0 {
		return
	}
	peers := make([]coresync.Peer, len(ids))
	for i, id := range ids {
		peers[i] = p2p.NewSyncPeer(n.server, id)
	}

	n.metrics.SyncAttempts.Inc()
	err := n.syncMgr.Attempt(peers, time.Now(), false)
	if err == nil {
		return
	}
	if errors.Is(err, coresync.ErrCooldown) || errors.Is(err, coresync.ErrNoNewerPeer) {
		return
	}
	n.metrics.SyncFailures.Inc()
	n.log.WithError(err).Warn("sync attempt failed")
}
