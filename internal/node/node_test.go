package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/config"
	"github.com/nexaflow/nxfd/internal/logging"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	// Keep the test hermetic: no listener, no disk-backed storage, no
	// metrics server, a fast consensus tick so Run exercises at least
	// one round before the test cancels it.
	cfg.P2P.ListenAddr = ""
	cfg.P2P.Seeds = nil
	cfg.Storage.KVPath = ""
	cfg.Storage.SnapshotPath = ""
	cfg.Metrics.Enabled = false
	cfg.Consensus.RoundInterval = 10 * time.Millisecond
	cfg.Consensus.UNL = nil
	return cfg
}

func TestNewConstructsAGenesisNode(t *testing.T) {
	cfg := testConfig(t)
	n, err := New(cfg, logging.Discard())
	require.NoError(t, err)
	require.NotEmpty(t, n.SelfID())
	require.NotNil(t, n.Ledger())
	require.Equal(t, uint32(0), n.Ledger().CurrentSequence)
}

func TestRunStopsCleanlyOnCancel(t *testing.T) {
	cfg := testConfig(t)
	n, err := New(cfg, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = n.Run(ctx)
	require.NoError(t, err)
}

func TestStopCancelsRun(t *testing.T) {
	cfg := testConfig(t)
	n, err := New(cfg, logging.Discard())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- n.Run(context.Background()) }()

	time.Sleep(20 * time.Millisecond)
	n.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
}
