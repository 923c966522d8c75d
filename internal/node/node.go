// Package node wires configuration, storage, the ledger state machine,
// the consensus engine, the sync protocol, and the p2p transport into one
// running process: the cooperative, single-task scheduling model spec.md
// §5 describes ("one cooperative task per node... state mutation is
// single-threaded"). Node owns the process's only background loops;
// everything else in this repository is a library called from them.
package node

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nexaflow/nxfd/internal/config"
	"github.com/nexaflow/nxfd/internal/core/consensus"
	"github.com/nexaflow/nxfd/internal/core/ledger"
	"github.com/nexaflow/nxfd/internal/core/sync"
	"github.com/nexaflow/nxfd/internal/core/txpool"
	"github.com/nexaflow/nxfd/internal/crypto"
	"github.com/nexaflow/nxfd/internal/logging"
	"github.com/nexaflow/nxfd/internal/metrics"
	"github.com/nexaflow/nxfd/internal/p2p"
	"github.com/nexaflow/nxfd/internal/storage/kv"
	"github.com/nexaflow/nxfd/internal/storage/snapshot"
)

// Node is one running nxfd process.
type Node struct {
	cfg config.Config
	log *logrus.Logger

	selfID  string
	keyPair *crypto.KeyPair

	ledger  *ledger.Ledger
	pool    *txpool.Pool
	engine  *consensus.Engine
	syncMgr *sync.Manager

	kvStore   *kv.Store
	snapStore *snapshot.Store

	server     *p2p.Server
	dispatcher *p2p.Dispatcher
	proposals  *proposalCollector

	metrics *metrics.Collectors
	registry *prometheus.Registry

	cancel context.CancelFunc
}

// New constructs a Node from a loaded configuration. It opens (or
// creates) local storage, restores or bootstraps the ledger, and wires
// every subsystem together, but does not start any background loop —
// call Run for that.
func New(cfg *config.Config, log *logrus.Logger) (*Node, error) {
	if log == nil {
		log = logging.New(cfg.Logging)
	}

	selfID := cfg.Server.NodeID
	if selfID == "" {
		selfID = uuid.NewString()
	}

	keyPair, err := validatorKeyPair(cfg.Consensus.ValidatorSeed)
	if err != nil {
		return nil, fmt.Errorf("node: derive validator key: %w", err)
	}

	var kvStore *kv.Store
	var snapStore *snapshot.Store
	if cfg.Storage.KVPath != "" {
		kvStore, err = kv.Open(cfg.Storage.KVPath)
		if err != nil {
			return nil, fmt.Errorf("node: open kv store: %w", err)
		}
	}
	if cfg.Storage.SnapshotPath != "" {
		snapStore, err = snapshot.Open(context.Background(), cfg.Storage.SnapshotPath)
		if err != nil {
			if kvStore != nil {
				_ = kvStore.Close()
			}
			return nil, fmt.Errorf("node: open snapshot store: %w", err)
		}
	}

	led, err := bootstrapLedger(context.Background(), cfg, snapStore, keyPair, log)
	if err != nil {
		return nil, err
	}

	pool, err := txpool.New(led, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("node: construct tx pool: %w", err)
	}

	engine := consensus.NewEngine(selfID, cfg.Consensus.UNL, cfg.Consensus.ValidatorPublicKeys)
	if cfg.Consensus.MaxRounds > 0 {
		engine.MaxRounds = cfg.Consensus.MaxRounds
	}
	for _, w := range engine.Warnings() {
		log.Warn(w)
	}

	syncMgr := sync.NewManager(led)
	if cfg.P2P.DeltaThreshold > 0 {
		syncMgr.DeltaThreshold = cfg.P2P.DeltaThreshold
	}
	if cfg.P2P.SyncCooldown > 0 {
		syncMgr.Cooldown = cfg.P2P.SyncCooldown
	}

	collectors, registry := metrics.New()

	dispatcher := p2p.NewDispatcher(log)
	server := p2p.NewServer(dispatcher, log)

	n := &Node{
		cfg:        *cfg,
		log:        log,
		selfID:     selfID,
		keyPair:    keyPair,
		ledger:     led,
		pool:       pool,
		engine:     engine,
		syncMgr:    syncMgr,
		kvStore:    kvStore,
		snapStore:  snapStore,
		server:     server,
		dispatcher: dispatcher,
		proposals:  newProposalCollector(),
		metrics:    collectors,
		registry:   registry,
	}
	n.registerHandlers()
	return n, nil
}

// validatorKeyPair derives a deterministic key pair from a configured
// seed, or generates an ephemeral one — a validator without a configured
// seed still signs its own proposals, it just can't be verified by peers
// across a restart (spec.md §4.4: signing is only required "when pubkeys
// for the UNL are configured").
func validatorKeyPair(seed string) (*crypto.KeyPair, error) {
	if seed == "" {
		return crypto.GenerateKeyPair()
	}
	return crypto.KeyPairFromSeed([]byte(seed))
}

// bootstrapLedger restores the ledger from the snapshot store if one
// exists, otherwise creates a fresh genesis ledger funded with
// cfg.Server.InitialSupply, per spec.md §3's lifecycle note that genesis
// is the sole source of value at bootstrap.
func bootstrapLedger(ctx context.Context, cfg *config.Config, store *snapshot.Store, genesisKey *crypto.KeyPair, log *logrus.Logger) (*ledger.Ledger, error) {
	if store != nil {
		snap, err := snapshot.LoadSnapshot(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("node: load snapshot: %w", err)
		}
		if len(snap.Accounts) > 0 || len(snap.Headers) > 0 {
			log.WithField("closed_ledgers", len(snap.Headers)).Info("restored ledger from local snapshot")
			led := ledger.NewGenesis("", 0)
			led.InstallSnapshot(snap)
			return led, nil
		}
	}

	pubKey, err := genesisKey.PublicKeyBytes()
	if err != nil {
		return nil, fmt.Errorf("node: genesis public key: %w", err)
	}
	genesisAddr := crypto.DeriveAddress(pubKey)
	log.WithField("genesis_account", genesisAddr).Info("bootstrapping fresh genesis ledger")
	return ledger.NewGenesis(genesisAddr, cfg.Server.InitialSupply), nil
}

// Run starts every background loop and blocks until ctx is cancelled or a
// loop returns an error. The loops are cancellable tasks in the sense of
// spec.md §5: Stop (via ctx cancellation) signals and Run waits for them
// to quiesce.
func (n *Node) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	defer cancel()

	if n.cfg.P2P.ListenAddr != "" {
		if err := n.server.Listen(n.cfg.P2P.ListenAddr); err != nil {
			return fmt.Errorf("node: listen %s: %w", n.cfg.P2P.ListenAddr, err)
		}
		n.log.WithField("addr", n.server.Addr()).Info("p2p listener started")
	}

	n.dialSeeds()

	g, gctx := errgroup.WithContext(ctx)

	if n.cfg.P2P.ListenAddr != "" {
		g.Go(func() error {
			err := n.server.Serve()
			if gctx.Err() != nil {
				return nil // Close() during shutdown surfaces as an Accept error; not a real failure.
			}
			return err
		})
	}

	g.Go(func() error { return n.consensusLoop(gctx) })
	g.Go(func() error { return n.syncLoop(gctx) })

	if n.cfg.Metrics.Enabled {
		g.Go(func() error { return n.serveMetrics(gctx) })
	}

	<-gctx.Done()
	_ = n.server.Close()

	err := g.Wait()
	n.closeStorage()
	return err
}

// Stop cancels every background loop; Run returns once they quiesce.
func (n *Node) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
}

func (n *Node) closeStorage() {
	if n.kvStore != nil {
		_ = n.kvStore.Close()
	}
	if n.snapStore != nil {
		_ = n.snapStore.Close()
	}
}

func (n *Node) dialSeeds() {
	for _, addr := range n.cfg.P2P.Seeds {
		conn, err := n.server.Dial(addr)
		if err != nil {
			n.log.WithFields(logrus.Fields{"addr": addr, "err": err}).Warn("failed to dial seed peer")
			continue
		}
		_ = conn.Send(p2p.TypeHello, p2p.HelloMsg{NodeID: n.selfID})
	}
}

// SelfID returns the node's gossip identity.
func (n *Node) SelfID() string { return n.selfID }

// Ledger returns the node's ledger aggregate, for tests and any future
// external collaborator (e.g. an RPC surface, explicitly out of scope per
// spec.md §1) that needs read access.
func (n *Node) Ledger() *ledger.Ledger { return n.ledger }

// Pool returns the node's pending-transaction pool.
func (n *Node) Pool() *txpool.Pool { return n.pool }

// sleepContext sleeps for d or returns early if ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
