package sync

import (
	"fmt"
	"sort"
	"time"

	"github.com/nexaflow/nxfd/internal/core/ledger"
)

// Peer is the narrow transport surface the sync manager needs from the
// p2p layer: request/response round trips keyed by peer id. Concrete
// implementations live in package p2p; tests use an in-memory stub.
type Peer interface {
	ID() string
	RequestStatus() (StatusResponse, error)
	RequestDelta(req DeltaRequest) (DeltaResponse, error)
	RequestSnapshot(req SnapshotRequest) (SnapshotResponse, error)
}

// Manager drives the catch-up protocol against a Ledger aggregate.
type Manager struct {
	ledger *ledger.Ledger

	DeltaThreshold uint32
	Cooldown       time.Duration

	lastAttempt time.Time
}

// NewManager constructs a Manager with the package defaults.
func NewManager(l *ledger.Ledger) *Manager {
	return &Manager{
		ledger:         l,
		DeltaThreshold: DefaultDeltaThreshold,
		Cooldown:       DefaultCooldown,
	}
}

// ErrCooldown is returned when Attempt is called before Cooldown has
// elapsed since the previous attempt and bypass is false.
var ErrCooldown = fmt.Errorf("sync: cooldown in effect")

// Attempt runs one full status→choose→fetch→verify→install cycle against
// peers. bypass skips the cooldown check (spec.md §4.6: "request_sync
// bypasses the cooldown explicitly").
func (m *Manager) Attempt(peers []Peer, now time.Time, bypass bool) error {
	if !bypass && !m.lastAttempt.IsZero() && now.Sub(m.lastAttempt) < m.Cooldown {
		return ErrCooldown
	}
	m.lastAttempt = now

	localSeq, localTip := m.localTip()

	responses := make([]StatusResponse, 0, len(peers))
	peerByID := make(map[string]Peer, len(peers))
	for _, p := range peers {
		peerByID[p.ID()] = p
		resp, err := p.RequestStatus()
		if err != nil {
			continue
		}
		resp.PeerID = p.ID()
		if resp.ReceivedAt.IsZero() {
			resp.ReceivedAt = now
		}
		responses = append(responses, resp)
	}

	target, ok := ChooseTarget(localSeq, responses)
	if !ok {
		return ErrNoNewerPeer
	}
	peer := peerByID[target.PeerID]

	mode := SelectMode(localSeq, target.Sequence, m.DeltaThreshold)

	var headers []*ledger.LedgerHeader
	var snap *ledger.Snapshot

	switch mode {
	case ModeDelta:
		resp, err := peer.RequestDelta(DeltaRequest{SinceSeq: localSeq})
		if err != nil {
			return fmt.Errorf("sync: delta request to %s: %w", target.PeerID, err)
		}
		headers, snap = resp.Headers, resp.Snapshot
	default:
		resp, err := peer.RequestSnapshot(SnapshotRequest{})
		if err != nil {
			return fmt.Errorf("sync: snapshot request to %s: %w", target.PeerID, err)
		}
		headers, snap = resp.Headers, resp.Snapshot
	}

	sort.Slice(headers, func(i, j int) bool { return headers[i].Sequence < headers[j].Sequence })

	verifyTip := localTip
	if mode == ModeSnapshot && len(headers) > 0 {
		// A full snapshot's chain starts from genesis (or the responder's
		// own truncation point), not from our local tip — verify it is
		// internally self-consistent instead of anchored to our history.
		verifyTip = headers[0].ParentHash
	}
	if err := VerifyHashChain(verifyTip, headers); err != nil {
		return err
	}

	if snap == nil {
		return fmt.Errorf("sync: peer %s returned no snapshot payload", target.PeerID)
	}
	snap.Headers = headers
	m.ledger.InstallSnapshot(snap)
	return nil
}

func (m *Manager) localTip() (uint32, [32]byte) {
	seq := m.ledger.CurrentSequence
	tip := m.ledger.TipHash()
	return seq, tip
}
