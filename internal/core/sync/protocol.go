// Package sync implements the lagging-node catch-up protocol: status
// exchange, delta-vs-snapshot selection, hash-chain verification, and
// atomic state install (spec.md §4.6).
package sync

import (
	"errors"
	"fmt"
	"time"

	"github.com/nexaflow/nxfd/internal/core/ledger"
)

// DefaultDeltaThreshold is the gap below which a delta sync is requested
// instead of a full snapshot (spec.md §4.6 step 3).
const DefaultDeltaThreshold = 50

// DefaultStatusTimeout is the 5s status-collection window (spec.md §4.6
// step 2). Manager does not apply it: Attempt requests status from each
// peer in turn, and each request is bounded only by the transport's own
// per-request timeout (p2p.DefaultRequestTimeout in the node).
const DefaultStatusTimeout = 5 * time.Second

// DefaultCooldown throttles automatic sync attempts (spec.md §4.6).
const DefaultCooldown = 15 * time.Second

// StatusRequest is broadcast to every peer at the start of a sync attempt.
type StatusRequest struct{}

// StatusResponse is a peer's self-reported tip (spec.md §4.6 step 2).
type StatusResponse struct {
	PeerID      string
	Sequence    uint32
	LastHash    [32]byte
	ClosedCount uint32
	ReceivedAt  time.Time
}

// Mode selects delta vs. full-snapshot sync based on the gap to the peer.
type Mode int

const (
	ModeDelta Mode = iota
	ModeSnapshot
)

// ErrNoNewerPeer is returned when no peer is ahead of the local tip.
var ErrNoNewerPeer = errors.New("sync: no peer ahead of local sequence")

// ErrHashChainMismatch is returned when a received header chain doesn't
// link to the local tip or to itself (spec.md §4.6 step 5).
var ErrHashChainMismatch = errors.New("sync: hash chain verification failed")

// ChooseTarget picks the peer to sync against: the maximum reported
// sequence greater than localSeq, tie-broken by earliest response
// (spec.md §4.6 step 2).
func ChooseTarget(localSeq uint32, responses []StatusResponse) (StatusResponse, bool) {
	var best StatusResponse
	found := false

	for _, r := range responses {
		if r.Sequence <= localSeq {
			continue
		}
		if !found {
			best, found = r, true
			continue
		}
		if r.Sequence > best.Sequence {
			best = r
			continue
		}
		if r.Sequence == best.Sequence && r.ReceivedAt.Before(best.ReceivedAt) {
			best = r
		}
	}

	return best, found
}

// SelectMode picks delta vs. snapshot sync for the gap to target.
func SelectMode(localSeq, targetSeq uint32, deltaThreshold uint32) Mode {
	if targetSeq-localSeq <= deltaThreshold {
		return ModeDelta
	}
	return ModeSnapshot
}

// VerifyHashChain checks that the first received header's parent-hash
// equals localTip and every subsequent header's parent-hash equals its
// predecessor's hash (spec.md §4.6 step 5). headers must already be in
// ascending sequence order.
func VerifyHashChain(localTip [32]byte, headers []*ledger.LedgerHeader) error {
	if len(headers) == 0 {
		return nil
	}
	if headers[0].ParentHash != localTip {
		return fmt.Errorf("%w: first header's parent-hash does not match local tip", ErrHashChainMismatch)
	}
	for i := 1; i < len(headers); i++ {
		want := headers[i-1].Hash()
		if headers[i].ParentHash != want {
			return fmt.Errorf("%w: header %d parent-hash mismatch", ErrHashChainMismatch, headers[i].Sequence)
		}
	}
	return nil
}
