package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// Snapshot is the install payload the sync protocol produces, carrying
// enough state for a lagging node to catch up (spec.md §4.6 step 6).
type Snapshot struct {
	InitialSupply int64
	TotalSupply   int64
	TotalBurned   int64
	TotalMinted   int64
	FeePool       int64

	Accounts     map[crypto.Address]*Account
	Headers      []*LedgerHeader
	Stakes       map[[32]byte]*staking.Record
	AppliedTxIDs [][32]byte
}

// InstallSnapshot atomically merges a verified snapshot into the ledger,
// in the order spec.md §4.6 step 6 specifies: monetary aggregates →
// accounts (replacing received addresses) → trust lines (carried inside
// each Account) → headers (append, deduplicated by sequence) → staking
// records → applied-tx-ids (union). The caller (package sync) is
// responsible for verifying the header hash chain before calling this —
// InstallSnapshot trusts its input completely.
func (l *Ledger) InstallSnapshot(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.InitialSupply = snap.InitialSupply
	l.TotalSupply = snap.TotalSupply
	l.TotalBurned = snap.TotalBurned
	l.TotalMinted = snap.TotalMinted
	l.FeePool = snap.FeePool

	for addr, acct := range snap.Accounts {
		l.Accounts[addr] = acct
	}

	existingSeq := make(map[uint32]bool, len(l.ClosedLedgers))
	for _, h := range l.ClosedLedgers {
		existingSeq[h.Sequence] = true
	}
	for _, h := range snap.Headers {
		if existingSeq[h.Sequence] {
			continue
		}
		l.ClosedLedgers = append(l.ClosedLedgers, h)
		existingSeq[h.Sequence] = true
		if h.Sequence > l.CurrentSequence {
			l.CurrentSequence = h.Sequence
		}
	}

	for id, record := range snap.Stakes {
		l.Stakes[id] = record
	}
	for _, id := range snap.AppliedTxIDs {
		l.AppliedTxIDs[id] = true
	}
}

// ExportSnapshot builds the full-state payload spec.md §4.6 describes as
// sufficient "to reconstruct the ledger from any initial state" — served
// to a peer's SYNC_SNAP_REQ, and (restricted to headers after sinceSeq)
// SYNC_DELTA_REQ, since both responses carry the same schema.
func (l *Ledger) ExportSnapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &Snapshot{
		InitialSupply: l.InitialSupply,
		TotalSupply:   l.TotalSupply,
		TotalBurned:   l.TotalBurned,
		TotalMinted:   l.TotalMinted,
		FeePool:       l.FeePool,
		Accounts:      make(map[crypto.Address]*Account, len(l.Accounts)),
		Stakes:        make(map[[32]byte]*staking.Record, len(l.Stakes)),
	}
	for addr, a := range l.Accounts {
		snap.Accounts[addr] = a
	}
	for id, r := range l.Stakes {
		snap.Stakes[id] = r
	}
	snap.Headers = append(snap.Headers, l.ClosedLedgers...)
	for id := range l.AppliedTxIDs {
		snap.AppliedTxIDs = append(snap.AppliedTxIDs, id)
	}
	return snap
}

// ExportDelta is ExportSnapshot restricted to headers after sinceSeq
// (spec.md §4.6 step 3's delta path). The monetary aggregates, accounts,
// and staking records are still carried in full — the responder does not
// track per-sequence deltas for those, and the requester's install is a
// full merge regardless (spec.md §4.6 step 6).
func (l *Ledger) ExportDelta(sinceSeq uint32) *Snapshot {
	snap := l.ExportSnapshot()
	headers := snap.Headers[:0:0]
	for _, h := range snap.Headers {
		if h.Sequence > sinceSeq {
			headers = append(headers, h)
		}
	}
	snap.Headers = headers
	return snap
}
