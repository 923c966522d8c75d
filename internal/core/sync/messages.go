package sync

import "github.com/nexaflow/nxfd/internal/core/ledger"

// DeltaRequest asks a peer for every closed ledger strictly after SinceSeq
// (spec.md §4.6 step 3).
type DeltaRequest struct {
	SinceSeq uint32
}

// DeltaResponse carries the requested header range plus enough account
// state to install (spec.md §4.6 step 4). The responder is expected to
// already have verified this range against its own chain; the requester
// re-verifies independently before installing.
type DeltaResponse struct {
	Headers  []*ledger.LedgerHeader
	Snapshot *ledger.Snapshot
}

// SnapshotRequest asks a peer for its complete current state, used when
// the gap exceeds DeltaThreshold (spec.md §4.6 step 3).
type SnapshotRequest struct{}

// SnapshotResponse carries a full state snapshot plus the header chain
// from genesis (or from whatever truncation point the responder keeps) up
// to its tip.
type SnapshotResponse struct {
	Headers  []*ledger.LedgerHeader
	Snapshot *ledger.Snapshot
}

// LegacyLedgerRequest is the backward-compatible request kind that older
// peers may still send (spec.md §4.6: "LEDGER_REQ/LEDGER_RES... served as
// a full snapshot"). It carries no fields of its own.
type LegacyLedgerRequest struct{}
