package p2p

import "encoding/json"

// SyncStatusReqMsg requests a peer's current tip (spec.md §4.6 step 2).
type SyncStatusReqMsg struct{}

// SyncStatusResMsg reports the responder's tip.
type SyncStatusResMsg struct {
	Sequence    uint32 `json:"sequence"`
	LastHash    string `json:"last_hash"`
	ClosedCount uint32 `json:"closed_count"`
}

// SyncDeltaReqMsg asks for every closed ledger after SinceSeq (spec.md
// §4.6 step 3).
type SyncDeltaReqMsg struct {
	SinceSeq uint32 `json:"since_seq"`
}

// SyncDeltaResMsg carries the requested header range plus a snapshot
// sufficient to install it (spec.md §4.6 step 4). Snapshot is the
// ledger package's JSON wire form (ledger.EncodeSnapshot).
type SyncDeltaResMsg struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

// SyncSnapReqMsg asks for a peer's complete state (spec.md §4.6 step 3:
// used when the gap exceeds the delta threshold).
type SyncSnapReqMsg struct{}

// SyncSnapResMsg carries a full state snapshot, optionally LZ4-compressed
// (rippled-style: only worthwhile above compression.MinCompressibleSize).
type SyncSnapResMsg struct {
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	Compressed []byte          `json:"compressed,omitempty"` // LZ4 block, base64 by encoding/json
	RawSize    int             `json:"raw_size,omitempty"`
}
