// Package p2p implements the gossip wire protocol: JSON-line messages over
// TCP, one message per newline (spec.md §6). Dispatch swallows per-message
// panics and errors so a single bad peer cannot poison other handlers
// (spec.md §7's propagation policy).
package p2p

import (
	"encoding/hex"
	"encoding/json"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/consensus"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// Type tags the outer envelope's Kind field (spec.md §6's message list).
type Type string

const (
	TypeHello         Type = "HELLO"
	TypePeers         Type = "PEERS"
	TypeTx            Type = "TX"
	TypeProposal      Type = "PROPOSAL"
	TypeConsensusOK   Type = "CONSENSUS_OK"
	TypePing          Type = "PING"
	TypePong          Type = "PONG"
	TypeLedgerReq     Type = "LEDGER_REQ"
	TypeLedgerRes     Type = "LEDGER_RES"
	TypeSyncStatusReq Type = "SYNC_STATUS_REQ"
	TypeSyncStatusRes Type = "SYNC_STATUS_RES"
	TypeSyncDeltaReq  Type = "SYNC_DELTA_REQ"
	TypeSyncDeltaRes  Type = "SYNC_DELTA_RES"
	TypeSyncSnapReq   Type = "SYNC_SNAP_REQ"
	TypeSyncSnapRes   Type = "SYNC_SNAP_RES"
)

// Envelope is the one-line-per-message wire frame. Body is decoded lazily
// into the concrete payload type keyed by Kind.
type Envelope struct {
	Kind Type            `json:"kind"`
	Body json.RawMessage `json:"body,omitempty"`
}

// Encode marshals a typed payload into an Envelope ready to write as one
// newline-terminated JSON line.
func Encode(kind Type, payload interface{}) (Envelope, error) {
	if payload == nil {
		return Envelope{Kind: kind}, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Kind: kind, Body: body}, nil
}

// decodeBody unmarshals an envelope's body into out.
func decodeBody(env Envelope, out interface{}) error {
	if len(env.Body) == 0 {
		return nil
	}
	return json.Unmarshal(env.Body, out)
}

// HelloMsg announces a node's identity at connection time (spec.md §6).
type HelloMsg struct {
	NodeID    string `json:"node_id"`
	Port      int    `json:"port"`
	PublicKey string `json:"public_key,omitempty"`
}

// PeersMsg exchanges known peer addresses. The receiver MUST filter
// private/link-local/loopback addresses before adding them (spec.md §6).
type PeersMsg struct {
	Addresses []string `json:"addresses"`
}

// TxWire is the wire representation of a transaction: the same fields as
// tx.Transaction, with the fixed-size StakeID rendered as hex so it
// round-trips through JSON legibly.
type TxWire struct {
	Kind        tx.Kind        `json:"kind"`
	Account     crypto.Address `json:"account"`
	Destination crypto.Address `json:"destination,omitempty"`
	Amount      amount.Amount  `json:"amount"`
	Fee         int64          `json:"fee"`
	Sequence    uint32         `json:"sequence"`

	Memo           string `json:"memo,omitempty"`
	Flags          uint32 `json:"flags,omitempty"`
	DestinationTag uint32 `json:"destination_tag,omitempty"`
	HasDestTag     bool   `json:"has_dest_tag,omitempty"`
	SourceTag      uint32 `json:"source_tag,omitempty"`
	HasSourceTag   bool   `json:"has_source_tag,omitempty"`

	SigningPubKey string `json:"signing_pub_key,omitempty"`
	Signature     string `json:"signature,omitempty"`

	TrustLimit amount.Amount `json:"trust_limit,omitempty"`
	StakeTier  tx.Tier       `json:"stake_tier,omitempty"`
	StakeID    string        `json:"stake_id,omitempty"`
}

// TxMsg wraps a single gossiped transaction (spec.md §6: "dedup by tx-id").
type TxMsg struct {
	Tx TxWire `json:"tx"`
}

// ToWire converts a core transaction into its wire form.
func ToWire(t *tx.Transaction) TxWire {
	return TxWire{
		Kind:           t.Kind,
		Account:        t.Account,
		Destination:    t.Destination,
		Amount:         t.Amount,
		Fee:            t.Fee,
		Sequence:       t.Sequence,
		Memo:           t.Memo,
		Flags:          t.Flags,
		DestinationTag: t.DestinationTag,
		HasDestTag:     t.HasDestTag,
		SourceTag:      t.SourceTag,
		HasSourceTag:   t.HasSourceTag,
		SigningPubKey:  t.SigningPubKey,
		Signature:      t.Signature,
		TrustLimit:     t.TrustLimit,
		StakeTier:      t.StakeTier,
		StakeID:        hex.EncodeToString(t.StakeID[:]),
	}
}

// FromWire converts a wire transaction back into its core form.
func FromWire(w TxWire) *tx.Transaction {
	t := &tx.Transaction{
		Kind:           w.Kind,
		Account:        w.Account,
		Destination:    w.Destination,
		Amount:         w.Amount,
		Fee:            w.Fee,
		Sequence:       w.Sequence,
		Memo:           w.Memo,
		Flags:          w.Flags,
		DestinationTag: w.DestinationTag,
		HasDestTag:     w.HasDestTag,
		SourceTag:      w.SourceTag,
		HasSourceTag:   w.HasSourceTag,
		SigningPubKey:  w.SigningPubKey,
		Signature:      w.Signature,
		TrustLimit:     w.TrustLimit,
		StakeTier:      w.StakeTier,
	}
	if raw, err := hex.DecodeString(w.StakeID); err == nil && len(raw) == 32 {
		copy(t.StakeID[:], raw)
	}
	return t
}

// ProposalWire is consensus.Proposal with hex-encoded tx-ids.
type ProposalWire struct {
	ValidatorID string   `json:"validator_id"`
	LedgerSeq   uint32   `json:"ledger_seq"`
	TxIDs       []string `json:"tx_ids"`
	Round       int      `json:"round"`
	Signature   string   `json:"signature,omitempty"`
}

// ProposalMsg carries one validator's proposal (spec.md §6: "dedup by
// validator-id+ledger-seq").
type ProposalMsg struct {
	Proposal ProposalWire `json:"proposal"`
}

// ToProposalWire converts a core proposal into its wire form.
func ToProposalWire(p *consensus.Proposal) ProposalWire {
	ids := make([]string, len(p.TxIDs))
	for i, id := range p.TxIDs {
		ids[i] = hex.EncodeToString(id[:])
	}
	return ProposalWire{
		ValidatorID: p.ValidatorID,
		LedgerSeq:   p.LedgerSeq,
		TxIDs:       ids,
		Round:       p.Round,
		Signature:   p.Signature,
	}
}

// FromProposalWire converts a wire proposal back into its core form,
// skipping any malformed tx-id hex (best-effort, matching the "dispatch
// swallows bad input" propagation policy).
func FromProposalWire(w ProposalWire) *consensus.Proposal {
	ids := make([][32]byte, 0, len(w.TxIDs))
	for _, s := range w.TxIDs {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != 32 {
			continue
		}
		var id [32]byte
		copy(id[:], raw)
		ids = append(ids, id)
	}
	return &consensus.Proposal{
		ValidatorID: w.ValidatorID,
		LedgerSeq:   w.LedgerSeq,
		TxIDs:       ids,
		Round:       w.Round,
		Signature:   w.Signature,
	}
}

// ConsensusOKMsg announces an accepted ledger close (spec.md §6).
type ConsensusOKMsg struct {
	LedgerSeq uint32   `json:"ledger_seq"`
	TxIDs     []string `json:"tx_ids"`
}

// PingMsg and PongMsg carry no fields; their Type alone is the signal.
type PingMsg struct{}
type PongMsg struct{}

// LedgerReqMsg is the backward-compatible request handled as a full
// snapshot request (spec.md §4.6).
type LedgerReqMsg struct{}

// LedgerResMsg carries a full snapshot; Snapshot is a json.RawMessage, so
// the snapshot's JSON is embedded in the message as-is, not base64-encoded.
type LedgerResMsg struct {
	Snapshot json.RawMessage `json:"snapshot"`
}
