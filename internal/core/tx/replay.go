package tx

import (
	"encoding/hex"

	"github.com/ugorji/go/codec"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// mh is the msgpack handle for the at-rest replay blob. Kept separate from
// the wire protocol's JSON-line codec (spec.md §6 calls the wire format
// fixed but the replay_blob column opaque) and from any signing encoding.
var mh = &codec.MsgpackHandle{}

// replayWire is Transaction flattened to msgpack-codable fields, the
// "canonical replay blob" spec.md §6 stores per applied transaction. This
// is deliberately a different encoding from SigningBlob: the signing blob
// is what a signer signs over and omits the signature itself, so it alone
// cannot reconstruct a Transaction for replay.
type replayWire struct {
	Kind        Kind           `codec:"kind"`
	Account     crypto.Address `codec:"account"`
	Destination crypto.Address `codec:"destination,omitempty"`
	Amount      amount.Amount  `codec:"amount"`
	Fee         int64          `codec:"fee"`
	Sequence    uint32         `codec:"sequence"`

	Memo           string `codec:"memo,omitempty"`
	Flags          uint32 `codec:"flags,omitempty"`
	DestinationTag uint32 `codec:"destination_tag,omitempty"`
	HasDestTag     bool   `codec:"has_dest_tag,omitempty"`
	SourceTag      uint32 `codec:"source_tag,omitempty"`
	HasSourceTag   bool   `codec:"has_source_tag,omitempty"`

	SigningPubKey string `codec:"signing_pub_key,omitempty"`
	Signature     string `codec:"signature,omitempty"`

	TrustLimit amount.Amount `codec:"trust_limit,omitempty"`
	StakeTier  Tier          `codec:"stake_tier,omitempty"`
	StakeID    string        `codec:"stake_id,omitempty"`
}

// EncodeReplay renders a Transaction into the opaque blob persisted by the
// transactions table (spec.md §6), sufficient to reconstruct it exactly
// for genesis replay.
func EncodeReplay(t *Transaction) ([]byte, error) {
	w := replayWire{
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
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, mh).Encode(w); err != nil {
		return nil, err
	}
	return buf, nil
}

// DecodeReplay reconstructs a Transaction from its replay blob.
func DecodeReplay(blob []byte) (*Transaction, error) {
	var w replayWire
	if err := codec.NewDecoderBytes(blob, mh).Decode(&w); err != nil {
		return nil, err
	}
	t := &Transaction{
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
	return t, nil
}
