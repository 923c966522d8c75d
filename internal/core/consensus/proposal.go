// Package consensus implements the federated Byzantine-fault-tolerant
// round machine: proposal exchange, escalating vote thresholds, and
// Byzantine/equivocation exclusion (spec.md §4.4).
package consensus

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/nexaflow/nxfd/internal/crypto"
)

// Proposal is one validator's claim of the tx-id set it believes should
// close into the next ledger (spec.md §4.4).
type Proposal struct {
	ValidatorID string
	LedgerSeq   uint32
	TxIDs       [][32]byte
	Round       int
	Signature   string // hex DER ECDSA signature, optional
}

// sortedTxIDs returns a copy of p.TxIDs in ascending order, the canonical
// form used for hashing and set-equality comparisons.
func (p *Proposal) sortedTxIDs() [][32]byte {
	ids := make([][32]byte, len(p.TxIDs))
	copy(ids, p.TxIDs)
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// Hash computes the proposal hash: BLAKE2b over (validator-id, ledger-seq,
// sorted tx-ids, round) (spec.md §4.4).
func (p *Proposal) Hash() [32]byte {
	buf := make([]byte, 0, 64+len(p.TxIDs)*32)
	buf = append(buf, []byte(p.ValidatorID)...)
	buf = binary.BigEndian.AppendUint32(buf, p.LedgerSeq)
	for _, id := range p.sortedTxIDs() {
		buf = append(buf, id[:]...)
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(p.Round))
	return crypto.Blake2b256(buf)
}

// SameSet reports whether two proposals claim the exact same tx-id set,
// independent of ordering.
func (p *Proposal) SameSet(other *Proposal) bool {
	a, b := p.sortedTxIDs(), other.sortedTxIDs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// VerifySigned checks the proposal's signature against the claimed
// validator's public key, when one is configured. An unconfigured
// (empty) public key means this validator's proposals are accepted
// unsigned (spec.md §4.4: "when pubkeys for the UNL are configured").
func (p *Proposal) VerifySigned(publicKeyHex string) bool {
	if publicKeyHex == "" {
		return true
	}
	if p.Signature == "" {
		return false
	}
	digest := p.Hash()
	return crypto.VerifySignature(digest, publicKeyHex, p.Signature)
}

// Sign signs the proposal hash with kp, populating Signature.
func Sign(p *Proposal, kp *crypto.KeyPair) error {
	digest := p.Hash()
	sig, err := kp.Sign(digest)
	if err != nil {
		return err
	}
	p.Signature = sig
	return nil
}
