// Package validator implements the transaction-kind-independent,
// ledger-state-independent pre-checks shared by pool admission and the
// ledger-apply path (spec.md §4.2). It deliberately carries no dependency
// on package ledger: the stateful half of the same predicate lives in
// ledger.CheckTransaction and calls into ValidateStateless first, so both
// entry points run exactly one shared check rather than two copies that
// could drift apart.
package validator

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// MinFeeDrops is the minimum transaction fee (1e-5 NXF), spec.md §4.2.
const MinFeeDrops int64 = 1000

// ReplayCheck reports whether a tx-id has already been applied. The ledger
// supplies this so the validator package never needs to see ledger state
// directly.
type ReplayCheck func(txID [32]byte) bool

// ValidateStateless runs the checks spec.md §4.2 calls stateless: the
// signature verifies, fields are in range, fee is at least MinFeeDrops,
// sequence is at least 1, and the tx-id has not already been applied.
func ValidateStateless(t *tx.Transaction, alreadyApplied ReplayCheck) (tx.Result, string) {
	if t.Account == "" {
		return tx.TemMALFORMED, "missing signer account"
	}
	if !t.Account.Valid() {
		return tx.TemMALFORMED, "malformed signer address"
	}
	if t.Destination != "" && !t.Destination.Valid() {
		return tx.TemMALFORMED, "malformed destination address"
	}
	if t.Fee < MinFeeDrops {
		return tx.TemBAD_FEE, "fee below minimum"
	}
	if t.Sequence < 1 {
		return tx.TemBAD_SEQUENCE, "sequence must be at least 1"
	}
	if t.Amount.Drops < 0 {
		return tx.TemBAD_AMOUNT, "amount must be non-negative"
	}
	if !t.Kind.Implemented() {
		return tx.TecNO_PERMISSION, "transaction kind not supported by this core"
	}

	txID, err := tx.TxID(t)
	if err != nil {
		return tx.TemBAD_SIGNATURE, "unable to compute tx-id"
	}
	if alreadyApplied != nil && alreadyApplied(txID) {
		return tx.TecDUPLICATE, "transaction already applied"
	}

	if !tx.VerifySignature(t) {
		return tx.TefBAD_SIGNATURE, "signature verification failed"
	}

	return tx.TesSUCCESS, ""
}
