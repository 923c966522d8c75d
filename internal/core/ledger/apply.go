package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/core/validator"
)

// ApplyTransaction is the ledger's sole mutator (spec.md §4.3): given the
// same prior state and the same transaction, it computes the same next
// state and the same result code on every node. Every apply_* path is
// all-or-nothing — this function only commits a mutation after every
// constraint it depends on has already been checked, so there is never a
// partial write to roll back.
func (l *Ledger) ApplyTransaction(t *tx.Transaction) tx.Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	if code, _ := validator.ValidateStateless(t, func(id [32]byte) bool { return l.AppliedTxIDs[id] }); !code.Succeeded() {
		return code
	}
	if code, _ := l.checkStatefulLocked(t); !code.Succeeded() {
		return code
	}

	txID, err := tx.TxID(t)
	if err != nil {
		return tx.TemMALFORMED
	}
	signer := l.Accounts[t.Account]

	var result tx.Result
	switch t.Kind {
	case tx.KindPayment:
		result = l.applyPayment(signer, t)
	case tx.KindTrustSet:
		result = l.applyTrustSet(signer, t)
	case tx.KindAccountSet:
		result = l.applyAccountSet(signer, t)
	case tx.KindSetRegularKey:
		result = l.applySetRegularKey(signer, t)
	case tx.KindSignerListSet:
		result = l.applySignerListSet(signer, t)
	case tx.KindStake:
		result = l.applyStake(signer, t, txID)
	case tx.KindUnstake:
		result = l.applyUnstake(signer, t)
	default:
		result = tx.TecNO_PERMISSION
	}

	if result.Rejected() {
		// tef/tem: no mutation happened — the signer's sequence must not
		// advance and the tx must not enter the applied set, or a
		// legitimately retried transaction would be refused forever.
		return result
	}

	// Every tes/tec outcome claims the fee and advances the sequence
	// (spec.md §4.1: "tec: the transaction claimed a fee and advanced the
	// signer's sequence"; §4.3 step 8).
	signer.Sequence++
	l.AppliedTxIDs[txID] = true
	l.PendingTxns = append(l.PendingTxns, t)

	return result
}
