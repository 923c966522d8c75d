package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/core/validator"
)

// CheckTransaction is the single predicate shared by pool admission and
// the apply path (spec.md §4.2's rationale: "the validator is duplicated
// between the local pool admission path and the ledger-apply path, both
// call the same predicate"). It never mutates the ledger.
func (l *Ledger) CheckTransaction(t *tx.Transaction) (tx.Result, string) {
	if code, msg := validator.ValidateStateless(t, l.HasAppliedTx); !code.Succeeded() {
		return code, msg
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.checkStatefulLocked(t)
}

// checkStatefulLocked runs spec.md §4.2's stateful checks: signer exists,
// sequence equals the signer's exactly, and balance covers the native
// debit plus fee. Callers must already hold l.mu (read or write).
func (l *Ledger) checkStatefulLocked(t *tx.Transaction) (tx.Result, string) {
	signer, ok := l.Accounts[t.Account]
	if !ok {
		return tx.TecUNFUNDED, "signer account does not exist"
	}
	if t.Sequence != signer.Sequence {
		if t.Sequence < signer.Sequence {
			return tx.TefPAST_SEQ, "sequence already consumed"
		}
		return tx.TefBAD_SEQ, "sequence does not match account"
	}

	switch t.Kind {
	case tx.KindPayment:
		if t.Amount.IsNative() {
			if signer.Balance < t.Amount.Drops+t.Fee {
				return tx.TecUNFUNDED, "insufficient balance for amount and fee"
			}
		} else {
			if signer.Balance < t.Fee {
				return tx.TecUNFUNDED, "insufficient balance for fee"
			}
			// The issuer itself needs no trust line to issue its own IOU.
			if t.Account != t.Amount.Asset.Issuer {
				if _, ok := signer.TrustLine(t.Amount.Asset.Currency, t.Amount.Asset.Issuer); !ok {
					return tx.TecNO_LINE, "no trust line for asset"
				}
			}
		}
	default:
		if signer.Balance < t.Fee {
			return tx.TecUNFUNDED, "insufficient balance for fee"
		}
	}

	return tx.TesSUCCESS, ""
}
