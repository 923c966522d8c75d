package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// applyAccountSet updates an account's flag bits and transfer-rate.
// Transaction-level tx.Flags is interpreted, in this kind's context, as a
// request to set the matching account flag bits directly (no separate
// set/clear pair is wired per flag beyond what spec.md §3 enumerates).
func (l *Ledger) applyAccountSet(signer *Account, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}

	signer.Flags = t.Flags &^ accountSetReservedBits

	if t.Amount.IsNative() && t.Amount.Drops > 0 {
		rate := 1.0 + float64(t.Amount.Drops)/float64(1_00000000)
		signer.TransferRate = rate
	}

	l.chargeFeeOnly(signer, t.Fee)
	return tx.TesSUCCESS
}

// accountSetReservedBits masks out the TrustSet-only flag bits so an
// AccountSet transaction can't accidentally toggle trust-line state via
// bit overlap in the shared Flags field.
const accountSetReservedBits = tx.TfPartialPayment | tx.TfSetfAuth | tx.TfClearfAuth |
	tx.TfSetNoRipple | tx.TfClearNoRipple | tx.TfSetFreeze | tx.TfClearFreeze
