package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// applySetRegularKey installs or clears an account's regular key: an
// alternate signing key that can authorize transactions without exposing
// the master key (spec.md §3's "optional regular-key"). Destination
// carries the new regular key address; an empty destination clears it.
func (l *Ledger) applySetRegularKey(signer *Account, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}

	if t.Destination == "" {
		signer.HasRegularKey = false
		signer.RegularKey = ""
	} else {
		if !t.Destination.Valid() {
			return tx.TemMALFORMED
		}
		signer.HasRegularKey = true
		signer.RegularKey = t.Destination
	}

	l.chargeFeeOnly(signer, t.Fee)
	return tx.TesSUCCESS
}
