package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// applySignerListSet replaces (or, with an empty destination, clears) an
// account's signer list — a simplified single-entry-per-transaction form
// of spec.md §3's "optional signer-list"; multi-signature threshold
// quorum evaluation is out of scope for this core (spec.md §1) and the
// regular-key / master-key path remains the sole signing authority.
func (l *Ledger) applySignerListSet(signer *Account, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}

	if t.Destination == "" {
		if len(signer.SignerList) > 0 {
			signer.OwnerCount--
		}
		signer.SignerList = nil
	} else {
		if !t.Destination.Valid() {
			return tx.TemMALFORMED
		}
		if len(signer.SignerList) == 0 {
			if signer.Balance-t.Fee < BaseReserveDrops+int64(signer.OwnerCount+1)*OwnerReserveIncDrops {
				l.chargeFeeOnly(signer, t.Fee)
				return tx.TecINSUF_RESERVE
			}
			signer.OwnerCount++
		}
		signer.SignerList = []crypto.Address{t.Destination}
	}

	l.chargeFeeOnly(signer, t.Fee)
	return tx.TesSUCCESS
}
