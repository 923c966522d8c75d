package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// applyTrustSet implements spec.md §4.3's TrustSet semantics.
func (l *Ledger) applyTrustSet(signer *Account, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}

	currency := t.TrustLimit.Asset.Currency
	issuer := t.TrustLimit.Asset.Issuer
	key := TrustLineKey{Currency: currency, Issuer: issuer}

	line, exists := signer.TrustLines[key]
	if !exists {
		if signer.Balance-t.Fee < BaseReserveDrops+int64(signer.OwnerCount+1)*OwnerReserveIncDrops {
			l.chargeFeeOnly(signer, t.Fee)
			return tx.TecINSUF_RESERVE
		}
		line = NewTrustLine(currency, issuer, t.TrustLimit.Drops)
		signer.TrustLines[key] = line
		signer.OwnerCount++
	} else {
		line.Limit = t.TrustLimit.Drops
	}

	if t.Flags&tx.TfSetfAuth != 0 {
		line.Authorized = true
	}
	if t.Flags&tx.TfClearfAuth != 0 {
		line.Authorized = false
	}
	if t.Flags&tx.TfSetNoRipple != 0 {
		// no-ripple is not separately modeled (direct bilateral transfers
		// only, no rippling through third-party trust lines) but the bit
		// is preserved on the wire for forward compatibility.
	}
	if t.Flags&tx.TfSetFreeze != 0 {
		line.Frozen = true
	}
	if t.Flags&tx.TfClearFreeze != 0 {
		line.Frozen = false
	}

	l.chargeFeeOnly(signer, t.Fee)
	return tx.TesSUCCESS
}
