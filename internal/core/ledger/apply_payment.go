package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// applyPayment implements spec.md §4.3's Payment application, steps 4-7.
// The caller (ApplyTransaction) has already run steps 1-3 (replay,
// signer lookup, sequence) and holds the write lock.
func (l *Ledger) applyPayment(signer *Account, t *tx.Transaction) tx.Result {
	if t.Destination == "" {
		return tx.TemDST_NEEDED
	}

	dest, destExists := l.Accounts[t.Destination]
	selfPayment := t.Destination == signer.Address

	// Carried forward from the teacher's payment path: a self-payment
	// bypasses the destination's require-dest-tag and deposit-auth gates
	// (an account can always top up its own balance), and an account that
	// has never been funded (zero balance, zero owner-count) cannot yet
	// have authorized anyone, so deposit-auth would otherwise wedge it
	// permanently unreachable — the very first payment in is let through.
	if destExists && !selfPayment {
		if dest.HasFlag(FlagRequireDestTag) && !t.HasDestTag {
			l.chargeFeeOnly(signer, t.Fee)
			return tx.TecDST_TAG_NEEDED
		}
		if dest.HasFlag(FlagDepositAuth) && !dest.DepositPreauth[signer.Address] {
			wedged := dest.Balance == 0 && dest.OwnerCount == 0
			if !wedged {
				l.chargeFeeOnly(signer, t.Fee)
				return tx.TecNO_PERMISSION
			}
		}
	}

	if t.Amount.IsNative() {
		return l.applyNativePayment(signer, dest, destExists, t)
	}
	return l.applyIOUPayment(signer, dest, destExists, t)
}

// applyNativePayment is spec.md §4.3 step 6.
func (l *Ledger) applyNativePayment(signer, dest *Account, destExists bool, t *tx.Transaction) tx.Result {
	total := t.Amount.Drops + t.Fee
	if signer.Balance < total {
		return tx.TecUNFUNDED
	}

	signer.Balance -= total
	l.FeePool += t.Fee
	l.TotalBurned += t.Fee
	l.TotalSupply -= t.Fee

	if !destExists {
		dest = l.getOrCreateAccount(t.Destination)
	}
	dest.Balance += t.Amount.Drops

	return tx.TesSUCCESS
}

// applyIOUPayment is spec.md §4.3 step 7. Direct bilateral trust-line
// transfer: the issuer backs every holder's positive balance, so a
// payment where either party IS the issuer needs no trust line on that
// side (issuance / redemption); holder-to-holder transfers require both
// trust lines to exist and respects each one's limit and frozen state.
func (l *Ledger) applyIOUPayment(signer, dest *Account, destExists bool, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}
	if !destExists {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecNO_DST
	}

	issuerAddr := t.Amount.Asset.Issuer
	currency := t.Amount.Asset.Currency
	issuer, issuerExists := l.Accounts[issuerAddr]

	signerIsIssuer := t.Account == issuerAddr
	destIsIssuer := t.Destination == issuerAddr

	if issuerExists && issuer.HasFlag(FlagGlobalFreeze) && !destIsIssuer {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecGLOBAL_FREEZE
	}

	var signerLine, destLine *TrustLine
	if !signerIsIssuer {
		line, ok := signer.TrustLine(currency, issuerAddr)
		if !ok {
			l.chargeFeeOnly(signer, t.Fee)
			return tx.TecNO_LINE
		}
		signerLine = line
	}
	if !destIsIssuer {
		line, ok := dest.TrustLine(currency, issuerAddr)
		if !ok {
			l.chargeFeeOnly(signer, t.Fee)
			return tx.TecNO_LINE
		}
		destLine = line
	}

	if (signerLine != nil && signerLine.Frozen) || (destLine != nil && destLine.Frozen) {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecFROZEN
	}

	transferRate := 1.0
	if issuerExists && !signerIsIssuer && !destIsIssuer {
		transferRate = issuer.TransferRate
	}
	if transferRate < 1.0 {
		transferRate = 1.0
	}

	requested := t.Amount.Drops

	available := requested
	if destLine != nil {
		if a := destLine.AvailableToReceive(); a < available {
			available = a
		}
	}
	if signerLine != nil {
		sendable := signerLine.Balance
		if sendable < 0 {
			sendable = 0
		}
		if sendable < available {
			available = sendable
		}
	}

	delivered := requested
	if available < requested {
		if t.Flags&tx.TfPartialPayment == 0 {
			l.chargeFeeOnly(signer, t.Fee)
			return tx.TecUNFUNDED
		}
		delivered = available
	}
	if delivered <= 0 {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecUNFUNDED
	}

	debit := int64(float64(delivered) * transferRate)
	if signerLine != nil {
		signerLine.Balance -= debit
	}
	if destLine != nil {
		destLine.Balance += delivered
	}

	l.chargeFeeOnly(signer, t.Fee)

	// A delivery under tfPartialPayment is still tesSUCCESS — the
	// trust-line balance deltas above are themselves the record of what
	// was actually delivered, short of the requested amount.
	return tx.TesSUCCESS
}

// chargeFeeOnly debits the native fee and burns it, independent of
// whatever else a payment attempt did or failed to do — every claimed-cost
// (tec) outcome still pays for the sequence slot it consumed.
func (l *Ledger) chargeFeeOnly(signer *Account, fee int64) {
	signer.Balance -= fee
	l.FeePool += fee
	l.TotalBurned += fee
	l.TotalSupply -= fee
}
