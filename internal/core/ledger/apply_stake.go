package ledger

import (
	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/core/tx"
)

// applyStake locks up native balance into a new staking record (spec.md
// §4.5). stake-id is the transaction's own tx-id (spec.md §4.5's "Replay
// protection at the stake layer: stake-id == tx-id"), so a duplicate
// Stake can never be applied twice regardless of this check — the
// ledger-wide applied-tx-ids set already guarantees it — but the stakes
// map is also keyed by the same id for O(1) lookup from Unstake.
func (l *Ledger) applyStake(signer *Account, t *tx.Transaction, txID [32]byte) tx.Result {
	total := t.Amount.Drops + t.Fee
	if signer.Balance < total {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecUNFUNDED
	}
	if t.Amount.Drops < staking.MinStakeDrops {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecUNFUNDED
	}

	stakeRatio := l.stakeRatioLocked()
	record, err := staking.NewRecord(txID, signer.Address, t.Amount.Drops, t.StakeTier, stakeRatio, l.closeTimeHint())
	if err != nil {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecUNFUNDED
	}

	signer.Balance -= total
	l.FeePool += t.Fee
	l.TotalBurned += t.Fee
	l.TotalSupply -= t.Fee
	l.Stakes[txID] = record

	return tx.TesSUCCESS
}

// applyUnstake cancels an existing stake, crediting the owner the
// time-decayed payout and burning any forfeited principal (spec.md §4.5).
// Only the record's owner may cancel it.
func (l *Ledger) applyUnstake(signer *Account, t *tx.Transaction) tx.Result {
	if signer.Balance < t.Fee {
		return tx.TecUNFUNDED
	}

	record, ok := l.Stakes[t.StakeID]
	if !ok {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecSTAKE_NOT_FOUND
	}
	if record.Owner != signer.Address {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecNOT_OWNER
	}
	if record.Matured || record.Cancelled {
		l.chargeFeeOnly(signer, t.Fee)
		return tx.TecSTAKE_LOCKED
	}

	payout, burned, _ := record.CancelPayout(l.closeTimeHint())
	record.Cancel(payout)

	signer.Balance -= t.Fee
	l.FeePool += t.Fee
	l.TotalBurned += t.Fee
	l.TotalSupply -= t.Fee

	signer.Balance += payout
	if burned > 0 {
		l.TotalBurned += burned
		l.TotalSupply -= burned
	}

	return tx.TesSUCCESS
}

// stakeRatioLocked computes the current fraction of circulating supply
// held in non-cancelled, non-matured stakes. Callers must hold l.mu.
func (l *Ledger) stakeRatioLocked() float64 {
	if l.TotalSupply <= 0 {
		return 0
	}
	var staked int64
	for _, r := range l.Stakes {
		if !r.Matured && !r.Cancelled {
			staked += r.PrincipalDrops
		}
	}
	return float64(staked) / float64(l.TotalSupply)
}

// closeTimeHint returns the close-time of the most recently closed
// ledger, used as "now" when a Stake/Unstake applies mid-round (the
// ledger only advances its authoritative clock at closure).
func (l *Ledger) closeTimeHint() int64 {
	if len(l.ClosedLedgers) == 0 {
		return 0
	}
	return l.ClosedLedgers[len(l.ClosedLedgers)-1].CloseTime
}
