package ledger

import (
	"github.com/nexaflow/nxfd/internal/crypto"
)

// Close performs spec.md §4.3's "Ledger closure" sequence: sweep matured
// stakes, compute the tx-hash and state-hash, emit and chain the new
// header, and clear the pending-transaction set. closeTime is the
// consensus-agreed close time for the new ledger.
func (l *Ledger) Close(closeTime int64) *LedgerHeader {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweepMaturedStakesLocked(closeTime)

	txHash := l.txHashLocked()
	stateHash := l.stateHashLocked()

	header := &LedgerHeader{
		Sequence:   l.CurrentSequence + 1,
		ParentHash: l.tipHashLocked(),
		TxHash:     txHash,
		StateHash:  stateHash,
		CloseTime:  closeTime,
		TxCount:    uint32(len(l.PendingTxns)),
		TotalNXF:   l.TotalSupply,
	}

	l.ClosedLedgers = append(l.ClosedLedgers, header)
	l.CurrentSequence = header.Sequence
	l.PendingTxns = nil

	return header
}

// sweepMaturedStakesLocked implements closure step 1: credit every
// Flexible-excluded stake whose maturity-time has arrived.
func (l *Ledger) sweepMaturedStakesLocked(now int64) {
	for _, record := range l.Stakes {
		if !record.ReadyToMature(now) {
			continue
		}
		payout, minted := record.Mature()
		owner, ok := l.Accounts[record.Owner]
		if !ok {
			owner = l.getOrCreateAccount(record.Owner)
		}
		owner.Balance += payout
		l.TotalMinted += minted
		l.TotalSupply += minted
	}
}

// txHashLocked is BLAKE2b over the ordered tx-id list (spec.md §4.3 step
// 2). Ordering is lexicographic-by-tx-id, the same order apply uses.
func (l *Ledger) txHashLocked() [32]byte {
	ids := make([][32]byte, 0, len(l.PendingTxns))
	for _, t := range l.PendingTxns {
		id, err := txIDOf(t)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sortTxIDs(ids)

	buf := make([]byte, 0, len(ids)*32)
	for _, id := range ids {
		buf = append(buf, id[:]...)
	}
	return crypto.Blake2b256(buf)
}

// stateHashLocked is BLAKE2b over the canonical serialization of every
// account, in address order, for cross-node reproducibility (spec.md
// §4.3 step 2).
func (l *Ledger) stateHashLocked() [32]byte {
	addrs := make([]string, 0, len(l.Accounts))
	for addr := range l.Accounts {
		addrs = append(addrs, string(addr))
	}
	sortStrings(addrs)

	buf := make([]byte, 0, len(addrs)*64)
	for _, addrStr := range addrs {
		a := l.Accounts[crypto.Address(addrStr)]
		buf = append(buf, encodeAccountForHash(a)...)
	}
	return crypto.Blake2b256(buf)
}

func (l *Ledger) tipHashLocked() [32]byte {
	if len(l.ClosedLedgers) == 0 {
		return [32]byte{}
	}
	return l.ClosedLedgers[len(l.ClosedLedgers)-1].Hash()
}
