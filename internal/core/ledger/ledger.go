package ledger

import (
	"sort"
	"sync"

	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// Ledger is the node's aggregate ledger state (spec.md §3's "Ledger
// aggregate state"). A single Ledger instance is mutated only by its own
// apply path, on the node's single cooperative task (spec.md §5) — the
// mutex here guards against accidental concurrent access (e.g. an RPC
// handler reading state while apply runs), not against genuine parallel
// mutation, which the concurrency model forbids by construction.
type Ledger struct {
	mu sync.RWMutex

	InitialSupply int64
	TotalSupply   int64
	TotalBurned   int64
	TotalMinted   int64

	AppliedTxIDs map[[32]byte]bool
	Accounts     map[crypto.Address]*Account
	Stakes       map[[32]byte]*staking.Record

	ClosedLedgers   []*LedgerHeader
	PendingTxns     []*tx.Transaction
	FeePool         int64
	CurrentSequence uint32
}

// NewGenesis creates the initial ledger: a single genesis account funded
// with the entire initial supply (spec.md §3's "Lifecycle" note — genesis
// is the only source of value at bootstrap).
func NewGenesis(genesisAddr crypto.Address, initialSupplyDrops int64) *Ledger {
	l := &Ledger{
		InitialSupply:   initialSupplyDrops,
		TotalSupply:     initialSupplyDrops,
		AppliedTxIDs:    make(map[[32]byte]bool),
		Accounts:        make(map[crypto.Address]*Account),
		Stakes:          make(map[[32]byte]*staking.Record),
		CurrentSequence: 0,
	}
	genesis := NewAccount(genesisAddr)
	genesis.Balance = initialSupplyDrops
	genesis.Sequence = 1
	l.Accounts[genesisAddr] = genesis
	return l
}

// HasAppliedTx reports whether a tx-id has already been applied; it
// satisfies validator.ReplayCheck.
func (l *Ledger) HasAppliedTx(txID [32]byte) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.AppliedTxIDs[txID]
}

// GetAccount returns the account at addr, if any.
func (l *Ledger) GetAccount(addr crypto.Address) (*Account, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.Accounts[addr]
	return a, ok
}

// getOrCreateAccount returns the account at addr, auto-creating a
// zero-balance account if absent (spec.md §4.3 step 6's "auto-create
// destination account if missing"). Callers must hold l.mu.
func (l *Ledger) getOrCreateAccount(addr crypto.Address) *Account {
	if a, ok := l.Accounts[addr]; ok {
		return a
	}
	a := NewAccount(addr)
	l.Accounts[addr] = a
	return a
}

// SortedAddresses returns every account address in ascending order, used
// for the reproducible state-hash (spec.md §4.3 step 2).
func (l *Ledger) SortedAddresses() []crypto.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	addrs := make([]crypto.Address, 0, len(l.Accounts))
	for addr := range l.Accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// AddPendingTx appends a transaction to the pending set without applying
// it. The next Close counts it in the header's tx-count and tx-hash and
// then clears the set.
func (l *Ledger) AddPendingTx(t *tx.Transaction) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.PendingTxns = append(l.PendingTxns, t)
}

// TipHash returns the hash of the most recently closed ledger header, or
// the zero hash if no ledger has closed yet (genesis's parent).
func (l *Ledger) TipHash() [32]byte {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.ClosedLedgers) == 0 {
		return [32]byte{}
	}
	return l.ClosedLedgers[len(l.ClosedLedgers)-1].Hash()
}
