// Package txpool implements the node-local pending-transaction pool:
// admission through the shared validator predicate, and a bounded
// dedup cache so re-gossiped transactions are recognized cheaply without
// growing memory without bound (spec.md §5's "Shared-resource policy").
package txpool

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nexaflow/nxfd/internal/core/tx"
)

// Checker is the shared stateful+stateless predicate the pool admits
// against — satisfied by *ledger.Ledger (spec.md §4.2's "both call the
// same predicate").
type Checker interface {
	CheckTransaction(t *tx.Transaction) (tx.Result, string)
}

// DefaultMaxPending caps the number of simultaneously pending
// transactions a node will hold before refusing new admissions.
const DefaultMaxPending = 50_000

// DefaultSeenCacheSize bounds the dedup cache independent of the pending
// set, so a transaction already applied (and removed from pending) is
// still recognized as seen for a while (spec.md §5: "a bounded LRU-ish
// set of seen ids caps memory").
const DefaultSeenCacheSize = 200_000

// Pool is the node's pending-transaction pool.
type Pool struct {
	mu      sync.Mutex
	checker Checker

	pending map[[32]byte]*tx.Transaction
	seen    *lru.Cache[[32]byte, struct{}]

	maxPending int
}

// New constructs a Pool backed by checker, with the given pending-set cap
// and dedup-cache size (0 selects the package defaults).
func New(checker Checker, maxPending, seenCacheSize int) (*Pool, error) {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	if seenCacheSize <= 0 {
		seenCacheSize = DefaultSeenCacheSize
	}
	seen, err := lru.New[[32]byte, struct{}](seenCacheSize)
	if err != nil {
		return nil, fmt.Errorf("txpool: construct dedup cache: %w", err)
	}
	return &Pool{
		checker:    checker,
		pending:    make(map[[32]byte]*tx.Transaction),
		seen:       seen,
		maxPending: maxPending,
	}, nil
}

// Admit runs the shared predicate and, on success, adds t to the pending
// set. It is the single entry point used both for locally submitted
// transactions and for transactions received via gossip.
func (p *Pool) Admit(t *tx.Transaction) (tx.Result, string) {
	id, err := tx.TxID(t)
	if err != nil {
		return tx.TemMALFORMED, "unable to compute tx-id"
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[id]; ok {
		return tx.TecDUPLICATE, "already pending"
	}
	if _, ok := p.seen.Get(id); ok {
		return tx.TecDUPLICATE, "already seen"
	}

	code, msg := p.checker.CheckTransaction(t)
	if !code.Succeeded() {
		p.seen.Add(id, struct{}{})
		return code, msg
	}

	if len(p.pending) >= p.maxPending {
		return tx.TecINTERNAL, "pool at capacity"
	}

	p.pending[id] = t
	p.seen.Add(id, struct{}{})
	return tx.TesSUCCESS, ""
}

// Remove drops a transaction from the pending set, e.g. after it has
// been applied at ledger closure.
func (p *Pool) Remove(id [32]byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, id)
}

// Has reports whether id is currently pending.
func (p *Pool) Has(id [32]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.pending[id]
	return ok
}

// Seen reports whether id has been admitted or rejected before, even if
// it is no longer pending.
func (p *Pool) Seen(id [32]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.seen.Get(id)
	return ok
}

// TxIDs returns every pending tx-id in ascending order, the set a node
// proposes at the next consensus tick (spec.md §2: "each node emits a
// Proposal (the set of tx-ids it currently holds)").
func (p *Pool) TxIDs() [][32]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([][32]byte, 0, len(p.pending))
	for id := range p.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	return ids
}

// Transactions returns the pending transactions for the given tx-ids, in
// the same order, skipping any the pool no longer holds.
func (p *Pool) Transactions(ids [][32]byte) []*tx.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*tx.Transaction, 0, len(ids))
	for _, id := range ids {
		if t, ok := p.pending[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Len reports the number of currently pending transactions.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func idLess(a, b [32]byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
