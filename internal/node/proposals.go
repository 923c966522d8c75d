package node

import (
	"sync"

	"github.com/nexaflow/nxfd/internal/core/consensus"
)

// proposalCollector buffers inbound PROPOSAL messages keyed by ledger
// sequence, so the consensus loop can gather whatever peers have sent
// within its collection window before running a round (spec.md §4.4).
// Sequences older than the one currently open are dropped lazily on the
// next Drain, since a round group never revisits a past ledger sequence.
type proposalCollector struct {
	mu sync.Mutex
	byLedgerSeq map[uint32]map[string]*consensus.Proposal
}

func newProposalCollector() *proposalCollector {
	return &proposalCollector{byLedgerSeq: make(map[uint32]map[string]*consensus.Proposal)}
}

// Add records a proposal, keeping only the most recently received one per
// (ledger-seq, validator) — equivocation detection itself happens later,
// inside consensus.Round.admit, which needs to see every distinct set a
// validator sent within the same round; this collector only needs to
// forward the latest round-0 claim into NewRound, since subsequent rounds
// are driven by the engine's own convergence step, not further network
// input.
func (c *proposalCollector) Add(p *consensus.Proposal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bucket, ok := c.byLedgerSeq[p.LedgerSeq]
	if !ok {
		bucket = make(map[string]*consensus.Proposal)
		c.byLedgerSeq[p.LedgerSeq] = bucket
	}
	bucket[p.ValidatorID] = p
}

// Drain returns every proposal collected for ledgerSeq and discards all
// buckets at or below it, so a slow peer's proposal for an already-closed
// sequence never leaks into the next round group.
func (c *proposalCollector) Drain(ledgerSeq uint32) []*consensus.Proposal {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.byLedgerSeq[ledgerSeq]
	out := make([]*consensus.Proposal, 0, len(bucket))
	for _, p := range bucket {
		out = append(out, p)
	}

	for seq := range c.byLedgerSeq {
		if seq <= ledgerSeq {
			delete(c.byLedgerSeq, seq)
		}
	}
	return out
}
