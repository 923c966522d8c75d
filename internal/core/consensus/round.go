package consensus

import (
	"bytes"
	"sort"
)

// Round drives one ledger-sequence's round group to ACCEPTED or FAILED
// (spec.md §4.4). It is constructed fresh for each ledger sequence.
type Round struct {
	engine    *Engine
	ledgerSeq uint32

	byzantine map[string]bool
	// current holds each validator's current-round proposal; it is
	// mutated in place by the convergence step between rounds (spec.md
	// §4.4: "update each validator's proposal to be the union of its
	// previous proposal with the working set").
	current map[string]*Proposal
}

// NewRound starts a round group for ledgerSeq, seeded with each
// validator's initial (round-0) proposal.
func (e *Engine) NewRound(ledgerSeq uint32, initial []*Proposal) *Round {
	r := &Round{
		engine:    e,
		ledgerSeq: ledgerSeq,
		byzantine: make(map[string]bool),
		current:   make(map[string]*Proposal),
	}
	r.admit(initial)
	return r
}

// admit verifies signatures and detects equivocation before storing each
// proposal as its author's current-round proposal.
func (r *Round) admit(proposals []*Proposal) {
	seenThisRound := make(map[string]*Proposal)
	for _, p := range proposals {
		if p.LedgerSeq != r.ledgerSeq {
			continue
		}
		if pubKey, ok := r.engine.PublicKeys[p.ValidatorID]; ok {
			if !p.VerifySigned(pubKey) {
				r.byzantine[p.ValidatorID] = true
				continue
			}
		}
		if prior, ok := seenThisRound[p.ValidatorID]; ok && !prior.SameSet(p) {
			// Equivocation: two different tx-id sets for the same
			// (round, ledger-seq) (spec.md §4.4).
			r.byzantine[p.ValidatorID] = true
			continue
		}
		seenThisRound[p.ValidatorID] = p
		r.current[p.ValidatorID] = p
	}
}

// Run executes rounds until ACCEPTED or FAILED, returning the
// ConsensusResult on acceptance. FAILED returns (nil, false).
func (r *Round) Run() (*ConsensusResult, bool) {
	var previousWorkingSet [][32]byte

	for round := 0; round < r.engine.MaxRounds; round++ {
		threshold := r.engine.Threshold(round)
		workingSet := r.tally(threshold)

		stable := sameSet(workingSet, previousWorkingSet)
		if stable && threshold >= r.engine.TerminalThreshold {
			return r.accept(workingSet, round+1, threshold), true
		}

		r.converge(workingSet)
		previousWorkingSet = workingSet
	}

	return nil, false
}

// tally counts, for every candidate tx-id across all non-Byzantine
// validators' current proposals, the fraction of non-Byzantine voters
// that include it, and returns every candidate meeting threshold.
func (r *Round) tally(threshold float64) [][32]byte {
	voterCount := 0
	counts := make(map[[32]byte]int)

	for validatorID, p := range r.current {
		if r.byzantine[validatorID] {
			continue
		}
		voterCount++
		for _, id := range p.TxIDs {
			counts[id]++
		}
	}

	if voterCount == 0 {
		return nil
	}

	var included [][32]byte
	for id, count := range counts {
		if float64(count)/float64(voterCount) >= threshold {
			included = append(included, id)
		}
	}
	sort.Slice(included, func(i, j int) bool { return bytes.Compare(included[i][:], included[j][:]) < 0 })
	return included
}

// converge updates every non-Byzantine validator's current proposal to
// the union of its previous tx-ids with the working set, simulating the
// deterministic convergence every honest node independently computes
// (spec.md §4.4).
func (r *Round) converge(workingSet [][32]byte) {
	for validatorID, p := range r.current {
		if r.byzantine[validatorID] {
			continue
		}
		merged := unionTxIDs(p.TxIDs, workingSet)
		r.current[validatorID] = &Proposal{
			ValidatorID: p.ValidatorID,
			LedgerSeq:   p.LedgerSeq,
			TxIDs:       merged,
			Round:       p.Round + 1,
		}
	}
}

func (r *Round) accept(workingSet [][32]byte, roundsTaken int, threshold float64) *ConsensusResult {
	excluded := make([]string, 0, len(r.byzantine))
	for id := range r.byzantine {
		excluded = append(excluded, id)
	}
	sort.Strings(excluded)

	return &ConsensusResult{
		LedgerSeq:         r.ledgerSeq,
		AgreedTxIDs:       workingSet,
		RoundsTaken:       roundsTaken,
		Threshold:         threshold,
		Proposals:         len(r.current),
		ByzantineExcluded: excluded,
	}
}

func sameSet(a, b [][32]byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func unionTxIDs(a, b [][32]byte) [][32]byte {
	seen := make(map[[32]byte]bool, len(a)+len(b))
	var out [][32]byte
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}
