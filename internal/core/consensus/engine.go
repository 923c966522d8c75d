package consensus

import "fmt"

// Engine is the node-local consensus configuration: its UNL (Unique Node
// List) of trusted validators and, optionally, their public keys for
// proposal signature verification (spec.md §4.4).
type Engine struct {
	SelfID     string
	UNL        []string          // trusted validator IDs, excluding self
	PublicKeys map[string]string // validator ID -> hex compressed pubkey; absent entries accept unsigned proposals

	MaxRounds       int
	StartThreshold  float64
	TerminalThreshold float64
}

// NewEngine constructs an Engine with spec.md §4.4's defaults
// (max_rounds=4, t0=0.50, t_f=0.80).
func NewEngine(selfID string, unl []string, publicKeys map[string]string) *Engine {
	if publicKeys == nil {
		publicKeys = make(map[string]string)
	}
	return &Engine{
		SelfID:            selfID,
		UNL:               unl,
		PublicKeys:        publicKeys,
		MaxRounds:         4,
		StartThreshold:    0.50,
		TerminalThreshold: 0.80,
	}
}

// N returns |UNL| + 1 (self inclusive).
func (e *Engine) N() int { return len(e.UNL) + 1 }

// F returns the Byzantine tolerance floor(3f+1 boundary): ⌊(n-1)/3⌋.
func (e *Engine) F() int { return (e.N() - 1) / 3 }

// Threshold computes threshold(r) = min(t_f, t0 + r*(t_f-t0)/(max_rounds-1)).
func (e *Engine) Threshold(round int) float64 {
	if e.MaxRounds <= 1 {
		return e.TerminalThreshold
	}
	t := e.StartThreshold + float64(round)*(e.TerminalThreshold-e.StartThreshold)/float64(e.MaxRounds-1)
	if t > e.TerminalThreshold {
		return e.TerminalThreshold
	}
	return t
}

// Warnings returns operator-facing warnings about this UNL's
// configuration (spec.md §4.4: "implementers should warn when n < 4").
func (e *Engine) Warnings() []string {
	var warnings []string
	if e.N() < 4 {
		warnings = append(warnings, fmt.Sprintf("UNL size n=%d is below the 3f+1 boundary (n>=4); Byzantine tolerance is not meaningful", e.N()))
	}
	return warnings
}
