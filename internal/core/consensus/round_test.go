package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func txID(b byte) [32]byte {
	var id [32]byte
	id[0] = b
	return id
}

func TestRoundAcceptsUnanimousSet(t *testing.T) {
	e := NewEngine("self", []string{"v1", "v2", "v3"}, nil)
	ids := [][32]byte{txID(1), txID(2)}

	initial := []*Proposal{
		{ValidatorID: "self", LedgerSeq: 10, TxIDs: ids},
		{ValidatorID: "v1", LedgerSeq: 10, TxIDs: ids},
		{ValidatorID: "v2", LedgerSeq: 10, TxIDs: ids},
		{ValidatorID: "v3", LedgerSeq: 10, TxIDs: ids},
	}

	round := e.NewRound(10, initial)
	result, ok := round.Run()
	require.True(t, ok)
	require.Equal(t, uint32(10), result.LedgerSeq)
	require.ElementsMatch(t, ids, result.AgreedTxIDs)
	require.Empty(t, result.ByzantineExcluded)
	require.InDelta(t, 0.80, result.Threshold, 1e-9)
}

func TestRoundExcludesEquivocator(t *testing.T) {
	e := NewEngine("self", []string{"v1", "v2", "v3"}, nil)
	ids := [][32]byte{txID(1)}
	otherIDs := [][32]byte{txID(2)}

	initial := []*Proposal{
		{ValidatorID: "self", LedgerSeq: 5, TxIDs: ids},
		{ValidatorID: "v1", LedgerSeq: 5, TxIDs: ids},
		{ValidatorID: "v1", LedgerSeq: 5, TxIDs: otherIDs}, // equivocates
		{ValidatorID: "v2", LedgerSeq: 5, TxIDs: ids},
		{ValidatorID: "v3", LedgerSeq: 5, TxIDs: ids},
	}

	round := e.NewRound(5, initial)
	result, ok := round.Run()
	require.True(t, ok)
	require.Contains(t, result.ByzantineExcluded, "v1")
	require.ElementsMatch(t, ids, result.AgreedTxIDs)
}

func TestRoundFailsWithoutAStableFirstRound(t *testing.T) {
	e := NewEngine("self", []string{"v1", "v2", "v3"}, nil)
	e.MaxRounds = 1 // a single round starts at the terminal threshold directly,
	// so a non-empty working set can never match the (empty) prior round.

	initial := []*Proposal{
		{ValidatorID: "self", LedgerSeq: 7, TxIDs: [][32]byte{txID(1)}},
		{ValidatorID: "v1", LedgerSeq: 7, TxIDs: [][32]byte{txID(1)}},
		{ValidatorID: "v2", LedgerSeq: 7, TxIDs: [][32]byte{txID(1)}},
		{ValidatorID: "v3", LedgerSeq: 7, TxIDs: [][32]byte{txID(1)}},
	}

	round := e.NewRound(7, initial)
	_, ok := round.Run()
	require.False(t, ok)
}

func TestRoundAcceptsEmptySetWhenNoCandidateHasMajority(t *testing.T) {
	e := NewEngine("self", []string{"v1", "v2", "v3"}, nil)

	initial := []*Proposal{
		{ValidatorID: "self", LedgerSeq: 7, TxIDs: [][32]byte{txID(1)}},
		{ValidatorID: "v1", LedgerSeq: 7, TxIDs: [][32]byte{txID(2)}},
		{ValidatorID: "v2", LedgerSeq: 7, TxIDs: [][32]byte{txID(3)}},
		{ValidatorID: "v3", LedgerSeq: 7, TxIDs: [][32]byte{txID(4)}},
	}

	round := e.NewRound(7, initial)
	result, ok := round.Run()
	require.True(t, ok)
	require.Empty(t, result.AgreedTxIDs)
}

func TestEngineWarnsOnSmallUNL(t *testing.T) {
	e := NewEngine("self", []string{"v1"}, nil)
	require.NotEmpty(t, e.Warnings())

	e2 := NewEngine("self", []string{"v1", "v2", "v3"}, nil)
	require.Empty(t, e2.Warnings())
}
