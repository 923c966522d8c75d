package staking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlexibleCancelNoPenalty(t *testing.T) {
	r, err := NewRecord([32]byte{1}, "rOwner", MinStakeDrops*10, TierFlexible, TargetStakeRatio, 1000)
	require.NoError(t, err)

	elapsed := int64(3600 * 24 * 10)
	payout, burned, forfeited := r.CancelPayout(1000 + elapsed)

	accrued := AccruedInterest(r.PrincipalDrops, r.EffectiveAPY, elapsed)
	require.Equal(t, int64(0), burned)
	require.Equal(t, int64(0), forfeited)
	require.Equal(t, r.PrincipalDrops+accrued, payout)
}

func TestLockedImmediateCancel(t *testing.T) {
	r, err := NewRecord([32]byte{2}, "rOwner", MinStakeDrops*10, Tier365Day, TargetStakeRatio, 1000)
	require.NoError(t, err)

	payout, burned, forfeited := r.CancelPayout(1000) // t == start

	ratio := r.EffectiveAPY / MaxTierAPY
	principalPenaltyRate := 0.02 + ratio*0.08
	wantBurned := int64(float64(r.PrincipalDrops) * principalPenaltyRate * 1.0)

	require.Equal(t, wantBurned, burned)
	require.Equal(t, int64(0), forfeited)
	require.Equal(t, r.PrincipalDrops-burned, payout)
}

func TestMaturityPayout(t *testing.T) {
	r, err := NewRecord([32]byte{3}, "rOwner", MinStakeDrops*100, Tier30Day, TargetStakeRatio, 0)
	require.NoError(t, err)
	require.False(t, r.ReadyToMature(r.MaturityTime - 1))
	require.True(t, r.ReadyToMature(r.MaturityTime))

	payout, minted := r.Mature()
	wantInterest := AccruedInterest(r.PrincipalDrops, r.EffectiveAPY, r.LockDurationSeconds)
	require.Equal(t, wantInterest, minted)
	require.Equal(t, r.PrincipalDrops+wantInterest, payout)
	require.True(t, r.Matured)
}

func TestBelowMinimumRejected(t *testing.T) {
	_, err := NewRecord([32]byte{4}, "rOwner", MinStakeDrops-1, TierFlexible, TargetStakeRatio, 0)
	require.ErrorIs(t, err, ErrBelowMinimum)
}

func TestDemandMultiplierClamped(t *testing.T) {
	require.Equal(t, 2.0, DemandMultiplier(-10))
	require.Equal(t, 0.5, DemandMultiplier(10))
	require.InDelta(t, 1.0, DemandMultiplier(TargetStakeRatio), 1e-9)
}
