// Package staking implements the staking subsystem: stake records, dynamic
// APY, and maturity/cancellation payouts (spec.md §4.5).
package staking

import "github.com/nexaflow/nxfd/internal/core/tx"

// Tier re-exports the transaction model's stake tier so callers don't need
// to import both packages for the same concept.
type Tier = tx.Tier

const (
	TierFlexible = tx.TierFlexible
	Tier30Day    = tx.Tier30Day
	Tier90Day    = tx.Tier90Day
	Tier180Day   = tx.Tier180Day
	Tier365Day   = tx.Tier365Day
)

// SecondsPerYear is the divisor used for linear interest accrual.
const SecondsPerYear int64 = 365 * 24 * 3600

// TierSpec is the constant configuration for one staking tier.
type TierSpec struct {
	LockDurationSeconds int64
	BaseAPY             float64
}

// TierTable is the constant tier configuration from spec.md §3/§4.5.
var TierTable = map[Tier]TierSpec{
	TierFlexible: {LockDurationSeconds: 0, BaseAPY: 0.02},
	Tier30Day:    {LockDurationSeconds: 30 * 24 * 3600, BaseAPY: 0.05},
	Tier90Day:    {LockDurationSeconds: 90 * 24 * 3600, BaseAPY: 0.08},
	Tier180Day:   {LockDurationSeconds: 180 * 24 * 3600, BaseAPY: 0.12},
	Tier365Day:   {LockDurationSeconds: 365 * 24 * 3600, BaseAPY: 0.15},
}

// MinStakeDrops is the minimum principal for a Stake transaction (1.0 NXF).
const MinStakeDrops int64 = 100_000_000

// maxDemandMultiplier bounds the dynamic APY multiplier from above (see
// DemandMultiplier) and is also used to derive MaxTierAPY below.
const maxDemandMultiplier = 2.0

// MaxTierAPY is the highest effective APY any stake could ever be created
// at: the longest tier's base APY scaled by the maximum demand multiplier.
// Early-cancellation penalty rates (spec.md §4.5) are scaled by a stake's
// effective-APY-at-creation relative to this ceiling, which is what keeps
// the penalty rates within their documented [min,max] ranges — using the
// bare tier-365 base APY (ignoring the multiplier) would let a
// high-demand-period stake's ratio exceed 1 and blow through the stated
// ceiling. This resolves spec.md §9's note that the penalty formula's
// reference point was left to implementation.
var MaxTierAPY = TierTable[Tier365Day].BaseAPY * maxDemandMultiplier

// IsLocked reports whether a tier has a nonzero lock duration.
func (spec TierSpec) IsLocked() bool { return spec.LockDurationSeconds > 0 }
