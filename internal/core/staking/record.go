package staking

import (
	"errors"
	"fmt"

	"github.com/nexaflow/nxfd/internal/crypto"
)

// Record is a single stake: spec.md §3's `(stake-id, owner, principal,
// tier, base-APY, effective-APY at creation, lock-duration-seconds,
// start-time, maturity-time, matured?, cancelled?, payout)`.
type Record struct {
	StakeID             [32]byte
	Owner               crypto.Address
	PrincipalDrops      int64
	Tier                Tier
	BaseAPY             float64
	EffectiveAPY        float64
	LockDurationSeconds int64
	StartTime           int64
	MaturityTime        int64
	Matured             bool
	Cancelled           bool
	PayoutDrops         int64
}

// ErrBelowMinimum is returned when a Stake's principal is under 1.0 NXF.
var ErrBelowMinimum = errors.New("staking: principal below minimum stake")

// NewRecord creates a stake record, freezing the effective APY at the
// current stake ratio (spec.md §4.5: "frozen for that record").
func NewRecord(stakeID [32]byte, owner crypto.Address, principalDrops int64, tier Tier, stakeRatio float64, now int64) (*Record, error) {
	if principalDrops < MinStakeDrops {
		return nil, ErrBelowMinimum
	}
	spec, ok := TierTable[tier]
	if !ok {
		return nil, fmt.Errorf("staking: unknown tier %d", tier)
	}

	effectiveAPY := EffectiveAPY(spec.BaseAPY, stakeRatio)

	return &Record{
		StakeID:             stakeID,
		Owner:               owner,
		PrincipalDrops:      principalDrops,
		Tier:                tier,
		BaseAPY:             spec.BaseAPY,
		EffectiveAPY:        effectiveAPY,
		LockDurationSeconds: spec.LockDurationSeconds,
		StartTime:           now,
		MaturityTime:        now + spec.LockDurationSeconds,
		PayoutDrops:         0,
	}, nil
}

// ReadyToMature reports whether a locked stake is eligible for automatic
// maturity payout at ledger close (spec.md §4.3 step 1, §4.5).
func (r *Record) ReadyToMature(now int64) bool {
	if r.Tier == TierFlexible || r.Matured || r.Cancelled {
		return false
	}
	return now >= r.MaturityTime
}

// Mature computes and applies the maturity payout: full principal plus
// interest accrued over the full lock duration. Returns the minted
// interest (added to total-minted/total-supply by the caller) and the
// total payout credited to the owner.
func (r *Record) Mature() (payoutDrops, mintedInterestDrops int64) {
	interest := AccruedInterest(r.PrincipalDrops, r.EffectiveAPY, r.LockDurationSeconds)
	r.Matured = true
	r.PayoutDrops = r.PrincipalDrops + interest
	return r.PayoutDrops, interest
}

// CancelPayout computes an early-cancellation payout without mutating the
// record (callers apply the mutation only after confirming the owner and
// replay checks — see ledger/apply_stake.go). It returns the payout to
// credit the owner, the principal burned, and the interest forfeited
// (simply never minted), per spec.md §4.5.
func (r *Record) CancelPayout(now int64) (payoutDrops, principalBurnedDrops, interestForfeitedDrops int64) {
	spec := TierTable[r.Tier]

	elapsed := now - r.StartTime
	if elapsed < 0 {
		elapsed = 0
	}

	accrued := AccruedInterest(r.PrincipalDrops, r.EffectiveAPY, elapsed)

	var timeDecay float64
	if spec.IsLocked() {
		frac := float64(elapsed) / float64(r.LockDurationSeconds)
		if frac > 1 {
			frac = 1
		}
		timeDecay = 1 - frac
	}
	// Flexible tier: timeDecay stays 0, so the formula below reduces to
	// payout = principal + accrued with zero forfeiture, matching
	// spec.md §8's "Stake payout (Flexible)" property exactly.

	ratio := r.EffectiveAPY / MaxTierAPY
	interestPenaltyRate := 0.50 + ratio*0.40
	principalPenaltyRate := 0.02 + ratio*0.08

	principalBurnedDrops = int64(float64(r.PrincipalDrops) * principalPenaltyRate * timeDecay)
	interestForfeitedDrops = int64(float64(accrued) * interestPenaltyRate * timeDecay)

	payoutDrops = (r.PrincipalDrops - principalBurnedDrops) + (accrued - interestForfeitedDrops)
	return payoutDrops, principalBurnedDrops, interestForfeitedDrops
}

// Cancel marks the record cancelled and records the payout actually paid.
func (r *Record) Cancel(payoutDrops int64) {
	r.Cancelled = true
	r.PayoutDrops = payoutDrops
}
