// Package amount implements the canonical NXF amount type: a (value, asset)
// pair quantized to drops (1e-8 NXF), per spec.md §3.
package amount

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nexaflow/nxfd/internal/crypto"
)

// DropsPerNXF is the number of drops in one whole NXF, following the
// teacher's XRPAmount.go pattern but quantized to 8 fractional digits
// instead of XRP's 6 (spec.md §3: "one drop = 1e-8 NXF").
const DropsPerNXF int64 = 100_000_000

// Asset identifies what an Amount denominates: either the native token or an
// IOU issued by a gateway account.
type Asset struct {
	Native   bool
	Currency string        // empty when Native
	Issuer   crypto.Address // empty when Native
}

// NativeAsset is the singleton native-NXF asset.
var NativeAsset = Asset{Native: true}

// IOUAsset constructs a non-native asset identifier.
func IOUAsset(currency string, issuer crypto.Address) Asset {
	return Asset{Currency: currency, Issuer: issuer}
}

// Equal reports whether two assets denominate the same currency.
func (a Asset) Equal(b Asset) bool {
	if a.Native != b.Native {
		return false
	}
	if a.Native {
		return true
	}
	return a.Currency == b.Currency && a.Issuer == b.Issuer
}

func (a Asset) String() string {
	if a.Native {
		return "NXF"
	}
	return fmt.Sprintf("%s/%s", a.Currency, a.Issuer)
}

// Amount is a quantized (value, asset) pair. Value is always expressed in
// drops, whatever the asset: native balances and IOU balances are both
// integral counts of 1e-8 units, per spec.md §3's "arithmetic normalizes to
// drops" rule. A negative Drops is legal only for IOU trust-line balances,
// where it represents the holder owing the issuer.
type Amount struct {
	Drops int64
	Asset Asset
}

// Native constructs a native-NXF amount from a drop count.
func Native(drops int64) Amount {
	return Amount{Drops: drops, Asset: NativeAsset}
}

// IOU constructs an IOU amount from a drop count, currency code, and issuer.
func IOU(drops int64, currency string, issuer crypto.Address) Amount {
	return Amount{Drops: drops, Asset: IOUAsset(currency, issuer)}
}

// IsNative reports whether the amount denominates the native token.
func (a Amount) IsNative() bool { return a.Asset.Native }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.Drops == 0 }

// IsNegative reports whether the amount is negative (only meaningful for
// IOU trust-line balances).
func (a Amount) IsNegative() bool { return a.Drops < 0 }

// Abs returns the amount with a non-negative drop count.
func (a Amount) Abs() Amount {
	if a.Drops < 0 {
		return Amount{Drops: -a.Drops, Asset: a.Asset}
	}
	return a
}

// Add returns a+b. Panics if the assets differ — callers must check
// SameAsset before combining amounts from untrusted input.
func (a Amount) Add(b Amount) Amount {
	mustSameAsset(a, b)
	return Amount{Drops: a.Drops + b.Drops, Asset: a.Asset}
}

// Sub returns a-b. Panics if the assets differ.
func (a Amount) Sub(b Amount) Amount {
	mustSameAsset(a, b)
	return Amount{Drops: a.Drops - b.Drops, Asset: a.Asset}
}

// SameAsset reports whether a and b denominate the same asset.
func (a Amount) SameAsset(b Amount) bool { return a.Asset.Equal(b.Asset) }

func mustSameAsset(a, b Amount) {
	if !a.Asset.Equal(b.Asset) {
		panic(fmt.Sprintf("amount: asset mismatch %s vs %s", a.Asset, b.Asset))
	}
}

// Decimal formats the amount as a decimal NXF/IOU string, e.g. "1.00000000".
func (a Amount) Decimal() string {
	neg := a.Drops < 0
	drops := a.Drops
	if neg {
		drops = -drops
	}
	whole := drops / DropsPerNXF
	frac := drops % DropsPerNXF
	s := fmt.Sprintf("%d.%08d", whole, frac)
	if neg {
		s = "-" + s
	}
	return s
}

// ParseDecimal parses a decimal string (e.g. "1.5", "-0.00000001") into a
// drop count, quantizing to 8 fractional digits. Extra precision beyond the
// 8th fractional digit is rejected rather than silently truncated, so a
// malformed client amount is never silently rounded into someone's balance.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("amount: empty value")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	} else if strings.HasPrefix(s, "+") {
		s = s[1:]
	}

	parts := strings.SplitN(s, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount: invalid whole part %q: %w", wholePart, err)
	}

	var fracDigits string
	if len(parts) == 2 {
		fracDigits = parts[1]
	}
	if len(fracDigits) > 8 {
		return 0, fmt.Errorf("amount: value %q exceeds 8 fractional digits", s)
	}
	for len(fracDigits) < 8 {
		fracDigits += "0"
	}
	frac, err := strconv.ParseInt(fracDigits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount: invalid fractional part: %w", err)
	}

	drops := whole*DropsPerNXF + frac
	if neg {
		drops = -drops
	}
	return drops, nil
}
