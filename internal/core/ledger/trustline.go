package ledger

import "github.com/nexaflow/nxfd/internal/crypto"

// TrustLine is an IOU trust line held by an account against an issuer for
// a given currency code (spec.md §3).
type TrustLine struct {
	Currency   string
	Issuer     crypto.Address
	Balance    int64 // signed from the holder's perspective
	Limit      int64 // maximum the holder is willing to owe-receive
	Frozen     bool
	Authorized bool
}

// NewTrustLine creates a trust line with the given limit, unauthorized and
// unfrozen (spec.md §4.3's TrustSet semantics).
func NewTrustLine(currency string, issuer crypto.Address, limit int64) *TrustLine {
	return &TrustLine{Currency: currency, Issuer: issuer, Limit: limit}
}

// AvailableToReceive returns how much more of the currency this line can
// accept before hitting its limit.
func (t *TrustLine) AvailableToReceive() int64 {
	avail := t.Limit - t.Balance
	if avail < 0 {
		return 0
	}
	return avail
}
