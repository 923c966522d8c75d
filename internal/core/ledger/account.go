// Package ledger implements the ledger state machine: accounts, trust
// lines, transaction application, conservation bookkeeping, and
// hash-chained ledger closure (spec.md §3, §4.3).
package ledger

import "github.com/nexaflow/nxfd/internal/crypto"

// Reserve constants, expressed in drops (spec.md §3's invariant:
// "owner-count × owner-reserve + base-reserve ≤ balance").
const (
	BaseReserveDrops     int64 = 10_00000000 // 10 NXF
	OwnerReserveIncDrops int64 = 2_00000000  // 2 NXF per owned object
	MinFeeDrops          int64 = 1000        // 1e-5 NXF
)

// Account flag bits (spec.md §3).
const (
	FlagRequireAuth       uint32 = 0x0001
	FlagRequireDestTag    uint32 = 0x0002
	FlagGlobalFreeze      uint32 = 0x0004
	FlagDisableMaster     uint32 = 0x0008
	FlagDefaultRipple     uint32 = 0x0010
	FlagDepositAuth       uint32 = 0x0020
)

// TrustLineKey identifies a trust line within an account's map.
type TrustLineKey struct {
	Currency string
	Issuer   crypto.Address
}

// Account is a ledger account: native balance, sequence, flags, and its
// trust lines (spec.md §3).
type Account struct {
	Address       crypto.Address
	Balance       int64 // native drops; invariant: >= 0
	Sequence      uint32
	Flags         uint32
	TransferRate  float64 // >= 1.0, applied to outgoing IOU amounts
	RegularKey    crypto.Address
	HasRegularKey bool
	OwnerCount    uint32
	TrustLines    map[TrustLineKey]*TrustLine
	DepositPreauth map[crypto.Address]bool
	SignerList     []crypto.Address
}

// NewAccount creates a fresh, zero-balance account (auto-created by the
// first incoming payment, spec.md §3's lifecycle note). Its sequence starts
// at 1, the lowest sequence a transaction may carry.
func NewAccount(addr crypto.Address) *Account {
	return &Account{
		Address:        addr,
		Sequence:       1,
		TransferRate:   1.0,
		TrustLines:     make(map[TrustLineKey]*TrustLine),
		DepositPreauth: make(map[crypto.Address]bool),
	}
}

// Reserve returns the minimum native balance this account must retain:
// BaseReserveDrops + OwnerCount × OwnerReserveIncDrops.
func (a *Account) Reserve() int64 {
	return BaseReserveDrops + int64(a.OwnerCount)*OwnerReserveIncDrops
}

// HasFlag reports whether the given account flag bit is set.
func (a *Account) HasFlag(flag uint32) bool { return a.Flags&flag != 0 }

// TrustLine looks up a trust line by (currency, issuer).
func (a *Account) TrustLine(currency string, issuer crypto.Address) (*TrustLine, bool) {
	tl, ok := a.TrustLines[TrustLineKey{Currency: currency, Issuer: issuer}]
	return tl, ok
}

// Clone returns a copy of the account with its own trust-line and
// deposit-preauth maps; the signer-list slice is shared with the original.
func (a *Account) Clone() *Account {
	clone := *a
	clone.TrustLines = make(map[TrustLineKey]*TrustLine, len(a.TrustLines))
	for k, v := range a.TrustLines {
		tlCopy := *v
		clone.TrustLines[k] = &tlCopy
	}
	clone.DepositPreauth = make(map[crypto.Address]bool, len(a.DepositPreauth))
	for k, v := range a.DepositPreauth {
		clone.DepositPreauth[k] = v
	}
	return &clone
}
