package tx

import (
	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// Kind tags a transaction's variant, per spec.md §3's "tagged variant across
// Payment, TrustSet, OfferCreate/Cancel, ... delegated to subsystems".
type Kind uint16

const (
	KindPayment Kind = iota + 1
	KindTrustSet
	KindAccountSet
	KindSetRegularKey
	KindSignerListSet
	KindStake
	KindUnstake

	// Kinds recognized by the wire format and dispatch table but whose
	// apply logic is delegated to subsystems explicitly out of scope for
	// this core (spec.md §1): DEX order book, payment channels, escrow,
	// checks, deposit preauth admin, account deletion, tickets, NFTokens,
	// AMM, oracles, DID, hooks, and cross-chain bridges. Kind.Implemented
	// reports false for these, and the validator refuses them with
	// tecNO_PERMISSION. See DESIGN.md.
	KindOfferCreate
	KindOfferCancel
	KindPaymentChannelCreate
	KindPaymentChannelFund
	KindPaymentChannelClaim
	KindEscrowCreate
	KindEscrowFinish
	KindEscrowCancel
	KindCheckCreate
	KindCheckCash
	KindCheckCancel
	KindDepositPreauth
	KindAccountDelete
	KindTicketCreate
	KindNFTokenMint
	KindNFTokenBurn
	KindNFTokenCreateOffer
	KindNFTokenCancelOffer
	KindNFTokenAcceptOffer
	KindAMM
	KindOracle
	KindDID
	KindHook
	KindCrossChain
)

// implementedKinds are fully applied by the ledger (spec.md §4.3).
var implementedKinds = map[Kind]bool{
	KindPayment:       true,
	KindTrustSet:      true,
	KindAccountSet:    true,
	KindSetRegularKey: true,
	KindSignerListSet: true,
	KindStake:         true,
	KindUnstake:       true,
}

// Implemented reports whether this core applies the kind's full semantics,
// as opposed to recognizing it structurally and delegating.
func (k Kind) Implemented() bool { return implementedKinds[k] }

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindPayment:              "Payment",
	KindTrustSet:             "TrustSet",
	KindAccountSet:           "AccountSet",
	KindSetRegularKey:        "SetRegularKey",
	KindSignerListSet:        "SignerListSet",
	KindStake:                "Stake",
	KindUnstake:              "Unstake",
	KindOfferCreate:          "OfferCreate",
	KindOfferCancel:          "OfferCancel",
	KindPaymentChannelCreate: "PaymentChannelCreate",
	KindPaymentChannelFund:   "PaymentChannelFund",
	KindPaymentChannelClaim:  "PaymentChannelClaim",
	KindEscrowCreate:         "EscrowCreate",
	KindEscrowFinish:         "EscrowFinish",
	KindEscrowCancel:         "EscrowCancel",
	KindCheckCreate:          "CheckCreate",
	KindCheckCash:            "CheckCash",
	KindCheckCancel:          "CheckCancel",
	KindDepositPreauth:       "DepositPreauth",
	KindAccountDelete:        "AccountDelete",
	KindTicketCreate:         "TicketCreate",
	KindNFTokenMint:          "NFTokenMint",
	KindNFTokenBurn:          "NFTokenBurn",
	KindNFTokenCreateOffer:   "NFTokenCreateOffer",
	KindNFTokenCancelOffer:   "NFTokenCancelOffer",
	KindNFTokenAcceptOffer:   "NFTokenAcceptOffer",
	KindAMM:                  "AMM",
	KindOracle:               "Oracle",
	KindDID:                  "DID",
	KindHook:                 "Hook",
	KindCrossChain:           "CrossChain",
}

// Flags, used with the bit tests below. Only the flags the implemented
// kinds consult are defined; every kind carries the same uint32 Flags field.
const (
	TfPartialPayment uint32 = 0x00010000
	TfSetfAuth       uint32 = 0x00020000
	TfClearfAuth     uint32 = 0x00040000
	TfSetNoRipple    uint32 = 0x00080000
	TfClearNoRipple  uint32 = 0x00100000
	TfSetFreeze      uint32 = 0x00200000
	TfClearFreeze    uint32 = 0x00400000

	FlagRequireDestTag uint32 = 0x00010000
	FlagRequireAuth    uint32 = 0x00020000
	FlagGlobalFreeze   uint32 = 0x00040000
	FlagDisableMaster  uint32 = 0x00080000
	FlagDefaultRipple  uint32 = 0x00100000
	FlagDepositAuth    uint32 = 0x00200000
)

// Tier is a staking lock-duration tier, carried on Stake transactions.
// Defined here (rather than in the staking package) because it is a wire
// field of the transaction model; the staking package interprets it.
type Tier uint8

const (
	TierFlexible Tier = iota
	Tier30Day
	Tier90Day
	Tier180Day
	Tier365Day
)

func (t Tier) String() string {
	switch t {
	case TierFlexible:
		return "Flexible"
	case Tier30Day:
		return "30d"
	case Tier90Day:
		return "90d"
	case Tier180Day:
		return "180d"
	case Tier365Day:
		return "365d"
	default:
		return "Unknown"
	}
}

// Transaction is the common envelope every kind shares, plus the small set
// of kind-specific fields the implemented kinds need (spec.md §3). Kinds
// that are recognized but delegated only ever touch the common envelope.
type Transaction struct {
	Kind Kind

	Account     crypto.Address
	Destination crypto.Address // optional; zero value means absent
	Amount      amount.Amount
	Fee         int64 // always native drops
	Sequence    uint32

	Memo           string
	Flags          uint32
	DestinationTag uint32
	HasDestTag     bool
	SourceTag      uint32
	HasSourceTag   bool

	SigningPubKey string // hex compressed secp256k1 public key
	Signature     string // hex DER ECDSA signature

	// TrustSet-specific.
	TrustLimit amount.Amount

	// Stake-specific.
	StakeTier Tier

	// Unstake-specific: references the stake-id (= the Stake tx's tx-id)
	// to cancel.
	StakeID [32]byte
}
