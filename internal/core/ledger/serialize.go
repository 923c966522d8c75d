package ledger

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// The core types use fixed-size byte arrays and struct map keys, neither of
// which encoding/json can marshal directly (JSON object keys must be
// strings). These wire types flatten both for transport (package p2p) and
// at-rest persistence (package storage/snapshot), per spec.md §6's
// "storage layout (opaque; described for replay)".

// TrustLineWire is one TrustLine flattened with its key fields inline.
type TrustLineWire struct {
	Currency   string         `json:"currency"`
	Issuer     crypto.Address `json:"issuer"`
	Balance    int64          `json:"balance"`
	Limit      int64          `json:"limit"`
	Frozen     bool           `json:"frozen"`
	Authorized bool           `json:"authorized"`
}

// AccountWire is Account with TrustLines as a slice.
type AccountWire struct {
	Address        crypto.Address   `json:"address"`
	Balance        int64            `json:"balance"`
	Sequence       uint32           `json:"sequence"`
	Flags          uint32           `json:"flags"`
	TransferRate   float64          `json:"transfer_rate"`
	RegularKey     crypto.Address   `json:"regular_key,omitempty"`
	HasRegularKey  bool             `json:"has_regular_key,omitempty"`
	OwnerCount     uint32           `json:"owner_count"`
	TrustLines     []TrustLineWire  `json:"trust_lines,omitempty"`
	DepositPreauth []crypto.Address `json:"deposit_preauth,omitempty"`
	SignerList     []crypto.Address `json:"signer_list,omitempty"`
}

func accountToWire(a *Account) AccountWire {
	w := AccountWire{
		Address:       a.Address,
		Balance:       a.Balance,
		Sequence:      a.Sequence,
		Flags:         a.Flags,
		TransferRate:  a.TransferRate,
		RegularKey:    a.RegularKey,
		HasRegularKey: a.HasRegularKey,
		OwnerCount:    a.OwnerCount,
	}
	for key, tl := range a.TrustLines {
		w.TrustLines = append(w.TrustLines, TrustLineWire{
			Currency:   key.Currency,
			Issuer:     key.Issuer,
			Balance:    tl.Balance,
			Limit:      tl.Limit,
			Frozen:     tl.Frozen,
			Authorized: tl.Authorized,
		})
	}
	for addr := range a.DepositPreauth {
		w.DepositPreauth = append(w.DepositPreauth, addr)
	}
	w.SignerList = a.SignerList
	return w
}

func wireToAccount(w AccountWire) *Account {
	a := &Account{
		Address:        w.Address,
		Balance:        w.Balance,
		Sequence:       w.Sequence,
		Flags:          w.Flags,
		TransferRate:   w.TransferRate,
		RegularKey:     w.RegularKey,
		HasRegularKey:  w.HasRegularKey,
		OwnerCount:     w.OwnerCount,
		TrustLines:     make(map[TrustLineKey]*TrustLine, len(w.TrustLines)),
		DepositPreauth: make(map[crypto.Address]bool, len(w.DepositPreauth)),
		SignerList:     w.SignerList,
	}
	for _, tl := range w.TrustLines {
		a.TrustLines[TrustLineKey{Currency: tl.Currency, Issuer: tl.Issuer}] = &TrustLine{
			Currency:   tl.Currency,
			Issuer:     tl.Issuer,
			Balance:    tl.Balance,
			Limit:      tl.Limit,
			Frozen:     tl.Frozen,
			Authorized: tl.Authorized,
		}
	}
	for _, addr := range w.DepositPreauth {
		a.DepositPreauth[addr] = true
	}
	return a
}

// HeaderWire is LedgerHeader with hashes hex-encoded.
type HeaderWire struct {
	Sequence   uint32 `json:"sequence"`
	ParentHash string `json:"parent_hash"`
	TxHash     string `json:"tx_hash"`
	StateHash  string `json:"state_hash"`
	CloseTime  int64  `json:"close_time"`
	TxCount    uint32 `json:"tx_count"`
	TotalNXF   int64  `json:"total_nxf"`
}

func headerToWire(h *LedgerHeader) HeaderWire {
	return HeaderWire{
		Sequence:   h.Sequence,
		ParentHash: hex.EncodeToString(h.ParentHash[:]),
		TxHash:     hex.EncodeToString(h.TxHash[:]),
		StateHash:  hex.EncodeToString(h.StateHash[:]),
		CloseTime:  h.CloseTime,
		TxCount:    h.TxCount,
		TotalNXF:   h.TotalNXF,
	}
}

func wireToHeader(w HeaderWire) (*LedgerHeader, error) {
	h := &LedgerHeader{Sequence: w.Sequence, CloseTime: w.CloseTime, TxCount: w.TxCount, TotalNXF: w.TotalNXF}
	for dst, src := range map[*[32]byte]string{&h.ParentHash: w.ParentHash, &h.TxHash: w.TxHash, &h.StateHash: w.StateHash} {
		raw, err := hex.DecodeString(src)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("ledger: malformed header hash field")
		}
		copy(dst[:], raw)
	}
	return h, nil
}

// StakeWire is staking.Record with the fixed-size StakeID hex-encoded.
type StakeWire struct {
	StakeID             string         `json:"stake_id"`
	Owner               crypto.Address `json:"owner"`
	PrincipalDrops      int64          `json:"principal_drops"`
	Tier                staking.Tier   `json:"tier"`
	BaseAPY             float64        `json:"base_apy"`
	EffectiveAPY        float64        `json:"effective_apy"`
	LockDurationSeconds int64          `json:"lock_duration_seconds"`
	StartTime           int64          `json:"start_time"`
	MaturityTime        int64          `json:"maturity_time"`
	Matured             bool           `json:"matured"`
	Cancelled           bool           `json:"cancelled"`
	PayoutDrops         int64          `json:"payout_drops"`
}

func stakeToWire(r *staking.Record) StakeWire {
	return StakeWire{
		StakeID:             hex.EncodeToString(r.StakeID[:]),
		Owner:               r.Owner,
		PrincipalDrops:      r.PrincipalDrops,
		Tier:                r.Tier,
		BaseAPY:             r.BaseAPY,
		EffectiveAPY:        r.EffectiveAPY,
		LockDurationSeconds: r.LockDurationSeconds,
		StartTime:           r.StartTime,
		MaturityTime:        r.MaturityTime,
		Matured:             r.Matured,
		Cancelled:           r.Cancelled,
		PayoutDrops:         r.PayoutDrops,
	}
}

func wireToStake(w StakeWire) (*staking.Record, error) {
	raw, err := hex.DecodeString(w.StakeID)
	if err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("ledger: malformed stake-id field")
	}
	r := &staking.Record{
		Owner:               w.Owner,
		PrincipalDrops:      w.PrincipalDrops,
		Tier:                w.Tier,
		BaseAPY:             w.BaseAPY,
		EffectiveAPY:        w.EffectiveAPY,
		LockDurationSeconds: w.LockDurationSeconds,
		StartTime:           w.StartTime,
		MaturityTime:        w.MaturityTime,
		Matured:             w.Matured,
		Cancelled:           w.Cancelled,
		PayoutDrops:         w.PayoutDrops,
	}
	copy(r.StakeID[:], raw)
	return r, nil
}

// SnapshotWire is Snapshot flattened to JSON-marshalable fields.
type SnapshotWire struct {
	InitialSupply int64  `json:"initial_supply"`
	TotalSupply   int64  `json:"total_supply"`
	TotalBurned   int64  `json:"total_burned"`
	TotalMinted   int64  `json:"total_minted"`
	FeePool       int64  `json:"fee_pool"`

	Accounts     []AccountWire `json:"accounts"`
	Headers      []HeaderWire  `json:"headers"`
	Stakes       []StakeWire   `json:"stakes"`
	AppliedTxIDs []string      `json:"applied_tx_ids"`
}

// SnapshotToWire flattens a Snapshot into its JSON-marshalable form, used
// both for wire transport (package p2p) and at-rest persistence (package
// storage/snapshot).
func SnapshotToWire(snap *Snapshot) SnapshotWire {
	w := SnapshotWire{
		InitialSupply: snap.InitialSupply,
		TotalSupply:   snap.TotalSupply,
		TotalBurned:   snap.TotalBurned,
		TotalMinted:   snap.TotalMinted,
		FeePool:       snap.FeePool,
	}
	for _, a := range snap.Accounts {
		w.Accounts = append(w.Accounts, accountToWire(a))
	}
	for _, h := range snap.Headers {
		w.Headers = append(w.Headers, headerToWire(h))
	}
	for _, r := range snap.Stakes {
		w.Stakes = append(w.Stakes, stakeToWire(r))
	}
	for _, id := range snap.AppliedTxIDs {
		w.AppliedTxIDs = append(w.AppliedTxIDs, hex.EncodeToString(id[:]))
	}
	return w
}

// EncodeSnapshot renders a Snapshot into its JSON wire/at-rest form.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	return json.Marshal(SnapshotToWire(snap))
}

// WireToSnapshot reconstructs a Snapshot from its flattened wire form.
func WireToSnapshot(w SnapshotWire) (*Snapshot, error) {
	snap := &Snapshot{
		InitialSupply: w.InitialSupply,
		TotalSupply:   w.TotalSupply,
		TotalBurned:   w.TotalBurned,
		TotalMinted:   w.TotalMinted,
		FeePool:       w.FeePool,
		Accounts:      make(map[crypto.Address]*Account, len(w.Accounts)),
		Stakes:        make(map[[32]byte]*staking.Record, len(w.Stakes)),
	}
	for _, aw := range w.Accounts {
		a := wireToAccount(aw)
		snap.Accounts[a.Address] = a
	}
	for _, hw := range w.Headers {
		h, err := wireToHeader(hw)
		if err != nil {
			return nil, err
		}
		snap.Headers = append(snap.Headers, h)
	}
	for _, sw := range w.Stakes {
		r, err := wireToStake(sw)
		if err != nil {
			return nil, err
		}
		snap.Stakes[r.StakeID] = r
	}
	for _, s := range w.AppliedTxIDs {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != 32 {
			return nil, fmt.Errorf("ledger: malformed applied-tx-id field")
		}
		var id [32]byte
		copy(id[:], raw)
		snap.AppliedTxIDs = append(snap.AppliedTxIDs, id)
	}
	return snap, nil
}

// DecodeSnapshot parses a Snapshot from its JSON wire/at-rest form.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var w SnapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ledger: decode snapshot: %w", err)
	}
	return WireToSnapshot(w)
}
