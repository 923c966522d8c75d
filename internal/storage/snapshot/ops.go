package snapshot

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/nexaflow/nxfd/internal/core/ledger"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// SaveSnapshot persists an entire ledger snapshot atomically — one
// transaction per snapshot (spec.md §6: "Snapshots are atomic"). It
// replaces the accounts/trust_lines/closed_ledgers/stakes tables wholesale
// rather than diffing, which is simple and correct for the node's
// checkpoint cadence.
func SaveSnapshot(ctx context.Context, s *Store, snap *ledger.Snapshot) error {
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot: begin save: %w", err)
	}
	defer txn.Rollback()

	for _, table := range []string{"accounts", "trust_lines", "closed_ledgers", "stakes", "applied_tx_ids"} {
		if _, err := txn.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("snapshot: clear %s: %w", table, err)
		}
	}

	wire := ledger.SnapshotToWire(snap)

	for _, a := range wire.Accounts {
		if _, err := txn.ExecContext(ctx,
			`INSERT INTO accounts (address, balance, sequence, flags, transfer_rate, regular_key, owner_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			string(a.Address), a.Balance, a.Sequence, a.Flags, a.TransferRate, string(a.RegularKey), a.OwnerCount,
		); err != nil {
			return fmt.Errorf("snapshot: insert account %s: %w", a.Address, err)
		}
		for _, tl := range a.TrustLines {
			if _, err := txn.ExecContext(ctx,
				`INSERT INTO trust_lines (holder, currency, issuer, balance, limit_drops, frozen, authorized)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				string(a.Address), tl.Currency, string(tl.Issuer), tl.Balance, tl.Limit, tl.Frozen, tl.Authorized,
			); err != nil {
				return fmt.Errorf("snapshot: insert trust line: %w", err)
			}
		}
	}

	for _, h := range wire.Headers {
		if _, err := txn.ExecContext(ctx,
			`INSERT INTO closed_ledgers (sequence, parent_hash, tx_hash, state_hash, close_time, tx_count, total_nxf)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			h.Sequence, h.ParentHash, h.TxHash, h.StateHash, h.CloseTime, h.TxCount, h.TotalNXF,
		); err != nil {
			return fmt.Errorf("snapshot: insert closed_ledgers: %w", err)
		}
	}

	for _, st := range wire.Stakes {
		if _, err := txn.ExecContext(ctx,
			`INSERT INTO stakes (stake_id, owner, principal_drops, tier, base_apy, effective_apy,
			 lock_duration_seconds, start_time, maturity_time, matured, cancelled, payout_drops)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.StakeID, string(st.Owner), st.PrincipalDrops, st.Tier, st.BaseAPY, st.EffectiveAPY,
			st.LockDurationSeconds, st.StartTime, st.MaturityTime, st.Matured, st.Cancelled, st.PayoutDrops,
		); err != nil {
			return fmt.Errorf("snapshot: insert stakes: %w", err)
		}
	}

	for _, id := range wire.AppliedTxIDs {
		if _, err := txn.ExecContext(ctx, `INSERT INTO applied_tx_ids (tx_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("snapshot: insert applied_tx_ids: %w", err)
		}
	}

	return txn.Commit()
}

// RecordTransaction appends one applied transaction's canonical replay
// blob to the transactions table (spec.md §6: "a canonical replay blob
// column"). ledgerSeq is the ledger it closed into.
func RecordTransaction(ctx context.Context, s *Store, ledgerSeq uint32, t *tx.Transaction, result tx.Result) error {
	id, err := tx.TxID(t)
	if err != nil {
		return fmt.Errorf("snapshot: compute tx-id: %w", err)
	}
	blob, err := tx.EncodeReplay(t)
	if err != nil {
		return fmt.Errorf("snapshot: encode replay blob: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transactions (tx_id, ledger_seq, result_code, replay_blob) VALUES (?, ?, ?, ?)`,
		hex.EncodeToString(id[:]), ledgerSeq, result.String(), blob,
	)
	if err != nil {
		return fmt.Errorf("snapshot: record transaction: %w", err)
	}
	return nil
}

// ReplayEntry is one row of the transactions table in replay order.
type ReplayEntry struct {
	LedgerSeq uint32
	TxID      string
	Blob      []byte
}

// IterateForReplay calls fn for every recorded transaction ordered by
// (ledger_seq, rowid), the order spec.md §6 specifies for genesis replay.
// It stops and returns fn's error if fn returns one.
func IterateForReplay(ctx context.Context, s *Store, fn func(ReplayEntry) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ledger_seq, tx_id, replay_blob FROM transactions ORDER BY ledger_seq ASC, rowid ASC`)
	if err != nil {
		return fmt.Errorf("snapshot: query for replay: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e ReplayEntry
		if err := rows.Scan(&e.LedgerSeq, &e.TxID, &e.Blob); err != nil {
			return fmt.Errorf("snapshot: scan replay row: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return rows.Err()
}

// LoadSnapshot reconstructs a ledger.Snapshot from the relational tables.
func LoadSnapshot(ctx context.Context, s *Store) (*ledger.Snapshot, error) {
	wire := ledger.SnapshotWire{}

	accountRows, err := s.db.QueryContext(ctx,
		`SELECT address, balance, sequence, flags, transfer_rate, regular_key, owner_count FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query accounts: %w", err)
	}
	accountsByAddr := make(map[string]*ledger.AccountWire)
	for accountRows.Next() {
		var a ledger.AccountWire
		var regularKey sql.NullString
		var address string
		if err := accountRows.Scan(&address, &a.Balance, &a.Sequence, &a.Flags, &a.TransferRate, &regularKey, &a.OwnerCount); err != nil {
			accountRows.Close()
			return nil, fmt.Errorf("snapshot: scan account: %w", err)
		}
		a.Address = crypto.Address(address)
		if regularKey.Valid {
			a.RegularKey = crypto.Address(regularKey.String)
			a.HasRegularKey = true
		}
		accountsByAddr[address] = &a
	}
	accountRows.Close()
	if err := accountRows.Err(); err != nil {
		return nil, err
	}

	trustRows, err := s.db.QueryContext(ctx,
		`SELECT holder, currency, issuer, balance, limit_drops, frozen, authorized FROM trust_lines`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query trust_lines: %w", err)
	}
	for trustRows.Next() {
		var holder string
		var tl ledger.TrustLineWire
		var issuer string
		if err := trustRows.Scan(&holder, &tl.Currency, &issuer, &tl.Balance, &tl.Limit, &tl.Frozen, &tl.Authorized); err != nil {
			trustRows.Close()
			return nil, fmt.Errorf("snapshot: scan trust_line: %w", err)
		}
		tl.Issuer = crypto.Address(issuer)
		if a, ok := accountsByAddr[holder]; ok {
			a.TrustLines = append(a.TrustLines, tl)
		}
	}
	trustRows.Close()
	if err := trustRows.Err(); err != nil {
		return nil, err
	}
	for _, a := range accountsByAddr {
		wire.Accounts = append(wire.Accounts, *a)
	}

	headerRows, err := s.db.QueryContext(ctx,
		`SELECT sequence, parent_hash, tx_hash, state_hash, close_time, tx_count, total_nxf FROM closed_ledgers ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query closed_ledgers: %w", err)
	}
	for headerRows.Next() {
		var h ledger.HeaderWire
		if err := headerRows.Scan(&h.Sequence, &h.ParentHash, &h.TxHash, &h.StateHash, &h.CloseTime, &h.TxCount, &h.TotalNXF); err != nil {
			headerRows.Close()
			return nil, fmt.Errorf("snapshot: scan closed_ledgers: %w", err)
		}
		wire.Headers = append(wire.Headers, h)
	}
	headerRows.Close()
	if err := headerRows.Err(); err != nil {
		return nil, err
	}

	stakeRows, err := s.db.QueryContext(ctx,
		`SELECT stake_id, owner, principal_drops, tier, base_apy, effective_apy,
		 lock_duration_seconds, start_time, maturity_time, matured, cancelled, payout_drops FROM stakes`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query stakes: %w", err)
	}
	for stakeRows.Next() {
		var st ledger.StakeWire
		var owner string
		if err := stakeRows.Scan(&st.StakeID, &owner, &st.PrincipalDrops, &st.Tier, &st.BaseAPY, &st.EffectiveAPY,
			&st.LockDurationSeconds, &st.StartTime, &st.MaturityTime, &st.Matured, &st.Cancelled, &st.PayoutDrops); err != nil {
			stakeRows.Close()
			return nil, fmt.Errorf("snapshot: scan stakes: %w", err)
		}
		st.Owner = crypto.Address(owner)
		wire.Stakes = append(wire.Stakes, st)
	}
	stakeRows.Close()
	if err := stakeRows.Err(); err != nil {
		return nil, err
	}

	idRows, err := s.db.QueryContext(ctx, `SELECT tx_id FROM applied_tx_ids`)
	if err != nil {
		return nil, fmt.Errorf("snapshot: query applied_tx_ids: %w", err)
	}
	for idRows.Next() {
		var id string
		if err := idRows.Scan(&id); err != nil {
			idRows.Close()
			return nil, fmt.Errorf("snapshot: scan applied_tx_ids: %w", err)
		}
		wire.AppliedTxIDs = append(wire.AppliedTxIDs, id)
	}
	idRows.Close()
	if err := idRows.Err(); err != nil {
		return nil, err
	}

	return ledger.WireToSnapshot(wire)
}
