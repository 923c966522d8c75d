// Package snapshot implements the node's relational at-rest store: the
// accounts/trust_lines/closed_ledgers/transactions/stakes/applied_tx_ids/
// schema_version tables spec.md §6 describes, backed by modernc.org/sqlite
// (a teacher-adjacent swap for the pack's lib/pq-based Postgres backend,
// adapted because this store is single-node and embedded rather than a
// shared server).
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // driver registered under "sqlite"
)

// SchemaVersion is the version this code writes and expects. A
// schema-newer-than-code mismatch on open is fatal (spec.md §7: "refuse
// to start").
const SchemaVersion = 1

// BusyTimeout is the minimum SQLITE_BUSY retry window (spec.md §6:
// "busy_timeout ≥ 5s prevents contention errors").
const BusyTimeout = 5 * time.Second

// Store wraps a *sql.DB opened against a single sqlite file in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path, configures WAL
// journaling and the busy timeout, and initializes/validates the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // sqlite + WAL: one writer connection avoids lock churn

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			id INTEGER PRIMARY KEY CHECK (id = 0),
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			address TEXT PRIMARY KEY,
			balance INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			flags INTEGER NOT NULL,
			transfer_rate REAL NOT NULL,
			regular_key TEXT,
			owner_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trust_lines (
			holder TEXT NOT NULL,
			currency TEXT NOT NULL,
			issuer TEXT NOT NULL,
			balance INTEGER NOT NULL,
			limit_drops INTEGER NOT NULL,
			frozen INTEGER NOT NULL,
			authorized INTEGER NOT NULL,
			PRIMARY KEY (holder, currency, issuer)
		)`,
		`CREATE TABLE IF NOT EXISTS closed_ledgers (
			sequence INTEGER PRIMARY KEY,
			parent_hash TEXT NOT NULL,
			tx_hash TEXT NOT NULL,
			state_hash TEXT NOT NULL,
			close_time INTEGER NOT NULL,
			tx_count INTEGER NOT NULL,
			total_nxf INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			tx_id TEXT PRIMARY KEY,
			ledger_seq INTEGER NOT NULL,
			result_code TEXT NOT NULL,
			replay_blob BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_ledger_seq ON transactions(ledger_seq)`,
		`CREATE TABLE IF NOT EXISTS stakes (
			stake_id TEXT PRIMARY KEY,
			owner TEXT NOT NULL,
			principal_drops INTEGER NOT NULL,
			tier INTEGER NOT NULL,
			base_apy REAL NOT NULL,
			effective_apy REAL NOT NULL,
			lock_duration_seconds INTEGER NOT NULL,
			start_time INTEGER NOT NULL,
			maturity_time INTEGER NOT NULL,
			matured INTEGER NOT NULL,
			cancelled INTEGER NOT NULL,
			payout_drops INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applied_tx_ids (
			tx_id TEXT PRIMARY KEY
		)`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("snapshot: begin schema init: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("snapshot: schema init: %w", err)
		}
	}

	row := tx.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE id = 0`)
	var version int
	switch err := row.Scan(&version); err {
	case sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (id, version) VALUES (0, ?)`, SchemaVersion); err != nil {
			return fmt.Errorf("snapshot: seed schema_version: %w", err)
		}
	case nil:
		if version > SchemaVersion {
			return fmt.Errorf("snapshot: database schema v%d is newer than this build (v%d): refusing to start", version, SchemaVersion)
		}
	default:
		return fmt.Errorf("snapshot: read schema_version: %w", err)
	}

	return tx.Commit()
}
