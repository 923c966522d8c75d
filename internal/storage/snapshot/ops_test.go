package snapshot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/ledger"
	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "snap.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadSnapshotRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	acct := ledger.NewAccount(crypto.Address("rHolderAddrForSnapshotTestOnly0000000000"))
	acct.Balance = 777
	acct.TrustLines[ledger.TrustLineKey{Currency: "USD", Issuer: crypto.Address("rIssuerAddrForSnapshotTestOnly0000000000")}] = &ledger.TrustLine{
		Currency: "USD",
		Issuer:   crypto.Address("rIssuerAddrForSnapshotTestOnly0000000000"),
		Balance:  5,
		Limit:    100,
	}

	var stakeID [32]byte
	stakeID[2] = 0x9
	record := &staking.Record{StakeID: stakeID, Owner: acct.Address, PrincipalDrops: 100_000_000, Tier: staking.TierFlexible}

	header := &ledger.LedgerHeader{Sequence: 1, CloseTime: 99}

	var appliedID [32]byte
	appliedID[0] = 0x5

	snap := &ledger.Snapshot{
		InitialSupply: 1000,
		TotalSupply:   1000,
		Accounts:      map[crypto.Address]*ledger.Account{acct.Address: acct},
		Headers:       []*ledger.LedgerHeader{header},
		Stakes:        map[[32]byte]*staking.Record{stakeID: record},
		AppliedTxIDs:  [][32]byte{appliedID},
	}

	require.NoError(t, SaveSnapshot(ctx, s, snap))

	loaded, err := LoadSnapshot(ctx, s)
	require.NoError(t, err)

	require.Equal(t, snap.InitialSupply, loaded.InitialSupply)
	got := loaded.Accounts[acct.Address]
	require.NotNil(t, got)
	require.Equal(t, acct.Balance, got.Balance)
	require.Len(t, got.TrustLines, 1)
	require.Len(t, loaded.Headers, 1)
	require.Equal(t, header.Sequence, loaded.Headers[0].Sequence)
	require.Len(t, loaded.Stakes, 1)
	require.Equal(t, [][32]byte{appliedID}, loaded.AppliedTxIDs)
}

func TestRecordAndReplayTransactions(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	account := crypto.DeriveAddress(pub)

	txn := &tx.Transaction{
		Kind:     tx.KindPayment,
		Account:  account,
		Amount:   amount.Native(10 * amount.DropsPerNXF),
		Fee:      1000,
		Sequence: 1,
	}
	require.NoError(t, tx.Sign(txn, kp))

	require.NoError(t, RecordTransaction(ctx, s, 1, txn, tx.TesSUCCESS))

	var seen []ReplayEntry
	require.NoError(t, IterateForReplay(ctx, s, func(e ReplayEntry) error {
		seen = append(seen, e)
		return nil
	}))
	require.Len(t, seen, 1)
	require.Equal(t, uint32(1), seen[0].LedgerSeq)
	require.NotEmpty(t, seen[0].Blob)
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "newer.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	_, execErr := s.db.ExecContext(ctx, `UPDATE schema_version SET version = ?`, SchemaVersion+1)
	require.NoError(t, execErr)
	require.NoError(t, s.Close())

	_, err = Open(ctx, path)
	require.Error(t, err)
}
