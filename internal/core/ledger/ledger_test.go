package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func newFundedLedger(t *testing.T) (*Ledger, *crypto.KeyPair, crypto.Address) {
	t.Helper()
	kp, err := crypto.KeyPairFromSeed([]byte("genesis-seed"))
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	addr := crypto.DeriveAddress(pub)
	l := NewGenesis(addr, 1_000_000*amount.DropsPerNXF)
	return l, kp, addr
}

func signedTx(t *testing.T, kp *crypto.KeyPair, build func(*tx.Transaction)) *tx.Transaction {
	t.Helper()
	txn := &tx.Transaction{Fee: MinFeeDrops, Sequence: 1}
	build(txn)
	require.NoError(t, tx.Sign(txn, kp))
	return txn
}

func newRecipient(t *testing.T) (*crypto.KeyPair, crypto.Address) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	return kp, crypto.DeriveAddress(pub)
}

func TestNativePaymentCreatesDestination(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	_, destAddr := newRecipient(t)

	txn := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = destAddr
		txn.Amount = amount.Native(500 * amount.DropsPerNXF)
	})

	result := l.ApplyTransaction(txn)
	require.True(t, result.Succeeded(), result.String())

	dest, ok := l.GetAccount(destAddr)
	require.True(t, ok)
	require.Equal(t, int64(500*amount.DropsPerNXF), dest.Balance)

	genesis, _ := l.GetAccount(genesisAddr)
	require.Equal(t, uint32(2), genesis.Sequence)
	require.Equal(t, int64(1_000_000*amount.DropsPerNXF)-500*amount.DropsPerNXF-MinFeeDrops, genesis.Balance)
}

func TestReplayRejected(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	_, destAddr := newRecipient(t)

	txn := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = destAddr
		txn.Amount = amount.Native(10 * amount.DropsPerNXF)
	})

	require.True(t, l.ApplyTransaction(txn).Succeeded())
	require.Equal(t, tx.TecDUPLICATE, l.ApplyTransaction(txn))
}

func TestMismatchedSequenceRejectedWithoutMutation(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	_, destAddr := newRecipient(t)

	txn := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = destAddr
		txn.Amount = amount.Native(10 * amount.DropsPerNXF)
		txn.Sequence = 99
	})

	before, _ := l.GetAccount(genesisAddr)
	beforeSequence, beforeBalance := before.Sequence, before.Balance
	result := l.ApplyTransaction(txn)
	require.True(t, result.Rejected())

	after, _ := l.GetAccount(genesisAddr)
	require.Equal(t, beforeSequence, after.Sequence)
	require.Equal(t, beforeBalance, after.Balance)
}

func TestTrustSetThenIOUPayment(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	holderKP, holderAddr := newRecipient(t)
	recipientKP, recipientAddr := newRecipient(t)

	// Fund the two counterparties with native balance to cover fees/reserve.
	for i, dst := range []crypto.Address{holderAddr, recipientAddr} {
		txn := signedTx(t, kp, func(txn *tx.Transaction) {
			txn.Kind = tx.KindPayment
			txn.Account = genesisAddr
			txn.Destination = dst
			txn.Amount = amount.Native(50 * amount.DropsPerNXF)
			txn.Sequence = uint32(i + 1)
		})
		require.True(t, l.ApplyTransaction(txn).Succeeded())
	}

	// Both counterparties open a trust line to the genesis issuer.
	for _, kpPair := range []struct {
		kp   *crypto.KeyPair
		addr crypto.Address
	}{{holderKP, holderAddr}, {recipientKP, recipientAddr}} {
		txn := signedTx(t, kpPair.kp, func(txn *tx.Transaction) {
			txn.Kind = tx.KindTrustSet
			txn.Account = kpPair.addr
			txn.TrustLimit = amount.IOU(1000*amount.DropsPerNXF, "USD", genesisAddr)
		})
		require.True(t, l.ApplyTransaction(txn).Succeeded())
	}

	// Genesis (the issuer) pays the holder some USD.
	issueTx := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = holderAddr
		txn.Amount = amount.IOU(100*amount.DropsPerNXF, "USD", genesisAddr)
		txn.Sequence = 3
	})
	require.True(t, l.ApplyTransaction(issueTx).Succeeded())

	holder, _ := l.GetAccount(holderAddr)
	line, ok := holder.TrustLine("USD", genesisAddr)
	require.True(t, ok)
	require.Equal(t, int64(100*amount.DropsPerNXF), line.Balance)

	// Holder pays the recipient part of it.
	transferTx := signedTx(t, holderKP, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = holderAddr
		txn.Destination = recipientAddr
		txn.Amount = amount.IOU(40*amount.DropsPerNXF, "USD", genesisAddr)
		txn.Sequence = 2
	})
	require.True(t, l.ApplyTransaction(transferTx).Succeeded())

	holder, _ = l.GetAccount(holderAddr)
	recipient, _ := l.GetAccount(recipientAddr)
	holderLine, _ := holder.TrustLine("USD", genesisAddr)
	recipientLine, _ := recipient.TrustLine("USD", genesisAddr)
	require.Equal(t, int64(60*amount.DropsPerNXF), holderLine.Balance)
	require.Equal(t, int64(40*amount.DropsPerNXF), recipientLine.Balance)
}

func TestStakeAndUnstakeBeforeMaturity(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)

	stakeTx := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindStake
		txn.Account = genesisAddr
		txn.Amount = amount.Native(1000 * amount.DropsPerNXF)
		txn.StakeTier = tx.Tier365Day
	})
	result := l.ApplyTransaction(stakeTx)
	require.True(t, result.Succeeded(), result.String())

	stakeID, err := tx.TxID(stakeTx)
	require.NoError(t, err)
	require.Contains(t, l.Stakes, stakeID)

	unstakeTx := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindUnstake
		txn.Account = genesisAddr
		txn.StakeID = stakeID
		txn.Sequence = 2
	})
	result = l.ApplyTransaction(unstakeTx)
	require.True(t, result.Succeeded(), result.String())
	require.True(t, l.Stakes[stakeID].Cancelled)
}

func TestFreshWalletCannotSpend(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	emptyKP, emptyAddr := newRecipient(t)
	_, aliceAddr := newRecipient(t)

	// Create rEmpty with zero balance: a 0-drop native payment to an
	// unknown address auto-creates it, and a new account starts at
	// sequence 1.
	seedTx := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = emptyAddr
		txn.Amount = amount.Native(0)
	})
	require.True(t, l.ApplyTransaction(seedTx).Succeeded())

	empty, ok := l.GetAccount(emptyAddr)
	require.True(t, ok)
	require.Equal(t, int64(0), empty.Balance)

	spendTx := signedTx(t, emptyKP, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = emptyAddr
		txn.Destination = aliceAddr
		txn.Amount = amount.Native(1 * amount.DropsPerNXF)
	})
	result := l.ApplyTransaction(spendTx)
	require.Equal(t, tx.TecUNFUNDED, result)

	after, _ := l.GetAccount(emptyAddr)
	require.Equal(t, int64(0), after.Balance)
}

func TestFeeBurnPrecisionOverManyPayments(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	_, destAddr := newRecipient(t)

	const rounds = 50
	for i := 0; i < rounds; i++ {
		txn := signedTx(t, kp, func(txn *tx.Transaction) {
			txn.Kind = tx.KindPayment
			txn.Account = genesisAddr
			txn.Destination = destAddr
			txn.Amount = amount.Native(amount.DropsPerNXF / 100) // 0.01 NXF
			txn.Sequence = uint32(i + 1)
		})
		require.True(t, l.ApplyTransaction(txn).Succeeded())
	}

	require.Equal(t, int64(rounds)*MinFeeDrops, l.TotalBurned)
	require.Equal(t, int64(1_000_000*amount.DropsPerNXF)-int64(rounds)*MinFeeDrops, l.TotalSupply)
}

func TestLedgerCloseChainsHeaders(t *testing.T) {
	l, kp, genesisAddr := newFundedLedger(t)
	_, destAddr := newRecipient(t)

	txn := signedTx(t, kp, func(txn *tx.Transaction) {
		txn.Kind = tx.KindPayment
		txn.Account = genesisAddr
		txn.Destination = destAddr
		txn.Amount = amount.Native(10 * amount.DropsPerNXF)
	})
	require.True(t, l.ApplyTransaction(txn).Succeeded())

	first := l.Close(1000)
	require.Equal(t, uint32(1), first.Sequence)
	require.Equal(t, [32]byte{}, first.ParentHash)

	second := l.Close(2000)
	require.Equal(t, uint32(2), second.Sequence)
	require.Equal(t, first.Hash(), second.ParentHash)
}
