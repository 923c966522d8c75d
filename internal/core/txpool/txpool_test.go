package txpool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

type stubChecker struct {
	result tx.Result
}

func (s stubChecker) CheckTransaction(*tx.Transaction) (tx.Result, string) {
	return s.result, ""
}

func addr(t *testing.T) crypto.Address {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	return crypto.DeriveAddress(pub)
}

func sampleTx(t *testing.T, fee int64) *tx.Transaction {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)

	txn := &tx.Transaction{
		Kind:        tx.KindPayment,
		Account:     crypto.DeriveAddress(pub),
		Destination: addr(t),
		Amount:      amount.Native(10 * amount.DropsPerNXF),
		Fee:         fee,
		Sequence:    1,
	}
	require.NoError(t, tx.Sign(txn, kp))
	return txn
}

func TestAdmitAcceptsOnSuccess(t *testing.T) {
	pool, err := New(stubChecker{result: tx.TesSUCCESS}, 0, 0)
	require.NoError(t, err)

	code, _ := pool.Admit(sampleTx(t, 1000))
	require.True(t, code.Succeeded())
	require.Equal(t, 1, pool.Len())
}

func TestAdmitRejectsDuplicatePending(t *testing.T) {
	pool, err := New(stubChecker{result: tx.TesSUCCESS}, 0, 0)
	require.NoError(t, err)

	txn := sampleTx(t, 1000)
	code, _ := pool.Admit(txn)
	require.True(t, code.Succeeded())

	code, _ = pool.Admit(txn)
	require.Equal(t, tx.TecDUPLICATE, code)
}

func TestAdmitPropagatesCheckerRejection(t *testing.T) {
	pool, err := New(stubChecker{result: tx.TecUNFUNDED}, 0, 0)
	require.NoError(t, err)

	code, _ := pool.Admit(sampleTx(t, 1000))
	require.Equal(t, tx.TecUNFUNDED, code)
	require.Equal(t, 0, pool.Len())
}

func TestTxIDsSortedAscending(t *testing.T) {
	pool, err := New(stubChecker{result: tx.TesSUCCESS}, 0, 0)
	require.NoError(t, err)

	_, _ = pool.Admit(sampleTx(t, 1000))
	_, _ = pool.Admit(sampleTx(t, 2000))

	ids := pool.TxIDs()
	require.Len(t, ids, 2)
	require.True(t, idLess(ids[0], ids[1]) || ids[0] == ids[1])
}
