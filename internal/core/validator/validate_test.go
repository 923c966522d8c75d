package validator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func signedPayment(t *testing.T) *tx.Transaction {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	addr := crypto.DeriveAddress(pub)

	dstKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	dstPub, err := dstKP.PublicKeyBytes()
	require.NoError(t, err)
	dst := crypto.DeriveAddress(dstPub)

	txn := &tx.Transaction{
		Kind:        tx.KindPayment,
		Account:     addr,
		Destination: dst,
		Amount:      amount.Native(10 * amount.DropsPerNXF),
		Fee:         MinFeeDrops,
		Sequence:    1,
	}
	require.NoError(t, tx.Sign(txn, kp))
	return txn
}

func TestValidateStatelessAccepts(t *testing.T) {
	txn := signedPayment(t)
	code, msg := ValidateStateless(txn, nil)
	require.True(t, code.Succeeded(), msg)
}

func TestValidateStatelessRejectsLowFee(t *testing.T) {
	txn := signedPayment(t)
	txn.Fee = 1
	code, _ := ValidateStateless(txn, nil)
	require.Equal(t, tx.TemBAD_FEE, code)
}

func TestValidateStatelessRejectsZeroSequence(t *testing.T) {
	txn := signedPayment(t)
	txn.Sequence = 0
	code, _ := ValidateStateless(txn, nil)
	require.Equal(t, tx.TemBAD_SEQUENCE, code)
}

func TestValidateStatelessRejectsReplay(t *testing.T) {
	txn := signedPayment(t)
	id, err := tx.TxID(txn)
	require.NoError(t, err)

	code, _ := ValidateStateless(txn, func(seen [32]byte) bool { return seen == id })
	require.Equal(t, tx.TecDUPLICATE, code)
}

func TestValidateStatelessRejectsBadSignature(t *testing.T) {
	txn := signedPayment(t)
	txn.Amount = amount.Native(999 * amount.DropsPerNXF) // mutate after signing
	code, _ := ValidateStateless(txn, nil)
	require.Equal(t, tx.TefBAD_SIGNATURE, code)
}
