package tx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func testAddress(t *testing.T) crypto.Address {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)
	return crypto.DeriveAddress(pub)
}

func signedPayment(t *testing.T) (*Transaction, *crypto.KeyPair) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)

	tx := &Transaction{
		Kind:        KindPayment,
		Account:     crypto.DeriveAddress(pub),
		Destination: testAddress(t),
		Amount:      amount.Native(100 * amount.DropsPerNXF),
		Fee:         10,
		Sequence:    1,
	}
	require.NoError(t, Sign(tx, kp))
	return tx, kp
}

func TestTxIDDeterministic(t *testing.T) {
	tx, _ := signedPayment(t)
	id1, err := TxID(tx)
	require.NoError(t, err)
	id2, err := TxID(tx)
	require.NoError(t, err)
	require.Equal(t, id1, id2)
}

func TestTxIDChangesOnFieldMutation(t *testing.T) {
	tx, kp := signedPayment(t)
	id1, err := TxID(tx)
	require.NoError(t, err)

	tx.Sequence = 2
	require.NoError(t, Sign(tx, kp))
	id2, err := TxID(tx)
	require.NoError(t, err)

	require.NotEqual(t, id1, id2)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	tx, _ := signedPayment(t)
	require.True(t, VerifySignature(tx))
}

func TestVerifySignatureFailsOnTamper(t *testing.T) {
	tx, _ := signedPayment(t)
	tx.Amount = amount.Native(999 * amount.DropsPerNXF)
	require.False(t, VerifySignature(tx))
}

func TestKindImplemented(t *testing.T) {
	require.True(t, KindPayment.Implemented())
	require.True(t, KindStake.Implemented())
	require.False(t, KindAMM.Implemented())
	require.False(t, KindEscrowCreate.Implemented())
}
