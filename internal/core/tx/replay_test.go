package tx

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/amount"
)

func TestEncodeDecodeReplayRoundTrip(t *testing.T) {
	tx, _ := signedPayment(t)
	tx.Memo = "hello"
	tx.DestinationTag = 42
	tx.HasDestTag = true

	blob, err := EncodeReplay(tx)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	got, err := DecodeReplay(blob)
	require.NoError(t, err)

	require.Equal(t, tx.Kind, got.Kind)
	require.Equal(t, tx.Account, got.Account)
	require.Equal(t, tx.Destination, got.Destination)
	require.Equal(t, tx.Amount, got.Amount)
	require.Equal(t, tx.Fee, got.Fee)
	require.Equal(t, tx.Sequence, got.Sequence)
	require.Equal(t, tx.Memo, got.Memo)
	require.Equal(t, tx.DestinationTag, got.DestinationTag)
	require.Equal(t, tx.HasDestTag, got.HasDestTag)
	require.Equal(t, tx.SigningPubKey, got.SigningPubKey)
	require.Equal(t, tx.Signature, got.Signature)
}

func TestEncodeDecodeReplayPreservesStakeID(t *testing.T) {
	tx, _ := signedPayment(t)
	tx.Kind = KindStake
	tx.StakeTier = Tier30Day
	tx.Amount = amount.Native(50 * amount.DropsPerNXF)
	for i := range tx.StakeID {
		tx.StakeID[i] = byte(i)
	}

	blob, err := EncodeReplay(tx)
	require.NoError(t, err)

	got, err := DecodeReplay(blob)
	require.NoError(t, err)
	require.Equal(t, tx.StakeID, got.StakeID)
	require.Equal(t, tx.StakeTier, got.StakeTier)
}

func TestDecodeReplayRejectsGarbage(t *testing.T) {
	_, err := DecodeReplay([]byte{0xff, 0x00, 0x01})
	require.Error(t, err)
}
