package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/staking"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func TestEncodeDecodeSnapshotRoundTrips(t *testing.T) {
	acct := NewAccount(crypto.Address("rHolderAddrForSerializeTestOnly00000000"))
	acct.Balance = 500
	acct.OwnerCount = 1
	acct.TrustLines[TrustLineKey{Currency: "USD", Issuer: crypto.Address("rIssuerAddrForSerializeTestOnly00000000")}] = &TrustLine{
		Currency: "USD",
		Issuer:   crypto.Address("rIssuerAddrForSerializeTestOnly00000000"),
		Balance:  10,
		Limit:    1000,
	}
	acct.DepositPreauth[crypto.Address("rPreauthAddrForSerializeTestOnly0000000")] = true

	var stakeID [32]byte
	stakeID[0] = 0x42
	record := &staking.Record{
		StakeID:        stakeID,
		Owner:          acct.Address,
		PrincipalDrops: 100_000_000,
		Tier:           staking.TierFlexible,
		BaseAPY:        0.05,
		EffectiveAPY:   0.05,
	}

	header := &LedgerHeader{Sequence: 1, CloseTime: 1234}

	var txID [32]byte
	txID[1] = 0x7

	snap := &Snapshot{
		InitialSupply: 1_000_000,
		TotalSupply:   1_000_000,
		Accounts:      map[crypto.Address]*Account{acct.Address: acct},
		Headers:       []*LedgerHeader{header},
		Stakes:        map[[32]byte]*staking.Record{stakeID: record},
		AppliedTxIDs:  [][32]byte{txID},
	}

	data, err := EncodeSnapshot(snap)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	require.Equal(t, snap.InitialSupply, decoded.InitialSupply)
	require.Len(t, decoded.Accounts, 1)
	got := decoded.Accounts[acct.Address]
	require.Equal(t, acct.Balance, got.Balance)
	require.Len(t, got.TrustLines, 1)
	require.True(t, got.DepositPreauth[crypto.Address("rPreauthAddrForSerializeTestOnly0000000")])

	require.Len(t, decoded.Stakes, 1)
	require.Equal(t, record.PrincipalDrops, decoded.Stakes[stakeID].PrincipalDrops)

	require.Len(t, decoded.Headers, 1)
	require.Equal(t, header.Sequence, decoded.Headers[0].Sequence)

	require.Equal(t, [][32]byte{txID}, decoded.AppliedTxIDs)
}

func TestDecodeSnapshotRejectsMalformedHash(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"headers":[{"sequence":1,"parent_hash":"not-hex","tx_hash":"","state_hash":""}]}`))
	require.Error(t, err)
}
