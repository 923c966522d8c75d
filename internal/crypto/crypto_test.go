package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)

	addr := DeriveAddress(pub)
	require.True(t, addr.Valid())

	accountID, err := addr.AccountID()
	require.NoError(t, err)
	require.Equal(t, CalcAccountID(pub), accountID)

	require.Equal(t, addr, AddressFromAccountID(accountID))
}

func TestAddressRejectsBadChecksum(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)
	pub, err := kp.PublicKeyBytes()
	require.NoError(t, err)

	addr := string(DeriveAddress(pub))
	mutated := []byte(addr)
	mutated[len(mutated)-1] = mutated[len(mutated)-1] ^ 1
	if mutated[len(mutated)-1] == addr[len(addr)-1] {
		mutated[len(mutated)-1]++
	}

	require.False(t, Address(mutated).Valid())
}

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeyPair()
	require.NoError(t, err)

	digest := Sha256Twice([]byte("a signing blob"))
	sig, err := kp.Sign(digest)
	require.NoError(t, err)

	require.True(t, VerifySignature(digest, kp.PublicKeyHex, sig))

	otherDigest := Sha256Twice([]byte("a different blob"))
	require.False(t, VerifySignature(otherDigest, kp.PublicKeyHex, sig))
}

func TestKeyPairFromSeedDeterministic(t *testing.T) {
	seed := []byte("deterministic-seed")
	kp1, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	kp2, err := KeyPairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, kp1, kp2)
}

func TestBase58CheckRoundTrip(t *testing.T) {
	payload := make([]byte, AccountIDSize)
	for i := range payload {
		payload[i] = byte(i)
	}
	encoded := Base58CheckEncode(AddressVersion, payload)
	version, decoded, err := Base58CheckDecode(encoded)
	require.NoError(t, err)
	require.Equal(t, AddressVersion, version)
	require.Equal(t, payload, decoded)
}

func TestCanonicalityRejectsMalformed(t *testing.T) {
	require.Equal(t, CanonicityNone, Canonicality(nil))
	require.Equal(t, CanonicityNone, Canonicality([]byte{0x30, 0x00}))
}
