package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// KeyPair holds a secp256k1 private/public key pair in hex form, matching
// the teacher's string-based key representation so keys round-trip cleanly
// through config files and wire messages.
type KeyPair struct {
	PrivateKeyHex string
	PublicKeyHex  string
}

// GenerateKeyPair creates a new random secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("crypto: generate key: %w", err)
	}
	return keyPairFromPrivate(priv), nil
}

// KeyPairFromSeed deterministically derives a key pair from a 32-byte seed,
// used for validator and genesis key provisioning where reproducibility
// across nodes matters.
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) == 0 {
		return nil, errors.New("crypto: empty seed")
	}
	digest := Sha256(seed)
	priv := secp256k1.PrivKeyFromBytes(digest[:])
	return keyPairFromPrivate(priv), nil
}

func keyPairFromPrivate(priv *secp256k1.PrivateKey) *KeyPair {
	return &KeyPair{
		PrivateKeyHex: hex.EncodeToString(priv.Serialize()),
		PublicKeyHex:  hex.EncodeToString(priv.PubKey().SerializeCompressed()),
	}
}

// PublicKeyBytes decodes the hex-encoded compressed public key.
func (k *KeyPair) PublicKeyBytes() ([]byte, error) {
	return hex.DecodeString(k.PublicKeyHex)
}

// Sign signs digest (expected to already be a hash, per spec.md §4.1's
// double-SHA256 signing blob) with the key pair's private key, returning a
// DER-encoded, fully-canonical (low-S) signature.
func (k *KeyPair) Sign(digest [32]byte) (string, error) {
	privBytes, err := hex.DecodeString(k.PrivateKeyHex)
	if err != nil {
		return "", fmt.Errorf("crypto: decode private key: %w", err)
	}
	priv := secp256k1.PrivKeyFromBytes(privBytes)
	sig := ecdsa.Sign(priv, digest[:])
	return hex.EncodeToString(sig.Serialize()), nil
}

// VerifySignature verifies a DER-encoded secp256k1 signature over digest
// against the given compressed public key (both hex-encoded).
func VerifySignature(digest [32]byte, publicKeyHex, signatureHex string) bool {
	pubBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	if Canonicality(sigBytes) == CanonicityNone {
		return false
	}

	pub, err := secp256k1.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}

	return sig.Verify(digest[:], pub)
}

// RandomBytes returns n cryptographically random bytes, used for seeds and
// P2P nonces.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
