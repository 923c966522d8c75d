// Package crypto implements the node's cryptographic primitives: hashing,
// Base58Check address encoding, secp256k1 signing, and address derivation.
package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
	"golang.org/x/crypto/blake2b"
)

// AccountIDSize is the size in bytes of an NXF account identifier.
const AccountIDSize = 20

// Sha256 returns the single SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha256Twice returns SHA-256(SHA-256(data)), the digest a signer signs over
// for the transaction signing blob (spec.md §4.1).
func Sha256Twice(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// Blake2b256 returns the 256-bit BLAKE2b digest of data, used for ledger
// header hashing and tx-set/state hashing (spec.md §3, §4.3, §4.4).
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Ripemd160 returns the RIPEMD-160 digest of data.
func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

// CalcAccountID derives the 160-bit account identifier from a public key as
// RIPEMD160(SHA256(publicKey)), matching the teacher's double-hash approach
// to resist length-extension attacks while keeping a compact identifier.
func CalcAccountID(publicKey []byte) [AccountIDSize]byte {
	sha := sha256.Sum256(publicKey)
	digest := Ripemd160(sha[:])

	var out [AccountIDSize]byte
	copy(out[:], digest)
	return out
}
