package crypto

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// CanonicalState describes the canonicality of a DER-encoded ECDSA signature.
type CanonicalState int

const (
	// CanonicityNone means the signature is malformed or out of range.
	CanonicityNone CanonicalState = iota
	// CanonicityCanonical means R and S are both in range but S is not
	// guaranteed low (both (R, S) and (R, N-S) verify the same message).
	CanonicityCanonical
	// CanonicityFullyCanonical means S <= N/2, ruling out signature
	// malleability. VerifySignature rejects only CanonicityNone, so it
	// accepts both this and CanonicityCanonical.
	CanonicityFullyCanonical
)

var secp256k1Order = btcec.S256().N
var secp256k1HalfOrder = new(big.Int).Rsh(secp256k1Order, 1)

// Canonicality parses a DER-encoded ECDSA signature and classifies it
// without needing the public key or message, mirroring the teacher's
// pre-verification malleability guard.
func Canonicality(sig []byte) CanonicalState {
	if len(sig) < 8 || len(sig) > 72 {
		return CanonicityNone
	}
	if sig[0] != 0x30 || int(sig[1]) != len(sig)-2 {
		return CanonicityNone
	}

	r, rest, ok := parseDERInteger(sig[2:])
	if !ok {
		return CanonicityNone
	}
	s, rest, ok := parseDERInteger(rest)
	if !ok || len(rest) != 0 {
		return CanonicityNone
	}

	rInt := new(big.Int).SetBytes(r)
	sInt := new(big.Int).SetBytes(s)

	if rInt.Sign() <= 0 || rInt.Cmp(secp256k1Order) >= 0 {
		return CanonicityNone
	}
	if sInt.Sign() <= 0 || sInt.Cmp(secp256k1Order) >= 0 {
		return CanonicityNone
	}

	if sInt.Cmp(secp256k1HalfOrder) > 0 {
		return CanonicityCanonical
	}
	return CanonicityFullyCanonical
}

// parseDERInteger parses a single DER INTEGER TLV from the front of buf,
// returning its value bytes (including any leading 0x00 padding byte) and
// the remainder of buf.
func parseDERInteger(buf []byte) (value, remaining []byte, ok bool) {
	if len(buf) < 2 || buf[0] != 0x02 {
		return nil, nil, false
	}
	length := int(buf[1])
	if length == 0 || len(buf) < 2+length {
		return nil, nil, false
	}
	value = buf[2 : 2+length]
	remaining = buf[2+length:]

	// Reject non-minimal padding (more than one leading zero byte, or a
	// leading zero that wasn't needed to keep the value positive).
	if len(value) > 1 && value[0] == 0x00 && value[1] < 0x80 {
		return nil, nil, false
	}
	return value, remaining, true
}
