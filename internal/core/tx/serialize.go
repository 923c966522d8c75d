package tx

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nexaflow/nxfd/internal/core/amount"
	"github.com/nexaflow/nxfd/internal/crypto"
)

// SigningBlob produces the canonical, field-ordered, length-prefixed byte
// sequence a signer signs over (spec.md §4.1). Two nodes given identical
// transaction fields MUST produce identical bytes; this function has no
// randomness and depends on nothing but its argument.
func SigningBlob(t *Transaction) ([]byte, error) {
	buf := make([]byte, 0, 128)

	buf = appendUint16(buf, uint16(t.Kind))

	accountID, err := t.Account.AccountID()
	if err != nil {
		return nil, fmt.Errorf("tx: bad account: %w", err)
	}
	buf = append(buf, accountID[:]...)

	buf = appendUint64(buf, uint64(t.Sequence))
	buf = appendUint64(buf, uint64(t.Fee))

	if t.Destination != "" {
		buf = append(buf, 1)
		destID, err := t.Destination.AccountID()
		if err != nil {
			return nil, fmt.Errorf("tx: bad destination: %w", err)
		}
		buf = append(buf, destID[:]...)
	} else {
		buf = append(buf, 0)
	}

	amtBytes, err := encodeAmount(t.Amount)
	if err != nil {
		return nil, fmt.Errorf("tx: bad amount: %w", err)
	}
	buf = append(buf, amtBytes...)

	buf = appendBool(buf, t.HasDestTag)
	buf = appendUint32(buf, t.DestinationTag)
	buf = appendBool(buf, t.HasSourceTag)
	buf = appendUint32(buf, t.SourceTag)

	buf = appendUint32(buf, t.Flags)
	buf = appendLenPrefixed(buf, []byte(t.Memo))

	switch t.Kind {
	case KindTrustSet:
		limitBytes, err := encodeAmount(t.TrustLimit)
		if err != nil {
			return nil, fmt.Errorf("tx: bad trust limit: %w", err)
		}
		buf = append(buf, limitBytes...)
	case KindStake:
		buf = append(buf, byte(t.StakeTier))
	case KindUnstake:
		buf = append(buf, t.StakeID[:]...)
	}

	return buf, nil
}

// encodeAmount renders an Amount as: 1 byte native flag, 8-byte BE signed
// drops, and — for non-native assets — a 20-byte zero-padded currency code
// plus the 20-byte issuer account ID (spec.md §4.1).
func encodeAmount(a amount.Amount) ([]byte, error) {
	buf := make([]byte, 0, 49)
	if a.Asset.Native {
		buf = append(buf, 1)
		buf = appendUint64(buf, uint64(a.Drops))
		return buf, nil
	}

	buf = append(buf, 0)
	buf = appendUint64(buf, uint64(a.Drops))

	var currency [20]byte
	if len(a.Asset.Currency) > 20 {
		return nil, errors.New("tx: currency code too long")
	}
	copy(currency[:], a.Asset.Currency)
	buf = append(buf, currency[:]...)

	issuerID, err := a.Asset.Issuer.AccountID()
	if err != nil {
		return nil, fmt.Errorf("bad issuer: %w", err)
	}
	buf = append(buf, issuerID[:]...)
	return buf, nil
}

// SigningDigest returns SHA-256(SHA-256(blob)), the hash a signer signs and
// a verifier recomputes (spec.md §4.1).
func SigningDigest(t *Transaction) ([32]byte, error) {
	blob, err := SigningBlob(t)
	if err != nil {
		return [32]byte{}, err
	}
	return crypto.Sha256Twice(blob), nil
}

// Sign computes the signing digest, signs it with kp, and populates the
// transaction's SigningPubKey and Signature fields.
func Sign(t *Transaction, kp *crypto.KeyPair) error {
	digest, err := SigningDigest(t)
	if err != nil {
		return err
	}
	sig, err := kp.Sign(digest)
	if err != nil {
		return err
	}
	t.SigningPubKey = kp.PublicKeyHex
	t.Signature = sig
	return nil
}

// VerifySignature recomputes the signing blob and digest and runs ECDSA
// verification against the transaction's embedded public key and
// signature (spec.md §4.1).
func VerifySignature(t *Transaction) bool {
	digest, err := SigningDigest(t)
	if err != nil {
		return false
	}
	if t.SigningPubKey == "" || t.Signature == "" {
		return false
	}
	return crypto.VerifySignature(digest, t.SigningPubKey, t.Signature)
}

// TxID derives the transaction identifier: SHA256(blob ∥ signature)
// (spec.md §3, §4.1). Two transactions with identical fields hash to the
// same tx-id; any single-bit field change changes it.
func TxID(t *Transaction) ([32]byte, error) {
	blob, err := SigningBlob(t)
	if err != nil {
		return [32]byte{}, err
	}
	sigBytes, err := hex.DecodeString(t.Signature)
	if err != nil {
		return [32]byte{}, fmt.Errorf("tx: bad signature hex: %w", err)
	}
	full := append(append([]byte{}, blob...), sigBytes...)
	return crypto.Sha256(full), nil
}

func appendUint16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendLenPrefixed(buf []byte, data []byte) []byte {
	buf = appendUint16(buf, uint16(len(data)))
	return append(buf, data...)
}
