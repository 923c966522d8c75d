package crypto

import (
	"errors"
	"fmt"
)

// Address is a Base58Check-encoded account identifier, e.g. "rEmpty...".
type Address string

// ErrInvalidAddress is returned when an address fails to decode or checksum.
var ErrInvalidAddress = errors.New("crypto: invalid address")

// DeriveAddress computes the human-readable address for a public key:
// Base58Check(AddressVersion || RIPEMD160(SHA256(publicKey))).
func DeriveAddress(publicKey []byte) Address {
	accountID := CalcAccountID(publicKey)
	return Address(Base58CheckEncode(AddressVersion, accountID[:]))
}

// AccountID decodes the address back to its raw 20-byte account identifier,
// verifying the Base58Check checksum and the network version byte.
func (a Address) AccountID() ([AccountIDSize]byte, error) {
	var out [AccountIDSize]byte

	version, payload, err := Base58CheckDecode(string(a))
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if version != AddressVersion {
		return out, fmt.Errorf("%w: unexpected version byte 0x%02x", ErrInvalidAddress, version)
	}
	if len(payload) != AccountIDSize {
		return out, fmt.Errorf("%w: payload length %d", ErrInvalidAddress, len(payload))
	}

	copy(out[:], payload)
	return out, nil
}

// Valid reports whether the address decodes cleanly.
func (a Address) Valid() bool {
	_, err := a.AccountID()
	return err == nil
}

// AddressFromAccountID re-encodes a raw account ID back into its address form.
func AddressFromAccountID(accountID [AccountIDSize]byte) Address {
	return Address(Base58CheckEncode(AddressVersion, accountID[:]))
}
