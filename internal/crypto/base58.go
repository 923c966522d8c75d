package crypto

import (
	"errors"
	"math/big"
)

// nexaFlowAlphabet is the Bitcoin-flavored Base58 alphabet (spec.md §6:
// "the NexaFlow-flavored Bitcoin alphabet"). It omits the visually
// ambiguous characters 0, O, I, l.
const nexaFlowAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// AddressVersion is the single network version byte prefixed onto an
// account ID before Base58Check encoding. Addresses therefore always start
// with the letter 'r', matching spec.md §6's human-readable tag.
const AddressVersion byte = 0x00

var base58Decode [256]int8

func init() {
	for i := range base58Decode {
		base58Decode[i] = -1
	}
	for i, c := range nexaFlowAlphabet {
		base58Decode[c] = int8(i)
	}
}

var bigRadix = big.NewInt(58)
var bigZero = big.NewInt(0)

// Base58Encode encodes raw bytes (no checksum) using the NexaFlow alphabet.
func Base58Encode(input []byte) string {
	x := new(big.Int).SetBytes(input)

	answer := make([]byte, 0, len(input)*138/100+1)
	mod := new(big.Int)
	for x.Cmp(bigZero) > 0 {
		x.DivMod(x, bigRadix, mod)
		answer = append(answer, nexaFlowAlphabet[mod.Int64()])
	}

	for _, b := range input {
		if b != 0 {
			break
		}
		answer = append(answer, nexaFlowAlphabet[0])
	}

	// reverse
	for i, j := 0, len(answer)-1; i < j; i, j = i+1, j-1 {
		answer[i], answer[j] = answer[j], answer[i]
	}
	return string(answer)
}

// Base58Decode decodes a Base58 string (no checksum) to raw bytes.
func Base58Decode(input string) ([]byte, error) {
	result := big.NewInt(0)
	for _, r := range input {
		if r > 255 || base58Decode[r] == -1 {
			return nil, errors.New("base58: invalid character")
		}
		result.Mul(result, bigRadix)
		result.Add(result, big.NewInt(int64(base58Decode[r])))
	}

	decoded := result.Bytes()
	numZeros := 0
	for _, r := range input {
		if r != rune(nexaFlowAlphabet[0]) {
			break
		}
		numZeros++
	}

	out := make([]byte, numZeros+len(decoded))
	copy(out[numZeros:], decoded)
	return out, nil
}

// Base58CheckEncode encodes payload with a leading version byte and a
// trailing 4-byte double-SHA256 checksum.
func Base58CheckEncode(version byte, payload []byte) string {
	body := make([]byte, 0, 1+len(payload)+4)
	body = append(body, version)
	body = append(body, payload...)

	checksum := Sha256Twice(body)
	body = append(body, checksum[:4]...)
	return Base58Encode(body)
}

// Base58CheckDecode decodes a Base58Check string, verifying its checksum and
// returning the version byte and payload.
func Base58CheckDecode(s string) (version byte, payload []byte, err error) {
	raw, err := Base58Decode(s)
	if err != nil {
		return 0, nil, err
	}
	if len(raw) < 5 {
		return 0, nil, errors.New("base58check: input too short")
	}

	body := raw[:len(raw)-4]
	checksum := raw[len(raw)-4:]

	want := Sha256Twice(body)
	for i := 0; i < 4; i++ {
		if want[i] != checksum[i] {
			return 0, nil, errors.New("base58check: checksum mismatch")
		}
	}

	return body[0], body[1:], nil
}
