package ledger

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/nexaflow/nxfd/internal/core/tx"
)

func txIDOf(t *tx.Transaction) ([32]byte, error) {
	return tx.TxID(t)
}

func sortTxIDs(ids [][32]byte) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}

func sortStrings(s []string) {
	sort.Strings(s)
}

// encodeAccountForHash renders an account's state canonically for the
// closure-time state-hash: address, balance, sequence, flags,
// owner-count, then every trust line's balance and limit in
// (currency,issuer) order. Transfer-rate, regular key, signer list and
// deposit-preauth entries are not part of the encoding.
func encodeAccountForHash(a *Account) []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, []byte(a.Address)...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(a.Balance))
	buf = binary.BigEndian.AppendUint32(buf, a.Sequence)
	buf = binary.BigEndian.AppendUint32(buf, a.Flags)
	buf = binary.BigEndian.AppendUint32(buf, a.OwnerCount)

	keys := make([]TrustLineKey, 0, len(a.TrustLines))
	for k := range a.TrustLines {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Currency != keys[j].Currency {
			return keys[i].Currency < keys[j].Currency
		}
		return keys[i].Issuer < keys[j].Issuer
	})
	for _, k := range keys {
		tl := a.TrustLines[k]
		buf = append(buf, []byte(k.Currency)...)
		buf = append(buf, []byte(k.Issuer)...)
		buf = binary.BigEndian.AppendUint64(buf, uint64(tl.Balance))
		buf = binary.BigEndian.AppendUint64(buf, uint64(tl.Limit))
	}

	return buf
}
