package ledger

import (
	"encoding/binary"

	"github.com/nexaflow/nxfd/internal/crypto"
)

// LedgerHeader is the closed-ledger summary whose hash chains to the
// previous header (spec.md §4.4's "hash-chained ledger closure").
type LedgerHeader struct {
	Sequence   uint32
	ParentHash [32]byte
	TxHash     [32]byte
	StateHash  [32]byte
	CloseTime  int64
	TxCount    uint32
	TotalNXF   int64
}

// Hash computes the canonical header hash: BLAKE2b-256 over the
// fixed-width field encoding, matching the teacher's LedgerHeader hashing
// convention.
func (h *LedgerHeader) Hash() [32]byte {
	buf := make([]byte, 0, 4+32+32+32+8+4+8)
	buf = binary.BigEndian.AppendUint32(buf, h.Sequence)
	buf = append(buf, h.ParentHash[:]...)
	buf = append(buf, h.TxHash[:]...)
	buf = append(buf, h.StateHash[:]...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(h.CloseTime))
	buf = binary.BigEndian.AppendUint32(buf, h.TxCount)
	buf = binary.BigEndian.AppendUint64(buf, uint64(h.TotalNXF))
	return crypto.Blake2b256(buf)
}
