package sync

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/core/ledger"
	"github.com/nexaflow/nxfd/internal/crypto"
)

func header(seq uint32, parent [32]byte) *ledger.LedgerHeader {
	return &ledger.LedgerHeader{
		Sequence:   seq,
		ParentHash: parent,
		CloseTime:  int64(seq),
	}
}

func TestVerifyHashChainAcceptsLinkedChain(t *testing.T) {
	var genesis [32]byte
	h1 := header(1, genesis)
	h2 := header(2, h1.Hash())
	h3 := header(3, h2.Hash())

	require.NoError(t, VerifyHashChain(genesis, []*ledger.LedgerHeader{h1, h2, h3}))
}

func TestVerifyHashChainRejectsBadFirstHeader(t *testing.T) {
	var genesis [32]byte
	var wrongParent [32]byte
	wrongParent[0] = 0xff
	h1 := header(1, wrongParent)

	err := VerifyHashChain(genesis, []*ledger.LedgerHeader{h1})
	require.ErrorIs(t, err, ErrHashChainMismatch)
}

func TestVerifyHashChainRejectsBrokenMidChain(t *testing.T) {
	var genesis [32]byte
	h1 := header(1, genesis)
	h2 := header(2, h1.Hash())
	var tamperedParent [32]byte
	tamperedParent[0] = 0x01
	h3 := header(3, tamperedParent) // should have chained from h2.Hash()

	err := VerifyHashChain(genesis, []*ledger.LedgerHeader{h1, h2, h3})
	require.ErrorIs(t, err, ErrHashChainMismatch)
}

func TestVerifyHashChainEmptyIsNoOp(t *testing.T) {
	var genesis [32]byte
	require.NoError(t, VerifyHashChain(genesis, nil))
}

func TestChooseTargetPicksHighestSequence(t *testing.T) {
	now := time.Unix(1000, 0)
	responses := []StatusResponse{
		{PeerID: "a", Sequence: 12, ReceivedAt: now},
		{PeerID: "b", Sequence: 20, ReceivedAt: now.Add(time.Second)},
		{PeerID: "c", Sequence: 15, ReceivedAt: now},
	}

	target, ok := ChooseTarget(10, responses)
	require.True(t, ok)
	require.Equal(t, "b", target.PeerID)
}

func TestChooseTargetTieBreaksByEarliestResponse(t *testing.T) {
	now := time.Unix(1000, 0)
	responses := []StatusResponse{
		{PeerID: "late", Sequence: 20, ReceivedAt: now.Add(time.Second)},
		{PeerID: "early", Sequence: 20, ReceivedAt: now},
	}

	target, ok := ChooseTarget(10, responses)
	require.True(t, ok)
	require.Equal(t, "early", target.PeerID)
}

func TestChooseTargetIgnoresPeersNotAhead(t *testing.T) {
	responses := []StatusResponse{
		{PeerID: "behind", Sequence: 5},
		{PeerID: "equal", Sequence: 10},
	}

	_, ok := ChooseTarget(10, responses)
	require.False(t, ok)
}

func TestSelectModeChoosesDeltaUnderThreshold(t *testing.T) {
	require.Equal(t, ModeDelta, SelectMode(100, 110, DefaultDeltaThreshold))
}

func TestSelectModeChoosesSnapshotOverThreshold(t *testing.T) {
	require.Equal(t, ModeSnapshot, SelectMode(100, 200, DefaultDeltaThreshold))
}

type stubPeer struct {
	id       string
	status   StatusResponse
	statusOK bool
	delta    DeltaResponse
	deltaErr error
	snapshot SnapshotResponse
	snapErr  error
}

func (s *stubPeer) ID() string { return s.id }

func (s *stubPeer) RequestStatus() (StatusResponse, error) {
	if !s.statusOK {
		return StatusResponse{}, fmt.Errorf("peer %s unreachable", s.id)
	}
	return s.status, nil
}

func (s *stubPeer) RequestDelta(DeltaRequest) (DeltaResponse, error) {
	return s.delta, s.deltaErr
}

func (s *stubPeer) RequestSnapshot(SnapshotRequest) (SnapshotResponse, error) {
	return s.snapshot, s.snapErr
}

func TestManagerAttemptRespectsCooldown(t *testing.T) {
	l := ledger.NewGenesis("rGenesisAddrForSyncManagerTestOnly000000", 1_000_000)
	m := NewManager(l)
	m.Cooldown = time.Minute

	now := time.Unix(0, 0)
	err := m.Attempt(nil, now, false)
	require.ErrorIs(t, err, ErrNoNewerPeer)

	err = m.Attempt(nil, now.Add(time.Second), false)
	require.ErrorIs(t, err, ErrCooldown)
}

func TestManagerAttemptNoNewerPeer(t *testing.T) {
	l := ledger.NewGenesis("rGenesisAddrForSyncManagerTestOnly000000", 1_000_000)
	m := NewManager(l)

	peer := &stubPeer{id: "p1", statusOK: true, status: StatusResponse{Sequence: 0}}
	err := m.Attempt([]Peer{peer}, time.Unix(0, 0), false)
	require.ErrorIs(t, err, ErrNoNewerPeer)
}

func TestManagerAttemptInstallsDelta(t *testing.T) {
	l := ledger.NewGenesis("rGenesisAddrForSyncManagerTestOnly000000", 1_000_000)
	m := NewManager(l)

	localTip := l.TipHash()
	h1 := header(1, localTip)

	peer := &stubPeer{
		id:       "p1",
		statusOK: true,
		status:   StatusResponse{Sequence: 1, LastHash: h1.Hash()},
		delta: DeltaResponse{
			Headers: []*ledger.LedgerHeader{h1},
			Snapshot: &ledger.Snapshot{
				InitialSupply: l.InitialSupply,
				TotalSupply:   l.TotalSupply,
				FeePool:       l.FeePool,
				Accounts:      map[crypto.Address]*ledger.Account{},
			},
		},
	}

	err := m.Attempt([]Peer{peer}, time.Unix(0, 0), false)
	require.NoError(t, err)
	require.Equal(t, uint32(1), l.CurrentSequence)
}

func TestManagerAttemptBypassesCooldown(t *testing.T) {
	l := ledger.NewGenesis("rGenesisAddrForSyncManagerTestOnly000000", 1_000_000)
	m := NewManager(l)
	m.Cooldown = time.Hour

	now := time.Unix(0, 0)
	_ = m.Attempt(nil, now, false)

	err := m.Attempt(nil, now.Add(time.Second), true)
	require.ErrorIs(t, err, ErrNoNewerPeer) // bypass skips cooldown, still no peer
}
