package p2p

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/nexaflow/nxfd/internal/core/ledger"
	coresync "github.com/nexaflow/nxfd/internal/core/sync"
)

// DefaultRequestTimeout bounds a single sync request/response round trip
// over the wire. It is the only timeout on a sync attempt's status
// requests: sync.Manager sends them to one peer after another and applies
// no overall fan-out deadline.
const DefaultRequestTimeout = 5 * time.Second

// SyncPeer adapts one connected Server peer to the core sync package's
// narrow Peer interface, translating between the JSON wire messages
// (spec.md §6) and the core protocol's typed requests/responses.
type SyncPeer struct {
	server *Server
	id     string
	timeout time.Duration
}

// NewSyncPeer wraps a connected peer id for use by sync.Manager.
func NewSyncPeer(server *Server, peerID string) *SyncPeer {
	return &SyncPeer{server: server, id: peerID, timeout: DefaultRequestTimeout}
}

// ID returns the peer's node id.
func (p *SyncPeer) ID() string { return p.id }

// RequestStatus sends SYNC_STATUS_REQ and decodes the SYNC_STATUS_RES reply.
func (p *SyncPeer) RequestStatus() (coresync.StatusResponse, error) {
	env, err := p.server.RequestResponse(p.id, TypeSyncStatusReq, SyncStatusReqMsg{}, TypeSyncStatusRes, p.timeout)
	if err != nil {
		return coresync.StatusResponse{}, err
	}
	var res SyncStatusResMsg
	if err := decodeBody(env, &res); err != nil {
		return coresync.StatusResponse{}, fmt.Errorf("p2p: decode SYNC_STATUS_RES: %w", err)
	}
	hash, err := decodeHash(res.LastHash)
	if err != nil {
		return coresync.StatusResponse{}, fmt.Errorf("p2p: SYNC_STATUS_RES last_hash: %w", err)
	}
	return coresync.StatusResponse{
		PeerID:      p.id,
		Sequence:    res.Sequence,
		LastHash:    hash,
		ClosedCount: res.ClosedCount,
	}, nil
}

// RequestDelta sends SYNC_DELTA_REQ and decodes the embedded snapshot.
func (p *SyncPeer) RequestDelta(req coresync.DeltaRequest) (coresync.DeltaResponse, error) {
	env, err := p.server.RequestResponse(p.id, TypeSyncDeltaReq, SyncDeltaReqMsg{SinceSeq: req.SinceSeq}, TypeSyncDeltaRes, p.timeout)
	if err != nil {
		return coresync.DeltaResponse{}, err
	}
	var res SyncDeltaResMsg
	if err := decodeBody(env, &res); err != nil {
		return coresync.DeltaResponse{}, fmt.Errorf("p2p: decode SYNC_DELTA_RES: %w", err)
	}
	snap, err := ledger.DecodeSnapshot(res.Snapshot)
	if err != nil {
		return coresync.DeltaResponse{}, fmt.Errorf("p2p: decode delta snapshot: %w", err)
	}
	return coresync.DeltaResponse{Headers: snap.Headers, Snapshot: snap}, nil
}

// RequestSnapshot sends SYNC_SNAP_REQ and decodes the (optionally LZ4
// compressed) full-state reply.
func (p *SyncPeer) RequestSnapshot(_ coresync.SnapshotRequest) (coresync.SnapshotResponse, error) {
	env, err := p.server.RequestResponse(p.id, TypeSyncSnapReq, SyncSnapReqMsg{}, TypeSyncSnapRes, p.timeout)
	if err != nil {
		return coresync.SnapshotResponse{}, err
	}
	var res SyncSnapResMsg
	if err := decodeBody(env, &res); err != nil {
		return coresync.SnapshotResponse{}, fmt.Errorf("p2p: decode SYNC_SNAP_RES: %w", err)
	}

	raw, err := DecodeSnapshotMessage(res)
	if err != nil {
		return coresync.SnapshotResponse{}, fmt.Errorf("p2p: decompress snapshot: %w", err)
	}

	snap, err := ledger.DecodeSnapshot(raw)
	if err != nil {
		return coresync.SnapshotResponse{}, fmt.Errorf("p2p: decode snapshot: %w", err)
	}
	return coresync.SnapshotResponse{Headers: snap.Headers, Snapshot: snap}, nil
}

func decodeHash(hexStr string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return out, err
	}
	if len(raw) != 32 {
		return out, fmt.Errorf("expected 32 bytes, got %d", len(raw))
	}
	copy(out[:], raw)
	return out, nil
}
