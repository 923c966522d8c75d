package node

import (
	"encoding/hex"
	"encoding/json"

	"github.com/nexaflow/nxfd/internal/core/ledger"
	"github.com/nexaflow/nxfd/internal/p2p"
)

// registerHandlers wires every inbound message kind spec.md §6 defines to
// its processing logic. Every handler returns a non-nil error only for
// logging purposes — package p2p's Dispatcher already isolates a bad or
// malicious peer from poisoning other handlers (spec.md §7), so handlers
// here never panic on attacker-controlled input; they return early on
// anything malformed.
func (n *Node) registerHandlers() {
	n.dispatcher.On(p2p.TypeHello, n.handleHello)
	n.dispatcher.On(p2p.TypePeers, n.handlePeers)
	n.dispatcher.On(p2p.TypeTx, n.handleTx)
	n.dispatcher.On(p2p.TypeProposal, n.handleProposal)
	n.dispatcher.On(p2p.TypePing, n.handlePing)
	n.dispatcher.On(p2p.TypeLedgerReq, n.handleLedgerReq)
	n.dispatcher.On(p2p.TypeSyncStatusReq, n.handleSyncStatusReq)
	n.dispatcher.On(p2p.TypeSyncDeltaReq, n.handleSyncDeltaReq)
	n.dispatcher.On(p2p.TypeSyncSnapReq, n.handleSyncSnapReq)
}

func (n *Node) handleHello(peerID string, env p2p.Envelope) error {
	// The server already renamed the peer handle by the time dispatch
	// runs; nothing further to do beyond an optional log line.
	n.log.WithField("peer", peerID).Debug("received HELLO")
	return nil
}

func (n *Node) handlePeers(peerID string, env p2p.Envelope) error {
	var msg p2p.PeersMsg
	if err := decodeEnvelope(env, &msg); err != nil {
		return err
	}
	routable := p2p.FilterAddresses(msg.Addresses)
	for _, addr := range routable {
		conn, err := n.server.Dial(addr)
		if err != nil {
			continue // unreachable or already connected; gossip is best-effort
		}
		_ = conn.Send(p2p.TypeHello, p2p.HelloMsg{NodeID: n.selfID})
	}
	return nil
}

func (n *Node) handleTx(peerID string, env p2p.Envelope) error {
	var msg p2p.TxMsg
	if err := decodeEnvelope(env, &msg); err != nil {
		return err
	}
	t := p2p.FromWire(msg.Tx)

	code, _ := n.pool.Admit(t)
	if code.Succeeded() {
		n.metrics.TxPoolAdmitted.Inc()
		n.metrics.TxPoolSize.Set(float64(n.pool.Len()))
		n.server.Broadcast(p2p.TypeTx, msg)
	} else {
		n.metrics.TxPoolRejected.Inc()
	}
	return nil
}

func (n *Node) handleProposal(peerID string, env p2p.Envelope) error {
	var msg p2p.ProposalMsg
	if err := decodeEnvelope(env, &msg); err != nil {
		return err
	}
	n.proposals.Add(p2p.FromProposalWire(msg.Proposal))
	return nil
}

func (n *Node) handlePing(peerID string, env p2p.Envelope) error {
	n.server.Send(peerID, p2p.TypePong, p2p.PongMsg{})
	return nil
}

// handleLedgerReq serves the backward-compatible full-snapshot request
// older peers send (spec.md §4.6: "older peers use LEDGER_REQ/LEDGER_RES;
// the sync manager serves these by producing a full snapshot").
func (n *Node) handleLedgerReq(peerID string, env p2p.Envelope) error {
	raw, err := ledger.EncodeSnapshot(n.ledger.ExportSnapshot())
	if err != nil {
		return err
	}
	n.server.Send(peerID, p2p.TypeLedgerRes, p2p.LedgerResMsg{Snapshot: raw})
	return nil
}

func (n *Node) handleSyncStatusReq(peerID string, env p2p.Envelope) error {
	tip := n.ledger.TipHash()
	n.server.Send(peerID, p2p.TypeSyncStatusRes, p2p.SyncStatusResMsg{
		Sequence:    n.ledger.CurrentSequence,
		LastHash:    hex.EncodeToString(tip[:]),
		ClosedCount: uint32(len(n.ledger.ClosedLedgers)),
	})
	return nil
}

func (n *Node) handleSyncDeltaReq(peerID string, env p2p.Envelope) error {
	var msg p2p.SyncDeltaReqMsg
	if err := decodeEnvelope(env, &msg); err != nil {
		return err
	}
	raw, err := ledger.EncodeSnapshot(n.ledger.ExportDelta(msg.SinceSeq))
	if err != nil {
		return err
	}
	n.server.Send(peerID, p2p.TypeSyncDeltaRes, p2p.SyncDeltaResMsg{Snapshot: raw})
	return nil
}

func (n *Node) handleSyncSnapReq(peerID string, env p2p.Envelope) error {
	raw, err := ledger.EncodeSnapshot(n.ledger.ExportSnapshot())
	if err != nil {
		return err
	}
	n.server.Send(peerID, p2p.TypeSyncSnapRes, p2p.EncodeSnapshotMessage(raw))
	return nil
}

// decodeEnvelope unmarshals an envelope's body into out. p2p's own
// decodeBody helper is unexported, so handlers here decode directly
// against the envelope's raw JSON body.
func decodeEnvelope(env p2p.Envelope, out interface{}) error {
	if len(env.Body) == 0 {
		return nil
	}
	return json.Unmarshal(env.Body, out)
}
