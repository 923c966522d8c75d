package node

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexaflow/nxfd/internal/core/consensus"
	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/p2p"
)

// collectionWindow is how long a round group waits for peer PROPOSAL
// messages to arrive before running the round machine against whatever
// it has collected (spec.md §4.4 leaves this operator-tunable; rippled's
// own equivalent is a fixed small multiple of its heartbeat).
const collectionWindow = 2 * time.Second

// consensusLoop drives one round group per cfg.Consensus.RoundInterval
// tick: broadcast this node's own proposal, collect peers', run the round
// machine, and apply the agreed tx-id set at ledger closure (spec.md §4.3,
// §4.4).
func (n *Node) consensusLoop(ctx context.Context) error {
	ticker := time.NewTicker(n.cfg.Consensus.RoundInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.runConsensusRound(ctx)
		}
	}
}

func (n *Node) runConsensusRound(ctx context.Context) {
	start := time.Now()
	targetSeq := n.ledger.CurrentSequence + 1

	self := &consensus.Proposal{
		ValidatorID: n.selfID,
		LedgerSeq:   targetSeq,
		TxIDs:       n.pool.TxIDs(),
		Round:       0,
	}
	if n.keyPair != nil {
		if err := consensus.Sign(self, n.keyPair); err != nil {
			n.log.WithError(err).Warn("failed to sign proposal")
		}
	}
	n.proposals.Add(self)
	n.server.Broadcast(p2p.TypeProposal, p2p.ProposalMsg{Proposal: p2p.ToProposalWire(self)})

	sleepContext(ctx, collectionWindow)
	if ctx.Err() != nil {
		return
	}

	initial := n.proposals.Drain(targetSeq)
	round := n.engine.NewRound(targetSeq, initial)
	result, accepted := round.Run()

	n.metrics.ConsensusRoundDuration.Observe(time.Since(start).Seconds())
	if !accepted {
		n.log.WithField("ledger_seq", targetSeq).Debug("consensus round failed to reach agreement")
		return
	}
	n.metrics.ConsensusRoundsTaken.Observe(float64(result.RoundsTaken))
	n.metrics.ByzantineExcludedTotal.Add(float64(len(result.ByzantineExcluded)))
	for _, id := range result.ByzantineExcluded {
		n.log.WithFields(logrus.Fields{"validator": id, "ledger_seq": targetSeq}).Warn("excluded validator for equivocation or bad signature")
	}

	n.applyAgreedSet(result)
}

func (n *Node) applyAgreedSet(result *consensus.ConsensusResult) {
	type appliedTx struct {
		t      *tx.Transaction
		result tx.Result
	}
	var appliedTxns []appliedTx

	for _, id := range result.AgreedTxIDs {
		transactions := n.pool.Transactions([][32]byte{id})
		if len(transactions) == 0 {
			continue // proposed by a peer but never gossiped to us; skip rather than stall closure
		}
		t := transactions[0]
		code := n.ledger.ApplyTransaction(t)
		n.pool.Remove(id)
		if code != tx.TesSUCCESS {
			n.log.WithFields(logrus.Fields{"code": code.String(), "account": string(t.Account)}).Debug("agreed transaction failed to apply")
		}
		appliedTxns = append(appliedTxns, appliedTx{t: t, result: code})
	}

	header := n.ledger.Close(time.Now().Unix())
	n.metrics.LedgerSequence.Set(float64(header.Sequence))

	txIDs := make([]string, len(result.AgreedTxIDs))
	for i, id := range result.AgreedTxIDs {
		txIDs[i] = hex.EncodeToString(id[:])
	}
	n.server.Broadcast(p2p.TypeConsensusOK, p2p.ConsensusOKMsg{LedgerSeq: header.Sequence, TxIDs: txIDs})

	if n.snapStore == nil {
		return
	}
	ctx := context.Background()
	for _, at := range appliedTxns {
		if err := n.recordTransaction(ctx, header.Sequence, at.t, at.result); err != nil {
			n.log.WithError(err).Warn("failed to record applied transaction")
		}
	}
	if err := n.saveSnapshot(ctx); err != nil {
		n.log.WithError(err).Warn("failed to persist ledger snapshot")
	}
}
