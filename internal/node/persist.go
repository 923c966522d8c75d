package node

import (
	"context"

	"github.com/nexaflow/nxfd/internal/core/tx"
	"github.com/nexaflow/nxfd/internal/storage/snapshot"
)

// recordTransaction appends one applied transaction's replay blob, when a
// relational store is configured (spec.md §6's at-rest schema).
func (n *Node) recordTransaction(ctx context.Context, ledgerSeq uint32, t *tx.Transaction, result tx.Result) error {
	if n.snapStore == nil {
		return nil
	}
	return snapshot.RecordTransaction(ctx, n.snapStore, ledgerSeq, t, result)
}

// saveSnapshot checkpoints the full ledger state, when a relational store
// is configured. Called after every ledger close; SaveSnapshot's
// replace-wholesale approach (spec.md §6) keeps this correct even at the
// node's modest close cadence.
func (n *Node) saveSnapshot(ctx context.Context) error {
	if n.snapStore == nil {
		return nil
	}
	return snapshot.SaveSnapshot(ctx, n.snapStore, n.ledger.ExportSnapshot())
}
