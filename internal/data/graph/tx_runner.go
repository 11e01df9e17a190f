package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/collective-backend/internal/platform/dbctx"
)

type cypherRunner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (neo4j.ResultWithContext, error)
}

type linkTx interface {
	cypherRunner
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type openTxKey struct{}

type openTx struct {
	tx linkTx
}

func openTxFrom(ctx context.Context) *openTx {
	if ctx == nil {
		return nil
	}
	open, _ := ctx.Value(openTxKey{}).(*openTx)
	return open
}

// StoreRunner is the record store's transaction boundary.
type StoreRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// TxRunner opens one explicit neo4j transaction next to each store
// transaction. The store commits first and the links follow, so a reader
// never reaches a link whose target record is not committed yet. A failed
// store transaction rolls the links back with it.
type TxRunner struct {
	inner StoreRunner
	index *LinkIndex
	begin func(ctx context.Context) (linkTx, func(context.Context), error)
}

func NewTxRunner(inner StoreRunner, index *LinkIndex) *TxRunner {
	return &TxRunner{inner: inner, index: index, begin: index.beginTx}
}

func (x *LinkIndex) beginTx(ctx context.Context) (linkTx, func(context.Context), error) {
	if err := x.ready(); err != nil {
		return nil, nil, err
	}
	session := x.session(ctx, neo4j.AccessModeWrite)
	tx, err := session.BeginTransaction(ctx)
	if err != nil {
		_ = session.Close(ctx)
		return nil, nil, err
	}
	return tx, func(ctx context.Context) { _ = session.Close(ctx) }, nil
}

func (r *TxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if openTxFrom(ctx) != nil {
		return r.inner.InTx(ctx, fn)
	}

	tx, closeTx, err := r.begin(ctx)
	if err != nil {
		return fmt.Errorf("neo4j link index: begin: %w", err)
	}
	detached := context.WithoutCancel(ctx)
	defer closeTx(detached)

	if err := r.inner.InTx(context.WithValue(ctx, openTxKey{}, &openTx{tx: tx}), fn); err != nil {
		if rbErr := tx.Rollback(detached); rbErr != nil {
			r.index.log.Warn("neo4j link rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(detached); err != nil {
		r.index.log.Error("neo4j link commit failed after store commit", "error", err)
		return fmt.Errorf("neo4j link index: commit: %w", err)
	}
	return nil
}
