package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	dErrors "casenotes/pkg/domain-errors"
	txcontext "casenotes/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// postgresTx runs service callbacks inside one database transaction. The
// transaction travels in the context, so every store call the callback makes
// joins it.
type postgresTx struct {
	db      *sqlx.DB
	timeout time.Duration
}

func newPostgresTx(db *sqlx.DB) *postgresTx {
	return &postgresTx{db: db}
}

func (t *postgresTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		return err
	}

	return tx.Commit()
}
