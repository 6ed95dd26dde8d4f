package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/gridironsim/capengine/internal/domain/ledger"
)

// queryer is the common surface of *sqlx.DB and *sqlx.Tx, so every query
// method works identically inside and outside a transaction.
type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Ledger is the postgres-backed ledger.Store. The zero-value db field marks
// a transactional view: InTx on such a view just runs the function in the
// already-open transaction.
type Ledger struct {
	db *sqlx.DB
	q  queryer
}

func NewLedger(db *sqlx.DB) *Ledger {
	return &Ledger{db: db, q: db}
}

var _ ledger.Store = (*Ledger)(nil)

func (l *Ledger) InTx(ctx context.Context, fn func(ctx context.Context, s ledger.Store) error) error {
	if l.db == nil {
		return fn(ctx, l)
	}

	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin ledger transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &Ledger{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit ledger transaction")
	}
	return nil
}
