package service

import (
	"context"
	"errors"
	"time"

	"wfgpos/internal/apierror"
	"wfgpos/internal/model"
	"wfgpos/internal/reconcile"
	"wfgpos/internal/repository"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// txFailure passes classified errors through and wraps anything else that
// aborted a transaction.
func txFailure(err error) error {
	if err == nil {
		return nil
	}
	if apierror.KindOf(err) != apierror.KindInternal {
		return err
	}
	return apierror.Transaction(err)
}

// ledger holds what every session-mutating operation needs: the session
// row lock plus the two ledgers the aggregates are derived from.
type ledger struct {
	db       *gorm.DB
	sessions repository.RegisterRepository
	orders   repository.OrderRepository
	expenses repository.ExpenseRepository
	now      func() time.Time
}

func newLedger(sessions repository.RegisterRepository, orders repository.OrderRepository, expenses repository.ExpenseRepository) ledger {
	return ledger{
		db:       sessions.DB(),
		sessions: sessions,
		orders:   orders,
		expenses: expenses,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// lockOpen locks the session row for the rest of tx and rejects closed
// sessions. Callers must lock before touching the ledger.
func (l *ledger) lockOpen(ctx context.Context, tx *gorm.DB, key string) (*model.RegisterSession, error) {
	s, err := l.sessions.LockByKey(ctx, tx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.NotFound("Register session not found")
	}
	if err != nil {
		return nil, err
	}
	if !s.IsOpen {
		return nil, apierror.InvalidState("Register session is closed")
	}
	return s, nil
}

// reload reads the full ledger of s inside tx and applies fresh totals to s
// without persisting them.
func (l *ledger) reload(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) ([]model.Order, []model.Expense, error) {
	orders, err := l.orders.ListBySession(ctx, tx, s.SessionKey)
	if err != nil {
		return nil, nil, err
	}
	expenses, err := l.expenses.ListBySession(ctx, tx, s.SessionKey)
	if err != nil {
		return nil, nil, err
	}
	reconcile.Compute(s.StartCash, orders, expenses).Apply(s, l.now())
	return orders, expenses, nil
}

// recalculate rewrites the aggregates of a locked, open session.
func (l *ledger) recalculate(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error {
	if _, _, err := l.reload(ctx, tx, s); err != nil {
		return err
	}
	return l.sessions.SaveAggregates(ctx, tx, s)
}

// mutate runs fn against the locked open session identified by key and
// recalculates it, all in one transaction.
func (l *ledger) mutate(ctx context.Context, key string, fn func(tx *gorm.DB, s *model.RegisterSession) error) error {
	err := runTx(ctx, l.db, func(tx *gorm.DB) error {
		s, err := l.lockOpen(ctx, tx, key)
		if err != nil {
			return err
		}
		if err := fn(tx, s); err != nil {
			return err
		}
		return l.recalculate(ctx, tx, s)
	})
	return txFailure(err)
}

func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(msg)
	}
	return err
}
