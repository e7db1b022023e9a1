package service

import (
	"context"
	"strings"

	"wfgpos/internal/apierror"
	"wfgpos/internal/dto"
	"wfgpos/internal/model"
	"wfgpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseService interface {
	AddExpense(ctx context.Context, req dto.AddExpenseRequest) (*dto.ExpenseResponse, error)
	EditExpense(ctx context.Context, id uuid.UUID, req dto.EditExpenseRequest) (*dto.ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
	ListBySession(ctx context.Context, key string) ([]dto.ExpenseResponse, error)
}

type expenseService struct {
	ledger
}

func NewExpenseService(
	sessions repository.RegisterRepository,
	orders repository.OrderRepository,
	expenses repository.ExpenseRepository,
) ExpenseService {
	return &expenseService{ledger: newLedger(sessions, orders, expenses)}
}

func validateExpense(name string, amount decimal.Decimal) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apierror.Validation("expense name is required")
	}
	if err := checkAmount("expense amount", amount); err != nil {
		return "", err
	}
	return name, nil
}

func (s *expenseService) AddExpense(ctx context.Context, req dto.AddExpenseRequest) (*dto.ExpenseResponse, error) {
	name, err := validateExpense(req.Name, req.Amount)
	if err != nil {
		return nil, err
	}

	var e *model.Expense
	err = s.mutate(ctx, req.SessionKey, func(tx *gorm.DB, sess *model.RegisterSession) error {
		e = &model.Expense{
			RegisterSession: sess.SessionKey,
			BranchID:        sess.BranchID,
			Name:            name,
			Amount:          req.Amount,
			DateAdded:       s.now(),
		}
		return s.expenses.Create(ctx, tx, e)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("expense_id", e.ID.String()).
		Str("session_key", e.RegisterSession).
		Str("amount", e.Amount.StringFixed(2)).
		Msg("expense added")

	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) EditExpense(ctx context.Context, id uuid.UUID, req dto.EditExpenseRequest) (*dto.ExpenseResponse, error) {
	name, err := validateExpense(req.Name, req.Amount)
	if err != nil {
		return nil, err
	}
	existing, err := s.expenses.FindByID(ctx, nil, id)
	if err != nil {
		return nil, notFound(err, "Expense not found")
	}

	var e *model.Expense
	err = s.mutate(ctx, existing.RegisterSession, func(tx *gorm.DB, _ *model.RegisterSession) error {
		cur, err := s.expenses.FindByID(ctx, tx, id)
		if err != nil {
			return notFound(err, "Expense not found")
		}
		cur.Name = name
		cur.Amount = req.Amount
		e = cur
		return s.expenses.Update(ctx, tx, cur)
	})
	if err != nil {
		return nil, err
	}
	resp := expenseToResponse(e)
	return &resp, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	existing, err := s.expenses.FindByID(ctx, nil, id)
	if err != nil {
		return notFound(err, "Expense not found")
	}
	err = s.mutate(ctx, existing.RegisterSession, func(tx *gorm.DB, _ *model.RegisterSession) error {
		return notFound(s.expenses.Delete(ctx, tx, id), "Expense not found")
	})
	if err != nil {
		return err
	}
	log.Info().Str("expense_id", id.String()).Msg("expense deleted")
	return nil
}

func (s *expenseService) ListBySession(ctx context.Context, key string) ([]dto.ExpenseResponse, error) {
	expenses, err := s.expenses.ListBySession(ctx, nil, key)
	if err != nil {
		return nil, err
	}
	return expensesToResponse(expenses), nil
}
