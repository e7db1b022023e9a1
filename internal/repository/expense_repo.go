package repository

import (
	"context"
	"time"

	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, e *model.Expense) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, tx *gorm.DB, e *model.Expense) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListBySession(ctx context.Context, tx *gorm.DB, sessionKey string) ([]model.Expense, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Expense, error)
}

type expenseRepo struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) ExpenseRepository { return &expenseRepo{db: db} }

func (r *expenseRepo) Create(ctx context.Context, tx *gorm.DB, e *model.Expense) error {
	return conn(r.db, tx).WithContext(ctx).Create(e).Error
}

func (r *expenseRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Expense, error) {
	var e model.Expense
	err := conn(r.db, tx).WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *expenseRepo) Update(ctx context.Context, tx *gorm.DB, e *model.Expense) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(e).
		Select("name", "amount").
		Updates(e).Error
}

func (r *expenseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	res := conn(r.db, tx).WithContext(ctx).Where("id = ?", id).Delete(&model.Expense{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *expenseRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionKey string) ([]model.Expense, error) {
	var expenses []model.Expense
	err := conn(r.db, tx).WithContext(ctx).
		Where("register_session = ?", sessionKey).
		Order("date_added DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.WithContext(ctx).
		Where("date_added >= ? AND date_added < ?", start, end).
		Order("date_added DESC").
		Find(&expenses).Error
	return expenses, err
}
