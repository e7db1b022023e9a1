package repository

import (
	"context"

	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Employee, error)
	ListByRole(ctx context.Context, role string) ([]model.Employee, error)
}

type employeeRepo struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository { return &employeeRepo{db: db} }

func (r *employeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *employeeRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Employee, error) {
	var out []model.Employee
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *employeeRepo) ListByRole(ctx context.Context, role string) ([]model.Employee, error) {
	var out []model.Employee
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("name ASC").Find(&out).Error
	return out, err
}
