package repository

import (
	"context"

	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
}

type businessRepo struct{ db *gorm.DB }

func NewBusinessRepository(db *gorm.DB) BusinessRepository { return &businessRepo{db: db} }

func (r *businessRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var b model.Business
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	return &b, err
}
