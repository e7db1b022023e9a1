package repository

import (
	"context"
	"time"

	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, r *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	// FindByRange returns gorm.ErrRecordNotFound when no report covers
	// exactly [start, end).
	FindByRange(ctx context.Context, start, end time.Time) (*model.Report, error)
	List(ctx context.Context, limit int) ([]model.Report, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) Create(ctx context.Context, rep *model.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *reportRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error
	return &rep, err
}

func (r *reportRepo) FindByRange(ctx context.Context, start, end time.Time) (*model.Report, error) {
	var rep model.Report
	err := r.db.WithContext(ctx).
		Where("start_date = ? AND end_date = ?", start, end).
		Order("generated_at DESC").
		First(&rep).Error
	return &rep, err
}

func (r *reportRepo) List(ctx context.Context, limit int) ([]model.Report, error) {
	var reps []model.Report
	err := r.db.WithContext(ctx).Order("generated_at DESC").Limit(limit).Find(&reps).Error
	return reps, err
}
