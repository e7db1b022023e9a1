package repository

import (
	"context"
	"strings"
	"time"

	"wfgpos/internal/dto"
	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterRepository interface {
	Create(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error
	FindOpenByCashier(ctx context.Context, tx *gorm.DB, cashierID uuid.UUID) (*model.RegisterSession, error)
	FindByKey(ctx context.Context, key string, withLedger bool) (*model.RegisterSession, error)
	// LockByKey loads the session row with SELECT … FOR UPDATE. It must run
	// inside a transaction; the lock is held until commit or rollback.
	LockByKey(ctx context.Context, tx *gorm.DB, key string) (*model.RegisterSession, error)
	SaveAggregates(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error
	SaveClose(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter dto.SessionFilter) ([]model.RegisterSession, int64, error)
	ListOpen(ctx context.Context, managerID *uuid.UUID) ([]model.RegisterSession, error)
	ListOpenedBetween(ctx context.Context, start, end time.Time) ([]model.RegisterSession, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type registerRepo struct{ db *gorm.DB }

func NewRegisterRepository(db *gorm.DB) RegisterRepository { return &registerRepo{db: db} }

func (r *registerRepo) DB() *gorm.DB { return r.db }

func (r *registerRepo) Create(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error {
	return conn(r.db, tx).WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *registerRepo) FindOpenByCashier(ctx context.Context, tx *gorm.DB, cashierID uuid.UUID) (*model.RegisterSession, error) {
	var s model.RegisterSession
	err := conn(r.db, tx).WithContext(ctx).
		Where("cashier_id = ? AND is_open = true", cashierID).
		First(&s).Error
	return &s, err
}

func (r *registerRepo) FindByKey(ctx context.Context, key string, withLedger bool) (*model.RegisterSession, error) {
	var s model.RegisterSession
	q := r.db.WithContext(ctx)
	if withLedger {
		q = preloadLedger(q)
	}
	err := q.Where("session_key = ?", key).First(&s).Error
	return &s, err
}

func (r *registerRepo) LockByKey(ctx context.Context, tx *gorm.DB, key string) (*model.RegisterSession, error) {
	var s model.RegisterSession
	err := conn(r.db, tx).WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_key = ?", key).
		First(&s).Error
	return &s, err
}

var aggregateColumns = []string{
	"total_sales", "total_expenses", "cash_recvd", "online_recvd",
	"expected_cash", "expected_online", "expected_balance", "last_activity",
}

// SaveAggregates writes only the reconciliation columns of s.
func (r *registerRepo) SaveAggregates(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(s).
		Select(aggregateColumns).
		Updates(s).Error
}

// SaveClose writes the aggregates plus the closing fields of s.
func (r *registerRepo) SaveClose(ctx context.Context, tx *gorm.DB, s *model.RegisterSession) error {
	cols := append([]string{"is_open", "closed_at", "closing_balance"}, aggregateColumns...)
	return conn(r.db, tx).WithContext(ctx).
		Model(s).
		Select(cols).
		Updates(s).Error
}

func (r *registerRepo) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.RegisterSession{}).
		Where("id = ? AND is_open = true", id).
		Update("last_activity", at).Error
}

func (r *registerRepo) List(ctx context.Context, filter dto.SessionFilter) ([]model.RegisterSession, int64, error) {
	var sessions []model.RegisterSession
	var total int64

	q := r.db.WithContext(ctx).Model(&model.RegisterSession{})

	if filter.StartDate != "" {
		q = q.Where("DATE(opened_at) >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("DATE(opened_at) <= ?", filter.EndDate)
	}
	if filter.ManagerID != "" && !strings.EqualFold(filter.ManagerID, "all") {
		q = q.Where("manager_id = ?", filter.ManagerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("opened_at DESC").
		Offset(pageOffset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&sessions).Error

	return sessions, total, err
}

func (r *registerRepo) ListOpen(ctx context.Context, managerID *uuid.UUID) ([]model.RegisterSession, error) {
	var sessions []model.RegisterSession
	q := preloadLedger(r.db.WithContext(ctx)).Where("is_open = true")
	if managerID != nil {
		q = q.Where("manager_id = ?", *managerID)
	}
	err := q.Order("opened_at ASC").Find(&sessions).Error
	return sessions, err
}

func (r *registerRepo) ListOpenedBetween(ctx context.Context, start, end time.Time) ([]model.RegisterSession, error) {
	var sessions []model.RegisterSession
	err := preloadLedger(r.db.WithContext(ctx)).
		Where("opened_at >= ? AND opened_at < ?", start, end).
		Order("opened_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func preloadLedger(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("date_ordered DESC") }).
		Preload("Orders.Items").
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("date_added DESC") })
}
