package repository

import (
	"context"
	"time"

	"wfgpos/internal/dto"
	"wfgpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	UpdatePayment(ctx context.Context, tx *gorm.DB, o *model.Order) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Archive(ctx context.Context, tx *gorm.DB, d *model.DeletedOrder) error
	ListBySession(ctx context.Context, tx *gorm.DB, sessionKey string) ([]model.Order, error)
	List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Order, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(r.db, tx).WithContext(ctx).Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := conn(r.db, tx).WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orderRepo) UpdatePayment(ctx context.Context, tx *gorm.DB, o *model.Order) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(o).
		Select("amount_paid", "outstanding_payment", "payment_status").
		Updates(o).Error
}

func (r *orderRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	db := conn(r.db, tx).WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&model.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepo) Archive(ctx context.Context, tx *gorm.DB, d *model.DeletedOrder) error {
	return conn(r.db, tx).WithContext(ctx).Create(d).Error
}

func (r *orderRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionKey string) ([]model.Order, error) {
	var orders []model.Order
	err := conn(r.db, tx).WithContext(ctx).
		Preload("Items").
		Where("register_session = ?", sessionKey).
		Order("date_ordered DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) List(ctx context.Context, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{})

	if filter.SessionKey != "" {
		q = q.Where("register_session = ?", filter.SessionKey)
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "all" {
		q = q.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.PaymentType != "" && filter.PaymentType != "all" {
		q = q.Where("payment_type = ?", filter.PaymentType)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("date_ordered DESC").
		Offset(pageOffset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&orders).Error

	return orders, total, err
}

func (r *orderRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("date_ordered >= ? AND date_ordered < ?", start, end).
		Order("date_ordered DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("date_ordered >= ?", since).
		Count(&n).Error
	return n, err
}
