package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment types.
const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// Order is a single sale captured against a register session.
// RegisterSession holds the session key, not the session row id.
type Order struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegisterSession    string          `gorm:"type:varchar(64);index;not null"`
	CashierID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ServerID           *uuid.UUID      `gorm:"type:uuid;index"`
	BranchID           *uuid.UUID      `gorm:"type:uuid;index"`
	Discount           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentType        string          `gorm:"type:varchar(10);not null"`
	ActualPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FinalPrice         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentStatus      string          `gorm:"type:varchar(10);not null;default:'pending'"`
	OutstandingPayment decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AmountPaid         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DateOrdered        time.Time       `gorm:"index;not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one priced line of an Order. Catalog references are trusted
// as received; prices are captured at sale time.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	CategoryID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	OptionID   uuid.UUID       `gorm:"type:uuid;not null"`
	OptionName string          `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// Settle enforces the payment invariants: AmountPaid never exceeds
// FinalPrice, AmountPaid + OutstandingPayment == FinalPrice, and the order is
// paid iff nothing is outstanding.
func (o *Order) Settle() {
	if o.AmountPaid.GreaterThan(o.FinalPrice) {
		o.AmountPaid = o.FinalPrice
	}
	o.OutstandingPayment = o.FinalPrice.Sub(o.AmountPaid)
	if o.OutstandingPayment.LessThanOrEqual(decimal.Zero) {
		o.PaymentStatus = PaymentPaid
	} else {
		o.PaymentStatus = PaymentPending
	}
}

// BeforeSave keeps the payment fields consistent on every write.
func (o *Order) BeforeSave(_ *gorm.DB) error {
	o.Settle()
	return nil
}

// DeletedOrder is the audit copy of an order removed by a privileged user.
type DeletedOrder struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalOrderID uuid.UUID       `gorm:"type:uuid;index;not null"`
	RegisterSession string          `gorm:"type:varchar(64);index;not null"`
	CashierID       uuid.UUID       `gorm:"type:uuid"`
	ServerID        *uuid.UUID      `gorm:"type:uuid"`
	BranchID        *uuid.UUID      `gorm:"type:uuid"`
	Items           []OrderItem     `gorm:"type:jsonb;serializer:json"`
	Discount        decimal.Decimal `gorm:"type:decimal(12,2)"`
	PaymentType     string          `gorm:"type:varchar(10)"`
	ActualPrice     decimal.Decimal `gorm:"type:decimal(12,2)"`
	FinalPrice      decimal.Decimal `gorm:"type:decimal(12,2)"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(12,2)"`
	PaymentStatus   string          `gorm:"type:varchar(10)"`
	DateOrdered     time.Time
	DeletedAt       time.Time `gorm:"not null"`
	DeletedBy       uuid.UUID `gorm:"type:uuid;not null"`
	DeleteReason    string    `gorm:"not null"`
	CreatedAt       time.Time
}

func (DeletedOrder) TableName() string { return "deleted_orders" }
