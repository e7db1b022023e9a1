package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterSession is a cashier's till-open-to-till-close period.
//
// The aggregate columns (TotalSales … ExpectedBalance) are written only by
// the reconciliation pass; they are never incremented in place. Orders and
// Expenses reference the session through SessionKey, so the ledger rows
// themselves are the session's reference lists.
type RegisterSession struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionKey  string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	ManagerID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	ManagerName string     `gorm:"not null"`
	CashierID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	BranchID    *uuid.UUID `gorm:"type:uuid;index"`
	BusinessID  *uuid.UUID `gorm:"type:uuid;index"`
	IsOpen      bool       `gorm:"not null;default:false;index"`
	OpenedAt    time.Time  `gorm:"index;not null"`
	ClosedAt    *time.Time

	StartCash      decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	OpeningBalance decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`

	ExpectedBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSales      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalExpenses   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CashRecvd       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OnlineRecvd     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedCash    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ExpectedOnline  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	LastActivity time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Orders   []Order   `gorm:"foreignKey:RegisterSession;references:SessionKey"`
	Expenses []Expense `gorm:"foreignKey:RegisterSession;references:SessionKey"`
}
