package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is an ad-hoc cash outflow recorded against a register session.
type Expense struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegisterSession string          `gorm:"type:varchar(64);index;not null"`
	BranchID        *uuid.UUID      `gorm:"type:uuid;index"`
	Name            string          `gorm:"not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DateAdded       time.Time       `gorm:"index;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
