package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReportSummary holds the headline totals of a date-range report.
type ReportSummary struct {
	TotalSessions       int             `json:"total_sessions"`
	TotalOrders         int             `json:"total_orders"`
	TotalExpenseItems   int             `json:"total_expense_items"`
	TotalSales          decimal.Decimal `json:"total_sales"          gorm:"type:decimal(14,2)"`
	TotalExpenses       decimal.Decimal `json:"total_expenses"       gorm:"type:decimal(14,2)"`
	NetRevenue          decimal.Decimal `json:"net_revenue"          gorm:"type:decimal(14,2)"`
	TotalCashReceived   decimal.Decimal `json:"total_cash_received"  gorm:"type:decimal(14,2)"`
	TotalOnlinePayments decimal.Decimal `json:"total_online_payments" gorm:"type:decimal(14,2)"`
	ExpectedCash        decimal.Decimal `json:"expected_cash"        gorm:"type:decimal(14,2)"`
	ExpectedOnline      decimal.Decimal `json:"expected_online"      gorm:"type:decimal(14,2)"`
	TotalOutstanding    decimal.Decimal `json:"total_outstanding"    gorm:"type:decimal(14,2)"`
	NetCashFlow         decimal.Decimal `json:"net_cash_flow"        gorm:"type:decimal(14,2)"`
}

// ProductLine aggregates sales of one product option.
type ProductLine struct {
	ProductID    string          `json:"product_id"`
	OptionID     string          `json:"option_id"`
	OptionName   string          `json:"option_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// ReportSession is the frozen per-session row inside a report.
type ReportSession struct {
	SessionKey      string           `json:"session_key"`
	Manager         string           `json:"manager"`
	OpenedAt        time.Time        `json:"opened_at"`
	ClosedAt        *time.Time       `json:"closed_at"`
	StartCash       decimal.Decimal  `json:"start_cash"`
	ClosingBalance  *decimal.Decimal `json:"closing_balance"`
	ExpectedBalance decimal.Decimal  `json:"expected_balance"`
	TotalSales      decimal.Decimal  `json:"total_sales"`
	TotalExpenses   decimal.Decimal  `json:"total_expenses"`
	IsOpen          bool             `json:"is_open"`
}

// Report is a persisted date-range snapshot built by the reporting job.
type Report struct {
	ID             uuid.UUID                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StartDate      time.Time                  `gorm:"index;not null"`
	EndDate        time.Time                  `gorm:"not null"`
	Summary        ReportSummary              `gorm:"embedded;embeddedPrefix:sum_"`
	SalesByManager map[string]decimal.Decimal `gorm:"type:jsonb;serializer:json"`
	ProductSummary []ProductLine              `gorm:"type:jsonb;serializer:json"`
	Sessions       []ReportSession            `gorm:"type:jsonb;serializer:json"`
	GeneratedAt    time.Time                  `gorm:"not null"`
	CreatedAt      time.Time
}
