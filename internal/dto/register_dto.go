package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// StartCash and FinalCash are pointers so that an absent amount is told
// apart from an explicit zero.
type OpenRegisterRequest struct {
	StartCash *decimal.Decimal `json:"start_cash" validate:"required,min=0"`
	ManagerID string           `json:"manager_id" validate:"required,uuid"`
	BranchID  *string          `json:"branch_id"  validate:"omitempty,uuid"`
}

type CloseRegisterRequest struct {
	FinalCash *decimal.Decimal `json:"final_cash" validate:"required,min=0"`
}

// SessionFilter is bound from the query string of GET /v1/register/sessions.
type SessionFilter struct {
	StartDate string `form:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `form:"end_date"`   // YYYY-MM-DD, inclusive
	ManagerID string `form:"manager_id"` // empty or ALL = every manager
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SessionResponse struct {
	ID              string            `json:"id"`
	SessionKey      string            `json:"session_key"`
	Manager         string            `json:"manager"`
	ManagerID       string            `json:"manager_id"`
	CashierID       string            `json:"cashier_id"`
	BranchID        *string           `json:"branch_id"`
	IsOpen          bool              `json:"is_open"`
	OpenedAt        string            `json:"opened_at"`
	ClosedAt        *string           `json:"closed_at"`
	StartCash       decimal.Decimal   `json:"start_cash"`
	OpeningBalance  decimal.Decimal   `json:"opening_balance"`
	ClosingBalance  *decimal.Decimal  `json:"closing_balance"`
	ExpectedBalance decimal.Decimal   `json:"expected_balance"`
	TotalSales      decimal.Decimal   `json:"total_sales"`
	TotalExpenses   decimal.Decimal   `json:"total_expenses"`
	CashRecvd       decimal.Decimal   `json:"cash_recvd"`
	OnlineRecvd     decimal.Decimal   `json:"online_recvd"`
	ExpectedCash    decimal.Decimal   `json:"expected_cash"`
	ExpectedOnline  decimal.Decimal   `json:"expected_online"`
	LastActivity    string            `json:"last_activity"`
	Orders          []OrderResponse   `json:"orders,omitempty"`
	Expenses        []ExpenseResponse `json:"expenses,omitempty"`
}

type StatusResponse struct {
	IsOpen     bool             `json:"is_open"`
	SessionKey string           `json:"session_key,omitempty"`
	Session    *SessionResponse `json:"register,omitempty"`
}

type SessionListResponse struct {
	Data  []SessionResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type ManagerResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// RegisterBrief is one row of CombinedSummaryResponse.Registers.
type RegisterBrief struct {
	SessionKey      string          `json:"session_key"`
	OpenedAt        string          `json:"opened_at"`
	CashierID       string          `json:"cashier_id"`
	StartCash       decimal.Decimal `json:"start_cash"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	ExpectedBalance decimal.Decimal `json:"expected_balance"`
}

// CombinedSummaryResponse merges the stats of one or more open sessions.
type CombinedSummaryResponse struct {
	SessionCount   int               `json:"session_count"`
	OrderCount     int               `json:"order_count"`
	TotalSales     decimal.Decimal   `json:"total_sales"`
	CashRecvd      decimal.Decimal   `json:"cash_recvd"`
	OnlineRecvd    decimal.Decimal   `json:"online_recvd"`
	ExpectedCash   decimal.Decimal   `json:"expected_cash"`
	ExpectedOnline decimal.Decimal   `json:"expected_online"`
	TotalExpenses  decimal.Decimal   `json:"total_expenses"`
	StartCash      decimal.Decimal   `json:"start_cash"`
	OpeningBalance decimal.Decimal   `json:"opening_balance"`
	ClosingBalance decimal.Decimal   `json:"closing_balance"`
	Orders         []OrderResponse   `json:"orders"`
	Expenses       []ExpenseResponse `json:"expenses"`
	Registers      []RegisterBrief   `json:"registers"`
}
