package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	CategoryID string          `json:"category_id" validate:"required,uuid"`
	ProductID  string          `json:"product_id"  validate:"required,uuid"`
	OptionID   string          `json:"option_id"   validate:"required,uuid"`
	OptionName string          `json:"option_name" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"  validate:"min=0"`
	Quantity   int             `json:"quantity"    validate:"required,min=1"`
}

type CreateOrderRequest struct {
	SessionKey  string             `json:"register_session" validate:"required"`
	Items       []OrderItemRequest `json:"items"            validate:"required,min=1,dive"`
	Discount    decimal.Decimal    `json:"discount"         validate:"min=0"`
	PaymentType string             `json:"payment_type"     validate:"required,oneof=cash online"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"      validate:"min=0"`
	ServerID    *string            `json:"server_id"        validate:"omitempty,uuid"`
	BranchID    *string            `json:"branch_id"        validate:"omitempty,uuid"`
}

type ApplyPaymentRequest struct {
	AmountReceived decimal.Decimal `json:"amount_received" validate:"gt=0"`
}

type DeleteOrderRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// OrderFilter is bound from the query string of GET /v1/orders.
type OrderFilter struct {
	SessionKey    string `form:"register_session"`
	PaymentStatus string `form:"payment_status"` // pending | paid | empty
	PaymentType   string `form:"payment_type"`   // cash | online | empty
	Page          int    `form:"page,default=1"`
	Limit         int    `form:"limit,default=50"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	CategoryID string          `json:"category_id"`
	ProductID  string          `json:"product_id"`
	OptionID   string          `json:"option_id"`
	OptionName string          `json:"option_name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderResponse struct {
	ID                 string              `json:"id"`
	RegisterSession    string              `json:"register_session"`
	CashierID          string              `json:"cashier_id"`
	ServerID           *string             `json:"server_id"`
	BranchID           *string             `json:"branch_id"`
	Items              []OrderItemResponse `json:"items"`
	Discount           decimal.Decimal     `json:"discount"`
	PaymentType        string              `json:"payment_type"`
	ActualPrice        decimal.Decimal     `json:"actual_price"`
	FinalPrice         decimal.Decimal     `json:"final_price"`
	PaymentStatus      string              `json:"payment_status"`
	OutstandingPayment decimal.Decimal     `json:"outstanding_payment"`
	AmountPaid         decimal.Decimal     `json:"amount_paid"`
	DateOrdered        string              `json:"date_ordered"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// SessionStatsResponse is the live sales aggregate of one session.
type SessionStatsResponse struct {
	CashRecvd           decimal.Decimal `json:"cash_recvd"`
	OnlineRecvd         decimal.Decimal `json:"online_recvd"`
	ExpectedCash        decimal.Decimal `json:"expected_cash"`
	ExpectedOnline      decimal.Decimal `json:"expected_online"`
	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalPendingPayment decimal.Decimal `json:"total_pending_payment"`
	OrderCount          int             `json:"order_count"`
}

type ServerOrderLine struct {
	ID          string          `json:"id"`
	DateOrdered string          `json:"date_ordered"`
	FinalPrice  decimal.Decimal `json:"final_price"`
}

// ServerOrdersResponse groups the orders of a session by serving employee.
// ServerID is nil for orders without a server.
type ServerOrdersResponse struct {
	ServerID   *string           `json:"server_id"`
	ServerName string            `json:"server_name"`
	OrderCount int               `json:"order_count"`
	TotalValue decimal.Decimal   `json:"total_value"`
	Orders     []ServerOrderLine `json:"orders"`
}

// OrderCountResponse is the number of orders taken since the caller's
// register opened.
type OrderCountResponse struct {
	SessionKey string `json:"session_key"`
	Since      string `json:"since"`
	Count      int64  `json:"count"`
}
