package dto

import (
	"wfgpos/internal/model"

	"github.com/shopspring/decimal"
)

type GenerateReportRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date"   validate:"required,datetime=2006-01-02"`
}

// PeriodReportResponse is the rolling-window report over orders and expenses.
type PeriodReportResponse struct {
	Period        string                     `json:"period"`
	Start         string                     `json:"start"`
	End           string                     `json:"end"`
	TotalOrders   int                        `json:"total_orders"`
	TotalSales    decimal.Decimal            `json:"total_sales"`
	TotalExpenses decimal.Decimal            `json:"total_expenses"`
	NetProfit     decimal.Decimal            `json:"net_profit"`
	PaymentTypes  map[string]decimal.Decimal `json:"payment_types"`
	Orders        []OrderResponse            `json:"orders"`
	Expenses      []ExpenseResponse          `json:"expenses"`
}

type ReportResponse struct {
	ID             string                     `json:"id"`
	StartDate      string                     `json:"start_date"`
	EndDate        string                     `json:"end_date"`
	Summary        model.ReportSummary        `json:"summary"`
	SalesByManager map[string]decimal.Decimal `json:"sales_by_manager"`
	ProductSummary []model.ProductLine        `json:"product_summary"`
	Sessions       []model.ReportSession      `json:"sessions"`
	GeneratedAt    string                     `json:"generated_at"`
}

// EmployeeStatsQuery is bound from the query string of the employee stats
// routes. StartDate and EndDate (YYYY-MM-DD, inclusive) are only read for
// the custom period.
type EmployeeStatsQuery struct {
	Period    string `form:"period,default=daily" validate:"oneof=daily weekly monthly custom"`
	StartDate string `form:"start_date"           validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"             validate:"omitempty,datetime=2006-01-02"`
	BranchID  string `form:"branch_id"            validate:"omitempty,uuid"`
	Limit     int    `form:"limit,default=5"`
}

// EmployeeSessionStats is what one employee served during one session.
type EmployeeSessionStats struct {
	SessionKey string            `json:"session_key"`
	OpenedAt   string            `json:"opened_at"`
	ClosedAt   *string           `json:"closed_at"`
	Deliveries int               `json:"deliveries"`
	TotalValue decimal.Decimal   `json:"total_value"`
	Orders     []ServerOrderLine `json:"orders"`
}

type EmployeeStats struct {
	EmployeeID      string                 `json:"employee_id"`
	EmployeeName    string                 `json:"employee_name"`
	TotalDeliveries int                    `json:"total_deliveries"`
	TotalValue      decimal.Decimal        `json:"total_value"`
	Sessions        []EmployeeSessionStats `json:"sessions"`
}

// EmployeeStatsResponse ranks serving employees by deliveries, most first.
type EmployeeStatsResponse struct {
	Period          string          `json:"period"`
	Start           string          `json:"start"`
	End             string          `json:"end"`
	TotalEmployees  int             `json:"total_employees"`
	TotalDeliveries int             `json:"total_deliveries"`
	Employees       []EmployeeStats `json:"employees"`
}

// EmployeeStatResponse is the stats of one employee. Found is false when the
// employee served no orders in the window.
type EmployeeStatResponse struct {
	Period   string         `json:"period"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Found    bool           `json:"found"`
	Employee *EmployeeStats `json:"employee,omitempty"`
}
