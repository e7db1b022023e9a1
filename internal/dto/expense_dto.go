package dto

import "github.com/shopspring/decimal"

type AddExpenseRequest struct {
	SessionKey string          `json:"register_session" validate:"required"`
	Name       string          `json:"name"             validate:"required"`
	Amount     decimal.Decimal `json:"amount"           validate:"min=0"`
}

type EditExpenseRequest struct {
	Name   string          `json:"name"   validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"min=0"`
}

type ExpenseResponse struct {
	ID              string          `json:"id"`
	RegisterSession string          `json:"register_session"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	DateAdded       string          `json:"date_added"`
}
