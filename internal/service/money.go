package service

import (
	"wfgpos/internal/apierror"

	"github.com/shopspring/decimal"
)

// Money columns are decimal(12,2); finer inputs would be rounded column by
// column on write and break amount_paid + outstanding_payment = final_price.

func checkAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return apierror.Validation(field + " must not be negative")
	}
	if !d.Equal(d.Round(2)) {
		return apierror.Validation(field + " must not have more than two decimal places")
	}
	return nil
}

// requireAmount is checkAmount for fields that must be present.
func requireAmount(field string, d *decimal.Decimal) (decimal.Decimal, error) {
	if d == nil {
		return decimal.Zero, apierror.Validation(field + " is required")
	}
	if err := checkAmount(field, *d); err != nil {
		return decimal.Zero, err
	}
	return *d, nil
}
