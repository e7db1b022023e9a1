// Package reconcile computes register session aggregates from ledger rows.
//
// Everything here is pure: callers load the orders and expenses linked to a
// session and apply the result. Aggregates are always recomputed from the
// full ledger, never adjusted by deltas.
package reconcile

import (
	"time"

	"wfgpos/internal/model"

	"github.com/shopspring/decimal"
)

// Totals are the session aggregates derived from its ledger.
type Totals struct {
	TotalSales       decimal.Decimal
	TotalExpenses    decimal.Decimal
	CashRecvd        decimal.Decimal
	OnlineRecvd      decimal.Decimal
	ExpectedCash     decimal.Decimal
	ExpectedOnline   decimal.Decimal
	ExpectedBalance  decimal.Decimal
	TotalOutstanding decimal.Decimal
	OrderCount       int
	ExpenseCount     int
}

// Compute partitions orders by payment type and sums the ledger.
// ExpectedBalance is startCash + ExpectedCash - TotalExpenses: it is based
// on the face value of cash orders, so uncollected cash shows up as a gap
// between CashRecvd and ExpectedCash at close.
func Compute(startCash decimal.Decimal, orders []model.Order, expenses []model.Expense) Totals {
	t := Totals{
		TotalSales:       decimal.Zero,
		TotalExpenses:    decimal.Zero,
		CashRecvd:        decimal.Zero,
		OnlineRecvd:      decimal.Zero,
		ExpectedCash:     decimal.Zero,
		ExpectedOnline:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
		OrderCount:       len(orders),
		ExpenseCount:     len(expenses),
	}
	for _, o := range orders {
		switch o.PaymentType {
		case model.PaymentCash:
			t.CashRecvd = t.CashRecvd.Add(o.AmountPaid)
			t.ExpectedCash = t.ExpectedCash.Add(o.FinalPrice)
		case model.PaymentOnline:
			t.OnlineRecvd = t.OnlineRecvd.Add(o.AmountPaid)
			t.ExpectedOnline = t.ExpectedOnline.Add(o.FinalPrice)
		}
		t.TotalSales = t.TotalSales.Add(o.FinalPrice)
		t.TotalOutstanding = t.TotalOutstanding.Add(o.OutstandingPayment)
	}
	for _, e := range expenses {
		t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
	}
	t.ExpectedBalance = startCash.Add(t.ExpectedCash).Sub(t.TotalExpenses)
	return t
}

// Apply writes the totals onto the session and stamps its activity time.
func (t Totals) Apply(s *model.RegisterSession, now time.Time) {
	s.TotalSales = t.TotalSales
	s.TotalExpenses = t.TotalExpenses
	s.CashRecvd = t.CashRecvd
	s.OnlineRecvd = t.OnlineRecvd
	s.ExpectedCash = t.ExpectedCash
	s.ExpectedOnline = t.ExpectedOnline
	s.ExpectedBalance = t.ExpectedBalance
	s.LastActivity = now
}
