package reconcile

import (
	"sort"
	"time"

	"wfgpos/internal/model"

	"github.com/shopspring/decimal"
)

// ItemSummary aggregates one product option across a session's orders.
type ItemSummary struct {
	ProductID  string          `json:"product_id"`
	OptionID   string          `json:"option_id"`
	OptionName string          `json:"option_name"`
	CategoryID string          `json:"category_id"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// CategorySummary aggregates one category across a session's orders.
type CategorySummary struct {
	CategoryID string          `json:"category_id"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type ExpenseLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DaySummary is the close-of-session payload handed to the notifier.
// Item and category revenue are line totals before order discounts;
// TotalSales is after discounts.
type DaySummary struct {
	SessionKey       string            `json:"session_key"`
	BusinessName     string            `json:"business_name"`
	BusinessEmail    string            `json:"business_email"`
	Manager          string            `json:"manager"`
	CashierID        string            `json:"cashier_id"`
	OpenedAt         time.Time         `json:"opened_at"`
	ClosedAt         *time.Time        `json:"closed_at"`
	StartCash        decimal.Decimal   `json:"start_cash"`
	ClosingBalance   *decimal.Decimal  `json:"closing_balance"`
	ExpectedBalance  decimal.Decimal   `json:"expected_balance"`
	TotalSales       decimal.Decimal   `json:"total_sales"`
	TotalDiscount    decimal.Decimal   `json:"total_discount"`
	TotalExpenses    decimal.Decimal   `json:"total_expenses"`
	CashRecvd        decimal.Decimal   `json:"cash_recvd"`
	OnlineRecvd      decimal.Decimal   `json:"online_recvd"`
	ExpectedCash     decimal.Decimal   `json:"expected_cash"`
	ExpectedOnline   decimal.Decimal   `json:"expected_online"`
	TotalOutstanding decimal.Decimal   `json:"total_outstanding"`
	OrderCount       int               `json:"order_count"`
	Items            []ItemSummary     `json:"items"`
	Categories       []CategorySummary `json:"categories"`
	Expenses         []ExpenseLine     `json:"expenses"`
}

// Summarize builds the day summary of a session from its ledger. Totals are
// recomputed here rather than read from the session row.
func Summarize(s *model.RegisterSession, orders []model.Order, expenses []model.Expense) DaySummary {
	t := Compute(s.StartCash, orders, expenses)

	items := map[string]*ItemSummary{}
	cats := map[string]*CategorySummary{}
	discount := decimal.Zero
	for _, o := range orders {
		discount = discount.Add(o.Discount)
		for _, it := range o.Items {
			key := it.ProductID.String() + "/" + it.OptionID.String()
			is, ok := items[key]
			if !ok {
				is = &ItemSummary{
					ProductID:  it.ProductID.String(),
					OptionID:   it.OptionID.String(),
					OptionName: it.OptionName,
					CategoryID: it.CategoryID.String(),
					Revenue:    decimal.Zero,
				}
				items[key] = is
			}
			is.Quantity += it.Quantity
			is.Revenue = is.Revenue.Add(it.TotalPrice)

			cs, ok := cats[it.CategoryID.String()]
			if !ok {
				cs = &CategorySummary{CategoryID: it.CategoryID.String(), Revenue: decimal.Zero}
				cats[it.CategoryID.String()] = cs
			}
			cs.Quantity += it.Quantity
			cs.Revenue = cs.Revenue.Add(it.TotalPrice)
		}
	}

	sum := DaySummary{
		SessionKey:       s.SessionKey,
		Manager:          s.ManagerName,
		CashierID:        s.CashierID.String(),
		OpenedAt:         s.OpenedAt,
		ClosedAt:         s.ClosedAt,
		StartCash:        s.StartCash,
		ClosingBalance:   s.ClosingBalance,
		ExpectedBalance:  t.ExpectedBalance,
		TotalSales:       t.TotalSales,
		TotalDiscount:    discount,
		TotalExpenses:    t.TotalExpenses,
		CashRecvd:        t.CashRecvd,
		OnlineRecvd:      t.OnlineRecvd,
		ExpectedCash:     t.ExpectedCash,
		ExpectedOnline:   t.ExpectedOnline,
		TotalOutstanding: t.TotalOutstanding,
		OrderCount:       t.OrderCount,
		Items:            make([]ItemSummary, 0, len(items)),
		Categories:       make([]CategorySummary, 0, len(cats)),
		Expenses:         make([]ExpenseLine, 0, len(expenses)),
	}
	for _, is := range items {
		sum.Items = append(sum.Items, *is)
	}
	for _, cs := range cats {
		sum.Categories = append(sum.Categories, *cs)
	}
	for _, e := range expenses {
		sum.Expenses = append(sum.Expenses, ExpenseLine{Name: e.Name, Amount: e.Amount})
	}

	sort.Slice(sum.Items, func(i, j int) bool {
		a, b := sum.Items[i], sum.Items[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.OptionName < b.OptionName
	})
	sort.Slice(sum.Categories, func(i, j int) bool {
		a, b := sum.Categories[i], sum.Categories[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.CategoryID < b.CategoryID
	})
	return sum
}
