package reconcile

import (
	"testing"
	"time"

	"wfgpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func order(pt string, final, paid int64) model.Order {
	o := model.Order{PaymentType: pt, FinalPrice: d(final), AmountPaid: d(paid)}
	o.Settle()
	return o
}

func assertDec(t *testing.T, want int64, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: want %d, got %s", field, want, got)
}

func TestComputeScenario(t *testing.T) {
	orders := []model.Order{
		order(model.PaymentCash, 50, 50),
		order(model.PaymentOnline, 30, 30),
	}
	expenses := []model.Expense{{Name: "ice", Amount: d(20)}}

	got := Compute(d(100), orders, expenses)

	assertDec(t, 80, got.TotalSales, "total sales")
	assertDec(t, 20, got.TotalExpenses, "total expenses")
	assertDec(t, 50, got.ExpectedCash, "expected cash")
	assertDec(t, 30, got.ExpectedOnline, "expected online")
	assertDec(t, 50, got.CashRecvd, "cash recvd")
	assertDec(t, 30, got.OnlineRecvd, "online recvd")
	assertDec(t, 130, got.ExpectedBalance, "expected balance")
	assert.Equal(t, 2, got.OrderCount)
	assert.Equal(t, 1, got.ExpenseCount)
}

func TestExpectedCashUsesFaceValue(t *testing.T) {
	orders := []model.Order{order(model.PaymentCash, 50, 20)}

	got := Compute(d(10), orders, nil)

	assertDec(t, 50, got.ExpectedCash, "expected cash")
	assertDec(t, 20, got.CashRecvd, "cash recvd")
	assertDec(t, 30, got.TotalOutstanding, "outstanding")
	assertDec(t, 60, got.ExpectedBalance, "expected balance")
}

func TestComputeEmptyLedger(t *testing.T) {
	got := Compute(d(100), nil, nil)

	assertDec(t, 0, got.TotalSales, "total sales")
	assertDec(t, 100, got.ExpectedBalance, "expected balance")
}

func TestComputeIsIdempotent(t *testing.T) {
	orders := []model.Order{order(model.PaymentCash, 12, 0), order(model.PaymentOnline, 7, 7)}
	expenses := []model.Expense{{Amount: d(3)}, {Amount: d(4)}}

	first := Compute(d(5), orders, expenses)
	second := Compute(d(5), orders, expenses)

	assert.Equal(t, first, second)
}

func TestApplyOverwritesAggregates(t *testing.T) {
	s := &model.RegisterSession{StartCash: d(100), TotalSales: d(999), ExpectedCash: d(999)}
	now := time.Now()

	Compute(s.StartCash, []model.Order{order(model.PaymentCash, 10, 10)}, nil).Apply(s, now)

	assertDec(t, 10, s.TotalSales, "total sales")
	assertDec(t, 10, s.ExpectedCash, "expected cash")
	assertDec(t, 110, s.ExpectedBalance, "expected balance")
	assert.Equal(t, now, s.LastActivity)
}

func TestSummarizeGroupsItemsAndCategories(t *testing.T) {
	drinks, food := uuid.New(), uuid.New()
	cola, burger := uuid.New(), uuid.New()
	colaOpt, burgerOpt := uuid.New(), uuid.New()

	line := func(cat, prod, opt uuid.UUID, name string, price int64, qty int) model.OrderItem {
		return model.OrderItem{
			CategoryID: cat, ProductID: prod, OptionID: opt, OptionName: name,
			UnitPrice: d(price), Quantity: qty, TotalPrice: d(price * int64(qty)),
		}
	}
	o1 := order(model.PaymentCash, 25, 25)
	o1.Items = []model.OrderItem{line(drinks, cola, colaOpt, "Cola 500ml", 5, 1), line(food, burger, burgerOpt, "Burger", 20, 1)}
	o2 := order(model.PaymentOnline, 10, 10)
	o2.Items = []model.OrderItem{line(drinks, cola, colaOpt, "Cola 500ml", 5, 2)}

	s := &model.RegisterSession{SessionKey: "k", StartCash: d(50), ManagerName: "Talal"}
	sum := Summarize(s, []model.Order{o1, o2}, []model.Expense{{Name: "gas", Amount: d(5)}})

	assert.Equal(t, "k", sum.SessionKey)
	assert.Equal(t, 2, sum.OrderCount)
	assertDec(t, 35, sum.TotalSales, "total sales")
	assertDec(t, 70, sum.ExpectedBalance, "expected balance")

	if assert.Len(t, sum.Items, 2) {
		assert.Equal(t, "Burger", sum.Items[0].OptionName)
		assert.Equal(t, 3, sum.Items[1].Quantity)
		assertDec(t, 15, sum.Items[1].Revenue, "cola revenue")
	}
	if assert.Len(t, sum.Categories, 2) {
		assert.Equal(t, food.String(), sum.Categories[0].CategoryID)
		assert.Equal(t, 3, sum.Categories[1].Quantity)
	}
	assert.Len(t, sum.Expenses, 1)
}
