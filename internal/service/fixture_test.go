package service_test

import (
	"context"
	"testing"

	"wfgpos/internal/access"
	"wfgpos/internal/config"
	"wfgpos/internal/dto"
	"wfgpos/internal/model"
	"wfgpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *memStore
	notifier *fakeNotifier
	register service.RegisterService
	orders   service.OrderService
	expenses service.ExpenseService
	reports  service.ReportService

	manager  model.Employee
	business model.Business
	cashier  access.Principal
	admin    access.Principal
}

func newFixture(t *testing.T, overpayment string) *fixture {
	t.Helper()
	st := newMemStore()

	email := "owner@example.com"
	biz := model.Business{
		ID:          uuid.New(),
		Name:        "Corner Cafe",
		Email:       &email,
		IsActive:    true,
		Preferences: model.BusinessPreferences{SendDaySummaryReport: true},
	}
	st.businesses[biz.ID] = &biz

	mgr := model.Employee{ID: uuid.New(), Name: "Sara", Role: model.RoleManager}
	st.employees[mgr.ID] = &mgr

	notifier := &fakeNotifier{}
	sessions, orders, expenses := memSessions{st}, memOrders{st}, memExpenses{st}

	return &fixture{
		store:    st,
		notifier: notifier,
		register: service.NewRegisterService(sessions, orders, expenses, memEmployees{st}, memBusinesses{st}, notifier),
		orders:   service.NewOrderService(sessions, orders, expenses, memEmployees{st}, overpayment),
		expenses: service.NewExpenseService(sessions, orders, expenses),
		reports:  service.NewReportService(memReports{st}, sessions, orders, expenses, memEmployees{st}, nil),
		manager:  mgr,
		business: biz,
		cashier: access.Principal{
			AccountID:  uuid.New(),
			EmployeeID: uuid.New(),
			BusinessID: &biz.ID,
			Username:   "cashier1",
			Caps:       access.NewSet(access.IsCashier, access.CanAddExpenses),
		},
		admin: access.Principal{
			AccountID:  uuid.New(),
			EmployeeID: uuid.New(),
			BusinessID: &biz.ID,
			Username:   "admin",
			Caps:       access.NewSet(access.IsAdmin),
		},
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decp(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func assertDec(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got.String())
}

func (f *fixture) open(t *testing.T, startCash string) string {
	t.Helper()
	resp, err := f.register.Open(context.Background(), f.cashier, dto.OpenRegisterRequest{
		StartCash: decp(startCash),
		ManagerID: f.manager.ID.String(),
	})
	require.NoError(t, err)
	return resp.SessionKey
}

// order creates a single-line order priced at price.
func (f *fixture) order(t *testing.T, key, paymentType, price, paid string) dto.OrderResponse {
	t.Helper()
	resp, err := f.orders.CreateOrder(context.Background(), f.cashier, orderReq(key, paymentType, price, "0", paid))
	require.NoError(t, err)
	return *resp
}

func orderReq(key, paymentType, price, discount, paid string) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		SessionKey: key,
		Items: []dto.OrderItemRequest{{
			CategoryID: uuid.NewString(),
			ProductID:  uuid.NewString(),
			OptionID:   uuid.NewString(),
			OptionName: "Regular",
			UnitPrice:  dec(price),
			Quantity:   1,
		}},
		Discount:    dec(discount),
		PaymentType: paymentType,
		AmountPaid:  dec(paid),
	}
}

func (f *fixture) expense(t *testing.T, key, name, amount string) dto.ExpenseResponse {
	t.Helper()
	resp, err := f.expenses.AddExpense(context.Background(), dto.AddExpenseRequest{
		SessionKey: key,
		Name:       name,
		Amount:     dec(amount),
	})
	require.NoError(t, err)
	return *resp
}

// scenario builds the reference session: start 100, cash 50 paid, online
// 30 paid, expense 20.
func (f *fixture) scenario(t *testing.T) (key string, cash, online dto.OrderResponse) {
	t.Helper()
	key = f.open(t, "100")
	cash = f.order(t, key, model.PaymentCash, "50", "50")
	online = f.order(t, key, model.PaymentOnline, "30", "30")
	f.expense(t, key, "Ice", "20")
	return key, cash, online
}

func newCapFixture(t *testing.T) *fixture { return newFixture(t, config.OverpaymentCap) }
