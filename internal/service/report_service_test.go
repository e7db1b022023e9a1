package service_test

import (
	"context"
	"testing"
	"time"

	"wfgpos/internal/apierror"
	"wfgpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	f := newCapFixture(t)
	f.scenario(t)
	now := time.Now().UTC()

	rep, err := f.reports.Generate(context.Background(), now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, rep.Summary.TotalSessions)
	assert.Equal(t, 2, rep.Summary.TotalOrders)
	assert.Equal(t, 1, rep.Summary.TotalExpenseItems)
	assertDec(t, "80", rep.Summary.TotalSales, "total_sales")
	assertDec(t, "60", rep.Summary.NetRevenue, "net_revenue")
	assertDec(t, "30", rep.Summary.NetCashFlow, "net_cash_flow")
	assertDec(t, "80", rep.SalesByManager["Sara"], "sales_by_manager")
	assert.Len(t, rep.ProductSummary, 2)
	require.Len(t, rep.Sessions, 1)
	assertDec(t, "130", rep.Sessions[0].ExpectedBalance, "session expected_balance")
	assert.Len(t, f.store.reports, 1)
}

func TestGenerateReportRejectsEmptyRange(t *testing.T) {
	f := newCapFixture(t)
	now := time.Now()
	_, err := f.reports.Generate(context.Background(), now, now)
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestGenerateDayReusesExistingReport(t *testing.T) {
	f := newCapFixture(t)
	f.scenario(t)
	ctx := context.Background()

	first, err := f.reports.GenerateDay(ctx, time.Now())
	require.NoError(t, err)
	second, err := f.reports.GenerateDay(ctx, time.Now())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.store.reports, 1)
}

func TestPeriodReport(t *testing.T) {
	f := newCapFixture(t)
	f.scenario(t)

	rep, err := f.reports.Period(context.Background(), "weekly")
	require.NoError(t, err)
	assert.Equal(t, "weekly", rep.Period)
	assert.Equal(t, 2, rep.TotalOrders)
	assertDec(t, "80", rep.TotalSales, "total_sales")
	assertDec(t, "20", rep.TotalExpenses, "total_expenses")
	assertDec(t, "60", rep.NetProfit, "net_profit")
	assertDec(t, "50", rep.PaymentTypes[model.PaymentCash], "cash")
	assertDec(t, "30", rep.PaymentTypes[model.PaymentOnline], "online")
}

func TestPeriodReportUnknownPeriod(t *testing.T) {
	f := newCapFixture(t)
	_, err := f.reports.Period(context.Background(), "fortnightly")
	assert.ErrorIs(t, err, apierror.ErrValidation)
}

func TestListAndGetReports(t *testing.T) {
	f := newCapFixture(t)
	now := time.Now().UTC()
	rep, err := f.reports.Generate(context.Background(), now.Add(-time.Hour), now)
	require.NoError(t, err)

	list, err := f.reports.ListReports(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := f.reports.GetReport(context.Background(), f.store.reports[0].ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ID, got.ID)
	assert.Equal(t, 0, got.Summary.TotalSessions)
}
