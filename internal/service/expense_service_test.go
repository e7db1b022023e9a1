package service_test

import (
	"context"
	"testing"

	"wfgpos/internal/apierror"
	"wfgpos/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddExpense(t *testing.T) {
	f := newCapFixture(t)
	key := f.open(t, "100")

	resp := f.expense(t, key, "  Ice  ", "20")
	assert.Equal(t, "Ice", resp.Name)
	assert.Equal(t, key, resp.RegisterSession)

	s := f.store.session(key)
	assertDec(t, "20", s.TotalExpenses, "total_expenses")
	assertDec(t, "80", s.ExpectedBalance, "expected_balance")
}

func TestAddExpenseValidation(t *testing.T) {
	f := newCapFixture(t)
	key := f.open(t, "100")
	ctx := context.Background()

	_, err := f.expenses.AddExpense(ctx, dto.AddExpenseRequest{SessionKey: key, Name: "   ", Amount: dec("1")})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	_, err = f.expenses.AddExpense(ctx, dto.AddExpenseRequest{SessionKey: key, Name: "Gas", Amount: dec("-1")})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	_, err = f.expenses.AddExpense(ctx, dto.AddExpenseRequest{SessionKey: key, Name: "Gas", Amount: dec("1.999")})
	assert.ErrorIs(t, err, apierror.ErrValidation)

	_, err = f.expenses.AddExpense(ctx, dto.AddExpenseRequest{SessionKey: "missing", Name: "Gas", Amount: dec("1")})
	assert.ErrorIs(t, err, apierror.ErrNotFound)

	assert.Empty(t, f.store.expenses)
}

func TestAddZeroExpense(t *testing.T) {
	f := newCapFixture(t)
	key := f.open(t, "10")
	f.expense(t, key, "Free sample", "0")
	assertDec(t, "10", f.store.session(key).ExpectedBalance, "expected_balance")
}

func TestEditExpense(t *testing.T) {
	f := newCapFixture(t)
	key := f.open(t, "100")
	e := f.expense(t, key, "Ice", "20")

	resp, err := f.expenses.EditExpense(context.Background(), uuid.MustParse(e.ID), dto.EditExpenseRequest{Name: "Ice bags", Amount: dec("35")})
	require.NoError(t, err)
	assert.Equal(t, "Ice bags", resp.Name)

	s := f.store.session(key)
	assertDec(t, "35", s.TotalExpenses, "total_expenses")
	assertDec(t, "65", s.ExpectedBalance, "expected_balance")
}

func TestEditExpenseNotFound(t *testing.T) {
	f := newCapFixture(t)
	_, err := f.expenses.EditExpense(context.Background(), uuid.New(), dto.EditExpenseRequest{Name: "x", Amount: dec("1")})
	assert.ErrorIs(t, err, apierror.ErrNotFound)
}

func TestDeleteExpense(t *testing.T) {
	f := newCapFixture(t)
	key := f.open(t, "100")
	e := f.expense(t, key, "Ice", "20")
	f.expense(t, key, "Gas", "5")

	require.NoError(t, f.expenses.DeleteExpense(context.Background(), uuid.MustParse(e.ID)))

	s := f.store.session(key)
	assertDec(t, "5", s.TotalExpenses, "total_expenses")
	assertDec(t, "95", s.ExpectedBalance, "expected_balance")

	list, err := f.expenses.ListBySession(context.Background(), key)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Gas", list[0].Name)
}
