package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminExpandsToAllGrants(t *testing.T) {
	s := NewSet(IsAdmin)
	assert.True(t, s.Has(CanDeleteOrders, CanAddExpenses, CanGenReport, CanViewOrders))
	assert.False(t, s.Has(IsManager), "role flags are not implied")
	assert.False(t, s.Has(IsCashier), "role flags are not implied")
	assert.True(t, s.Has(IsAdmin))
}

func TestParseRejectsUnknownNames(t *testing.T) {
	_, err := Parse([]string{"can_delete_orders", "can_launch_rockets"})
	assert.ErrorContains(t, err, "can_launch_rockets")
}

func TestParseAndIntersect(t *testing.T) {
	s, err := Parse([]string{"is_cashier", " can_add_expenses"})
	require.NoError(t, err)

	assert.True(t, s.Has(IsCashier))
	assert.True(t, s.Any(CanDeleteOrders, CanAddExpenses))
	assert.False(t, s.Any(CanDeleteOrders, CanGenReport))
	assert.Equal(t, []string{"can_add_expenses", "is_cashier"}, s.Names())
}

func TestEmptySet(t *testing.T) {
	var s Set
	assert.True(t, s.Has(), "empty requirement is always satisfied")
	assert.False(t, s.Any(IsAdmin))
	assert.Empty(t, s.Names())
}
