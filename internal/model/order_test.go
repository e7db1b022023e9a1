package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSettle(t *testing.T) {
	cases := []struct {
		name            string
		final, paid     string
		wantPaid        string
		wantOutstanding string
		wantStatus      string
	}{
		{"unpaid", "50", "0", "0", "50", PaymentPending},
		{"partial", "50", "20", "20", "30", PaymentPending},
		{"exact", "50", "50", "50", "0", PaymentPaid},
		{"overpaid is capped", "50", "90", "50", "0", PaymentPaid},
		{"free order", "0", "0", "0", "0", PaymentPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := &Order{FinalPrice: dec(tc.final), AmountPaid: dec(tc.paid)}
			o.Settle()

			assert.True(t, o.AmountPaid.Equal(dec(tc.wantPaid)), "amount paid %s", o.AmountPaid)
			assert.True(t, o.OutstandingPayment.Equal(dec(tc.wantOutstanding)), "outstanding %s", o.OutstandingPayment)
			assert.Equal(t, tc.wantStatus, o.PaymentStatus)
			assert.True(t, o.AmountPaid.Add(o.OutstandingPayment).Equal(o.FinalPrice))
		})
	}
}
