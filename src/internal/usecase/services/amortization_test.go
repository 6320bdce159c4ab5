package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthlyPayment(t *testing.T) {
	cases := []struct {
		name      string
		principal string
		rate      string
		months    int
		want      string
	}{
		{"twelve percent one year", "10000", "12", 12, "888.49"},
		{"zero rate", "1200", "0", 12, "100.00"},
		{"single month", "500", "12", 1, "505.00"},
		{"zero term", "500", "12", 0, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MonthlyPayment(dec(tc.principal), dec(tc.rate), tc.months)
			assert.True(t, got.Equal(dec(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestAmortizationScheduleEndsAtZero(t *testing.T) {
	for _, tc := range []struct {
		principal string
		rate      string
		months    int
	}{
		{"10000", "12", 12},
		{"1200", "0", 12},
		{"250000", "6.5", 360},
		{"999.99", "17.25", 7},
	} {
		rows := AmortizationSchedule(dec(tc.principal), dec(tc.rate), tc.months)
		require.NotEmpty(t, rows)
		assert.LessOrEqual(t, len(rows), tc.months)

		last := rows[len(rows)-1]
		assert.True(t, last.RemainingBalance.IsZero(), "schedule %v ends at %s", tc, last.RemainingBalance)

		totalPrincipal := decimal.Zero
		for _, row := range rows {
			assert.False(t, row.Principal.IsNegative())
			assert.True(t, row.Payment.Equal(row.Interest.Add(row.Principal)))
			totalPrincipal = totalPrincipal.Add(row.Principal)
		}
		assert.True(t, totalPrincipal.Equal(dec(tc.principal)))
	}
}

func TestAmortizationScheduleFirstRow(t *testing.T) {
	rows := AmortizationSchedule(dec("10000"), dec("12"), 12)
	require.Len(t, rows, 12)

	assert.True(t, rows[0].Payment.Equal(dec("888.49")))
	assert.True(t, rows[0].Interest.Equal(dec("100")))
	assert.True(t, rows[0].Principal.Equal(dec("788.49")))
	assert.True(t, rows[0].RemainingBalance.Equal(dec("9211.51")))
}
