package services

import (
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

// workingPrecision bounds intermediate digits; amounts are rounded to cents
// only at the end.
const workingPrecision int32 = 28

var (
	one                  = decimal.NewFromInt(1)
	percentMonthsPerYear = decimal.NewFromInt(1200)
)

// MonthlyPayment is the level payment that amortizes principal over
// termMonths at annualRate percent. A zero rate splits principal evenly.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) decimal.Decimal {
	if termMonths <= 0 {
		return decimal.Zero
	}

	n := decimal.NewFromInt(int64(termMonths))
	r := monthlyRate(annualRate)
	if r.IsZero() {
		return money.Round(principal.DivRound(n, workingPrecision))
	}

	growth := compound(one.Add(r), termMonths)
	payment := principal.Mul(r).Mul(growth).DivRound(growth.Sub(one), workingPrecision)
	return money.Round(payment)
}

// AmortizationSchedule lays out every payment. Each row charges interest on
// the remaining balance; the last row absorbs rounding so the balance ends at
// exactly zero.
func AmortizationSchedule(principal, annualRate decimal.Decimal, termMonths int) []domain.ScheduleRow {
	payment := MonthlyPayment(principal, annualRate, termMonths)
	balance := principal
	rows := make([]domain.ScheduleRow, 0, termMonths)

	for month := 1; month <= termMonths && balance.IsPositive(); month++ {
		interest := monthlyInterest(balance, annualRate)
		rowPayment := payment
		principalPart := rowPayment.Sub(interest)
		if principalPart.IsNegative() {
			principalPart = decimal.Zero
		}
		if month == termMonths || principalPart.GreaterThan(balance) {
			principalPart = balance
			rowPayment = balance.Add(interest)
		}

		balance = balance.Sub(principalPart)
		rows = append(rows, domain.ScheduleRow{
			Month:            month,
			Payment:          rowPayment,
			Interest:         interest,
			Principal:        principalPart,
			RemainingBalance: balance,
		})
	}

	return rows
}

// monthlyInterest is one month of interest on outstanding, rounded to cents.
func monthlyInterest(outstanding, annualRate decimal.Decimal) decimal.Decimal {
	return money.Round(outstanding.Mul(monthlyRate(annualRate)))
}

func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.DivRound(percentMonthsPerYear, workingPrecision)
}

func compound(base decimal.Decimal, periods int) decimal.Decimal {
	result := one
	for i := 0; i < periods; i++ {
		result = result.Mul(base).Round(workingPrecision)
	}
	return result
}
