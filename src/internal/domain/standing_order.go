package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly || f == FrequencyMonthly
}

// Next returns the execution date following t. Monthly steps keep the day of
// month and clamp to the last day when the target month is shorter.
func (f Frequency) Next(t time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return t.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return t.AddDate(0, 0, 7)
	default:
		return addMonthClamped(t)
	}
}

func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

type StandingOrder struct {
	ID                string
	Reference         string
	FromAccountID     string
	ToAccountID       *string
	Amount            decimal.Decimal
	Currency          string
	Frequency         Frequency
	StartDate         time.Time
	EndDate           *time.Time
	NextExecutionDate time.Time
	Active            bool
	Description       string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsDue reports whether the order should run at now.
func (o StandingOrder) IsDue(now time.Time) bool {
	return o.Active && !o.NextExecutionDate.After(now)
}

// Advance moves the order to its next execution date and deactivates it once
// that date passes the end date.
func (o *StandingOrder) Advance() {
	o.NextExecutionDate = o.Frequency.Next(o.NextExecutionDate)
	if o.EndDate != nil && o.NextExecutionDate.After(*o.EndDate) {
		o.Active = false
	}
}

type ExecutionStatus string

const (
	ExecutionStatusCompleted ExecutionStatus = "COMPLETED"
	ExecutionStatusFailed    ExecutionStatus = "FAILED"
)

type StandingOrderExecution struct {
	ID              string
	StandingOrderID string
	ExecutionDate   time.Time
	Amount          decimal.Decimal
	Status          ExecutionStatus
	TransactionID   *string
	FailureReason   *string
}

type NewStandingOrder struct {
	FromAccountID string
	ToAccountID   *string
	Amount        decimal.Decimal
	Currency      string
	Frequency     Frequency
	StartDate     time.Time
	EndDate       *time.Time
	Description   string
}
