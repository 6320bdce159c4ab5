package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateTypeSavings   RateType = "SAVINGS"
	RateTypeLoan      RateType = "LOAN"
	RateTypeOverdraft RateType = "OVERDRAFT"
)

func (t RateType) Valid() bool {
	return t == RateTypeSavings || t == RateTypeLoan || t == RateTypeOverdraft
}

type InterestRate struct {
	ID            string
	Code          string
	Type          RateType
	BaseRate      decimal.Decimal // annual fraction, 0.05 means 5%
	MinBalance    decimal.Decimal
	MaxBalance    *decimal.Decimal
	Active        bool
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
}

// EffectiveAt reports whether the rate is active and inside its window at t.
func (r InterestRate) EffectiveAt(t time.Time) bool {
	if !r.Active || r.EffectiveDate.After(t) {
		return false
	}
	return r.EndDate == nil || !r.EndDate.Before(t)
}

// Covers reports whether balance falls inside the rate's tier.
func (r InterestRate) Covers(balance decimal.Decimal) bool {
	if balance.LessThan(r.MinBalance) {
		return false
	}
	return r.MaxBalance == nil || balance.LessThanOrEqual(*r.MaxBalance)
}

type InterestPosting struct {
	ID             string
	AccountID      string
	RateID         string
	PostingDate    time.Time
	PeriodStart    time.Time
	PeriodEnd      time.Time
	AverageBalance decimal.Decimal
	InterestRate   decimal.Decimal
	InterestAmount decimal.Decimal
	TransactionID  string
}
