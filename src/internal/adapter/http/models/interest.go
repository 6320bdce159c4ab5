package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateRateRequest struct {
	Code          string           `json:"code"`
	RateType      string           `json:"rateType"`
	BaseRate      decimal.Decimal  `json:"baseRate"`
	MinBalance    decimal.Decimal  `json:"minBalance"`
	MaxBalance    *decimal.Decimal `json:"maxBalance,omitempty"`
	Active        *bool            `json:"active,omitempty"`
	EffectiveDate *time.Time       `json:"effectiveDate,omitempty"`
	EndDate       *time.Time       `json:"endDate,omitempty"`
}

func (r CreateRateRequest) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(r.Code) == "" {
		errs.add("code is required")
	}
	if !domain.RateType(strings.ToUpper(strings.TrimSpace(r.RateType))).Valid() {
		errs.add("rateType must be one of SAVINGS, LOAN, OVERDRAFT")
	}
	if r.BaseRate.IsNegative() || r.BaseRate.GreaterThan(decimal.NewFromInt(1)) {
		errs.add("baseRate must be a fraction between 0 and 1")
	}
	if r.MinBalance.IsNegative() {
		errs.add("minBalance cannot be negative")
	}

	return errs.err()
}

func (r CreateRateRequest) ToDomain() domain.InterestRate {
	rate := domain.InterestRate{
		Code:       strings.TrimSpace(r.Code),
		Type:       domain.RateType(strings.ToUpper(strings.TrimSpace(r.RateType))),
		BaseRate:   r.BaseRate,
		MinBalance: r.MinBalance,
		MaxBalance: r.MaxBalance,
		Active:     r.Active == nil || *r.Active,
		EndDate:    r.EndDate,
	}
	if r.EffectiveDate != nil {
		rate.EffectiveDate = r.EffectiveDate.UTC()
	}
	return rate
}

type RateResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	RateType      string     `json:"rateType"`
	BaseRate      string     `json:"baseRate"`
	MinBalance    string     `json:"minBalance"`
	MaxBalance    *string    `json:"maxBalance,omitempty"`
	Active        bool       `json:"active"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	EndDate       *time.Time `json:"endDate,omitempty"`
}

func NewRateResponse(rate domain.InterestRate) RateResponse {
	response := RateResponse{
		ID:            rate.ID,
		Code:          rate.Code,
		RateType:      string(rate.Type),
		BaseRate:      rate.BaseRate.String(),
		MinBalance:    rate.MinBalance.String(),
		Active:        rate.Active,
		EffectiveDate: rate.EffectiveDate,
		EndDate:       rate.EndDate,
	}
	if rate.MaxBalance != nil {
		value := rate.MaxBalance.String()
		response.MaxBalance = &value
	}
	return response
}

func NewRateResponses(rates []domain.InterestRate) []RateResponse {
	out := make([]RateResponse, 0, len(rates))
	for _, rate := range rates {
		out = append(out, NewRateResponse(rate))
	}
	return out
}

type AccrualRequest struct {
	PeriodDays int `json:"periodDays"`
}

type StandingOrderRunRequest struct {
	Now *time.Time `json:"now,omitempty"`
}
