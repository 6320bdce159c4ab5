package service_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type InterestService interface {
	CreateRate(ctx context.Context, rate domain.InterestRate) (domain.InterestRate, error)
	ListRates(ctx context.Context) ([]domain.InterestRate, error)
	Calculate(ctx context.Context, accountID string, periodDays int) (decimal.Decimal, error)
	AccrueAndPost(ctx context.Context, periodDays int) (domain.BatchResult, error)
}
