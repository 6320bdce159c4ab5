package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type InterestRateRepository interface {
	Create(ctx context.Context, rate domain.InterestRate) (domain.InterestRate, error)
	List(ctx context.Context) ([]domain.InterestRate, error)
	// ListEffective returns active rates of rateType whose window contains at.
	ListEffective(ctx context.Context, rateType domain.RateType, at time.Time) ([]domain.InterestRate, error)
}

type InterestPostingRepository interface {
	Create(ctx context.Context, posting domain.InterestPosting) (domain.InterestPosting, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.InterestPosting, error)
}
