package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type InterestRateRepository struct {
	state *state
}

func (r *InterestRateRepository) Create(_ context.Context, rate domain.InterestRate) (domain.InterestRate, error) {
	for _, existing := range r.state.rates {
		if existing.ID == rate.ID || existing.Code == rate.Code {
			return domain.InterestRate{}, fmt.Errorf("create rate %s: %w", rate.Code, domain.ErrConflict)
		}
	}
	r.state.rates[rate.ID] = rate
	return rate, nil
}

func (r *InterestRateRepository) List(_ context.Context) ([]domain.InterestRate, error) {
	out := make([]domain.InterestRate, 0, len(r.state.rates))
	for _, rate := range r.state.rates {
		out = append(out, rate)
	}
	slices.SortFunc(out, func(a, b domain.InterestRate) int {
		return cmp.Compare(a.Code, b.Code)
	})
	return out, nil
}

func (r *InterestRateRepository) ListEffective(ctx context.Context, rateType domain.RateType, at time.Time) ([]domain.InterestRate, error) {
	all, _ := r.List(ctx)
	out := make([]domain.InterestRate, 0, len(all))
	for _, rate := range all {
		if rate.Type == rateType && rate.EffectiveAt(at) {
			out = append(out, rate)
		}
	}
	return out, nil
}

type InterestPostingRepository struct {
	state *state
}

func (r *InterestPostingRepository) Create(_ context.Context, posting domain.InterestPosting) (domain.InterestPosting, error) {
	r.state.postings = append(r.state.postings, posting)
	return posting, nil
}

func (r *InterestPostingRepository) ListByAccount(_ context.Context, accountID string) ([]domain.InterestPosting, error) {
	out := make([]domain.InterestPosting, 0)
	for _, posting := range r.state.postings {
		if posting.AccountID == accountID {
			out = append(out, posting)
		}
	}
	return out, nil
}
