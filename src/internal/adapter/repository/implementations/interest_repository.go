package implementations

import (
	"context"
	"database/sql"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/shopspring/decimal"
)

const rateColumns = `id, code, rate_type, base_rate, min_balance, max_balance, active, effective_date, end_date, created_at`

type InterestRateRepository struct {
	q querier
}

func (r *InterestRateRepository) Create(ctx context.Context, rate domain.InterestRate) (domain.InterestRate, error) {
	logger.Info("interest rate repository create", logger.Fields{
		"rateId":   rate.ID,
		"code":     rate.Code,
		"baseRate": rate.BaseRate.String(),
	})

	var maxBalance decimal.NullDecimal
	if rate.MaxBalance != nil {
		maxBalance = decimal.NewNullDecimal(*rate.MaxBalance)
	}

	const query = `
INSERT INTO interest_rates (
	id,
	code,
	rate_type,
	base_rate,
	min_balance,
	max_balance,
	active,
	effective_date,
	end_date,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + rateColumns

	created, err := scanRate(r.q.QueryRowContext(
		ctx,
		query,
		rate.ID,
		rate.Code,
		rate.Type,
		rate.BaseRate,
		rate.MinBalance,
		maxBalance,
		rate.Active,
		rate.EffectiveDate,
		nullTime(rate.EndDate),
		rate.CreatedAt,
	))
	if err != nil {
		logger.Error("interest rate repository create failed", err, logger.Fields{"code": rate.Code})
		return domain.InterestRate{}, classify("create interest rate", err)
	}
	return created, nil
}

func (r *InterestRateRepository) List(ctx context.Context) ([]domain.InterestRate, error) {
	const query = `SELECT ` + rateColumns + ` FROM interest_rates ORDER BY code`
	return r.list(ctx, query)
}

func (r *InterestRateRepository) ListEffective(ctx context.Context, rateType domain.RateType, at time.Time) ([]domain.InterestRate, error) {
	const query = `
SELECT ` + rateColumns + `
FROM interest_rates
WHERE rate_type = $1
  AND active
  AND effective_date <= $2
  AND (end_date IS NULL OR end_date >= $2)
ORDER BY min_balance DESC, effective_date DESC, code`
	return r.list(ctx, query, rateType, at)
}

func (r *InterestRateRepository) list(ctx context.Context, query string, args ...any) ([]domain.InterestRate, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("interest rate repository list failed", err, nil)
		return nil, classify("list interest rates", err)
	}
	defer rows.Close()

	rates := make([]domain.InterestRate, 0)
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, classify("scan interest rate", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate interest rates", err)
	}
	return rates, nil
}

func scanRate(row rowScanner) (domain.InterestRate, error) {
	var (
		rate       domain.InterestRate
		maxBalance decimal.NullDecimal
		endDate    sql.NullTime
	)

	if err := row.Scan(
		&rate.ID,
		&rate.Code,
		&rate.Type,
		&rate.BaseRate,
		&rate.MinBalance,
		&maxBalance,
		&rate.Active,
		&rate.EffectiveDate,
		&endDate,
		&rate.CreatedAt,
	); err != nil {
		return domain.InterestRate{}, err
	}

	if maxBalance.Valid {
		value := maxBalance.Decimal
		rate.MaxBalance = &value
	}
	rate.EndDate = timeFromNull(endDate)
	return rate, nil
}

const postingColumns = `id, account_id, rate_id, posting_date, period_start, period_end, average_balance, interest_rate, interest_amount, transaction_id`

type InterestPostingRepository struct {
	q querier
}

func (r *InterestPostingRepository) Create(ctx context.Context, posting domain.InterestPosting) (domain.InterestPosting, error) {
	const query = `
INSERT INTO interest_postings (
	id,
	account_id,
	rate_id,
	posting_date,
	period_start,
	period_end,
	average_balance,
	interest_rate,
	interest_amount,
	transaction_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + postingColumns

	created, err := scanPosting(r.q.QueryRowContext(
		ctx,
		query,
		posting.ID,
		posting.AccountID,
		posting.RateID,
		posting.PostingDate,
		posting.PeriodStart,
		posting.PeriodEnd,
		posting.AverageBalance,
		posting.InterestRate,
		posting.InterestAmount,
		posting.TransactionID,
	))
	if err != nil {
		logger.Error("interest posting repository create failed", err, logger.Fields{"accountId": posting.AccountID})
		return domain.InterestPosting{}, classify("create interest posting", err)
	}
	return created, nil
}

func (r *InterestPostingRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.InterestPosting, error) {
	const query = `SELECT ` + postingColumns + ` FROM interest_postings WHERE account_id = $1 ORDER BY posting_date, id`

	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, classify("list interest postings", err)
	}
	defer rows.Close()

	postings := make([]domain.InterestPosting, 0)
	for rows.Next() {
		posting, err := scanPosting(rows)
		if err != nil {
			return nil, classify("scan interest posting", err)
		}
		postings = append(postings, posting)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate interest postings", err)
	}
	return postings, nil
}

func scanPosting(row rowScanner) (domain.InterestPosting, error) {
	var posting domain.InterestPosting
	err := row.Scan(
		&posting.ID,
		&posting.AccountID,
		&posting.RateID,
		&posting.PostingDate,
		&posting.PeriodStart,
		&posting.PeriodEnd,
		&posting.AverageBalance,
		&posting.InterestRate,
		&posting.InterestAmount,
		&posting.TransactionID,
	)
	return posting, err
}
