package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var daysPerYear = decimal.NewFromInt(365)

type InterestService struct {
	uow         repo_interfaces.UnitOfWork
	poster      service_interfaces.Poster
	concurrency int
	now         func() time.Time
}

func NewInterestService(uow repo_interfaces.UnitOfWork, poster service_interfaces.Poster, concurrency int) *InterestService {
	return &InterestService{
		uow:         uow,
		poster:      poster,
		concurrency: concurrency,
		now:         time.Now,
	}
}

var _ service_interfaces.InterestService = (*InterestService)(nil)

// AccrueInterest is balance x baseRate x days / 365, rounded half-up to the
// currency's minor unit.
func AccrueInterest(currency string, balance, baseRate decimal.Decimal, periodDays int) decimal.Decimal {
	raw := balance.Mul(baseRate).Mul(decimal.NewFromInt(int64(periodDays))).DivRound(daysPerYear, workingPrecision)
	return money.RoundFor(currency, raw)
}

// SelectRate picks the tier for balance among rates effective at at. The
// highest min balance wins, then the newest effective date, then the lowest
// code.
func SelectRate(rates []domain.InterestRate, balance decimal.Decimal, at time.Time) (domain.InterestRate, bool) {
	candidates := make([]domain.InterestRate, 0, len(rates))
	for _, rate := range rates {
		if rate.EffectiveAt(at) && rate.Covers(balance) {
			candidates = append(candidates, rate)
		}
	}
	if len(candidates) == 0 {
		return domain.InterestRate{}, false
	}

	slices.SortFunc(candidates, func(a, b domain.InterestRate) int {
		return cmp.Or(
			b.MinBalance.Cmp(a.MinBalance),
			b.EffectiveDate.Compare(a.EffectiveDate),
			cmp.Compare(a.Code, b.Code),
		)
	})
	return candidates[0], true
}

func (s *InterestService) CreateRate(ctx context.Context, rate domain.InterestRate) (domain.InterestRate, error) {
	logger.Info("interest service create rate request", logger.Fields{
		"code":     rate.Code,
		"type":     rate.Type,
		"baseRate": rate.BaseRate.String(),
	})

	now := s.now().UTC()
	rate.ID = uuid.NewString()
	rate.Code = strings.ToUpper(strings.TrimSpace(rate.Code))
	rate.CreatedAt = now
	if rate.EffectiveDate.IsZero() {
		rate.EffectiveDate = now
	}
	if err := validateRate(rate); err != nil {
		logger.Error("interest service create rate validation failed", err, nil)
		return domain.InterestRate{}, err
	}

	var created domain.InterestRate
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		created, err = tx.InterestRates().Create(ctx, rate)
		return err
	})
	if err != nil {
		if isConflict(err) {
			err = fmt.Errorf("%w: rate code %s already exists", domain.ErrValidation, rate.Code)
		}
		logger.Error("interest service create rate failed", err, logger.Fields{"code": rate.Code})
		return domain.InterestRate{}, err
	}

	logger.Info("interest service create rate success", logger.Fields{"rateId": created.ID, "code": created.Code})
	return created, nil
}

func (s *InterestService) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	var rates []domain.InterestRate
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		rates, err = tx.InterestRates().List(ctx)
		return err
	})
	return rates, err
}

// Calculate previews the interest an account would earn over periodDays
// without posting anything.
func (s *InterestService) Calculate(ctx context.Context, accountID string, periodDays int) (decimal.Decimal, error) {
	if periodDays < 1 {
		return decimal.Zero, fmt.Errorf("%w: periodDays must be at least 1", domain.ErrValidation)
	}

	now := s.now().UTC()
	interest := decimal.Zero
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		account, err := tx.Accounts().Get(ctx, accountID)
		if err != nil {
			return err
		}
		balance, err := tx.Balances().Get(ctx, accountID)
		if err != nil {
			return err
		}
		rates, err := tx.InterestRates().ListEffective(ctx, domain.RateTypeSavings, now)
		if err != nil {
			return err
		}
		if rate, ok := SelectRate(rates, balance.LedgerBalance, now); ok && balance.LedgerBalance.IsPositive() {
			interest = AccrueInterest(account.Currency, balance.LedgerBalance, rate.BaseRate, periodDays)
		}
		return nil
	})
	return interest, err
}

// AccrueAndPost credits interest to every active savings account with a
// positive balance. Each account posts in its own unit of work; a failure is
// recorded and the batch moves on.
func (s *InterestService) AccrueAndPost(ctx context.Context, periodDays int) (domain.BatchResult, error) {
	logger.Info("interest service accrual run request", logger.Fields{"periodDays": periodDays})

	if periodDays < 1 {
		return domain.BatchResult{}, fmt.Errorf("%w: periodDays must be at least 1", domain.ErrValidation)
	}

	now := s.now().UTC()
	var accounts []domain.Account
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		accounts, err = tx.Accounts().ListActiveByType(ctx, domain.AccountTypeSavings)
		return err
	})
	if err != nil {
		logger.Error("interest service accrual load accounts failed", err, nil)
		return domain.BatchResult{}, err
	}

	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		ids = append(ids, account.ID)
	}

	result := runBatch(ctx, "interest accrual", s.concurrency, ids, func(ctx context.Context, id string) (bool, error) {
		return s.accrueAccount(ctx, id, periodDays, now)
	})

	logger.Info("interest service accrual run complete", logger.Fields{
		"accounts":  len(ids),
		"succeeded": result.Succeeded,
		"skipped":   result.Skipped,
		"failed":    len(result.Failures),
	})
	return result, ctx.Err()
}

func (s *InterestService) accrueAccount(ctx context.Context, accountID string, periodDays int, now time.Time) (bool, error) {
	var posted bool
	var txn domain.Transaction
	var entries []domain.Entry

	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		posted = false

		account, err := tx.Accounts().Get(ctx, accountID)
		if err != nil {
			return err
		}
		if account.Type != domain.AccountTypeSavings || account.Status != domain.AccountStatusActive {
			return nil
		}

		balance, err := tx.Balances().GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if !balance.LedgerBalance.IsPositive() {
			return nil
		}

		rates, err := tx.InterestRates().ListEffective(ctx, domain.RateTypeSavings, now)
		if err != nil {
			return err
		}
		rate, ok := SelectRate(rates, balance.LedgerBalance, now)
		if !ok {
			return nil
		}

		interest := AccrueInterest(account.Currency, balance.LedgerBalance, rate.BaseRate, periodDays)
		if !interest.IsPositive() {
			return nil
		}

		txn = domain.Transaction{
			Reference:   newReference(referencePrefixInterest),
			ToAccountID: stringPtr(accountID),
			Amount:      interest,
			Currency:    account.Currency,
			Type:        domain.TransactionTypeInterest,
			Description: fmt.Sprintf("Interest credit %s for %d days", rate.Code, periodDays),
		}
		if entries, err = s.poster.PostWithin(ctx, tx, &txn); err != nil {
			return err
		}

		if _, err := tx.InterestPostings().Create(ctx, domain.InterestPosting{
			ID:             uuid.NewString(),
			AccountID:      accountID,
			RateID:         rate.ID,
			PostingDate:    now,
			PeriodStart:    now.AddDate(0, 0, -periodDays),
			PeriodEnd:      now,
			AverageBalance: balance.LedgerBalance,
			InterestRate:   rate.BaseRate,
			InterestAmount: interest,
			TransactionID:  txn.ID,
		}); err != nil {
			return err
		}

		posted = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if posted {
		s.poster.Notify(txn, entries)
	}
	return posted, nil
}

func validateRate(rate domain.InterestRate) error {
	var errs []string

	if rate.Code == "" {
		errs = append(errs, "code is required")
	}
	if !rate.Type.Valid() {
		errs = append(errs, "type must be one of SAVINGS, LOAN, OVERDRAFT")
	}
	if rate.BaseRate.IsNegative() || rate.BaseRate.GreaterThan(one) {
		errs = append(errs, "baseRate must be a fraction between 0 and 1")
	}
	if rate.MinBalance.IsNegative() {
		errs = append(errs, "minBalance cannot be negative")
	}
	if rate.MaxBalance != nil && rate.MaxBalance.LessThan(rate.MinBalance) {
		errs = append(errs, "maxBalance cannot be below minBalance")
	}
	if rate.EndDate != nil && rate.EndDate.Before(rate.EffectiveDate) {
		errs = append(errs, "endDate cannot be before effectiveDate")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
