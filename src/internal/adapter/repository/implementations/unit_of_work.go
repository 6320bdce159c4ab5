package implementations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/lib/pq"
)

const (
	defaultMaxAttempts = 4
	defaultRetryDelay  = 20 * time.Millisecond

	pqUniqueViolation      = "23505"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// UnitOfWork runs each unit in a READ COMMITTED transaction. Row locks are
// taken with SELECT ... FOR UPDATE by the repositories. A unit that loses a
// serialization or deadlock race is rolled back and run again.
type UnitOfWork struct {
	db          *sql.DB
	maxAttempts int
	retryDelay  time.Duration
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		maxAttempts: defaultMaxAttempts,
		retryDelay:  defaultRetryDelay,
	}
}

var _ repo_interfaces.UnitOfWork = (*UnitOfWork)(nil)

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx repo_interfaces.Tx) error) error {
	var err error
	for attempt := 0; attempt < u.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := u.retryDelay << (attempt - 1)
			logger.Warn("unit of work retrying after conflict", logger.Fields{
				"attempt": attempt + 1,
				"delay":   delay.String(),
				"error":   err.Error(),
			})

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		err = u.run(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return err
}

func (u *UnitOfWork) run(ctx context.Context, fn func(ctx context.Context, tx repo_interfaces.Tx) error) (err error) {
	sqlTx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(ctx, &pgTx{q: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}
	return nil
}

type pgTx struct {
	q querier
}

func (t *pgTx) Accounts() repo_interfaces.AccountRepository {
	return &AccountRepository{q: t.q}
}

func (t *pgTx) Balances() repo_interfaces.BalanceRepository {
	return &BalanceRepository{q: t.q}
}

func (t *pgTx) Transactions() repo_interfaces.TransactionRepository {
	return &TransactionRepository{q: t.q}
}

func (t *pgTx) Entries() repo_interfaces.EntryRepository {
	return &EntryRepository{q: t.q}
}

func (t *pgTx) Loans() repo_interfaces.LoanRepository {
	return &LoanRepository{q: t.q}
}

func (t *pgTx) LoanPayments() repo_interfaces.LoanPaymentRepository {
	return &LoanPaymentRepository{q: t.q}
}

func (t *pgTx) InterestRates() repo_interfaces.InterestRateRepository {
	return &InterestRateRepository{q: t.q}
}

func (t *pgTx) InterestPostings() repo_interfaces.InterestPostingRepository {
	return &InterestPostingRepository{q: t.q}
}

func (t *pgTx) StandingOrders() repo_interfaces.StandingOrderRepository {
	return &StandingOrderRepository{q: t.q}
}

func (t *pgTx) Executions() repo_interfaces.StandingOrderExecutionRepository {
	return &StandingOrderExecutionRepository{q: t.q}
}

func (t *pgTx) BillPayments() repo_interfaces.BillPaymentRepository {
	return &BillPaymentRepository{q: t.q}
}

// classify maps driver errors onto the domain sentinels and adds op context.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if pqCode(err) == pqUniqueViolation {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isRetryable(err error) bool {
	code := pqCode(err)
	return code == pqSerializationFailure || code == pqDeadlockDetected
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func nullString(v *string) sql.NullString {
	if v == nil || *v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func stringFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func timeFromNull(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
