package implementations

import (
	"context"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, account_number, customer_id, account_type, currency, status, overdraft_limit, created_at, updated_at`

type AccountRepository struct {
	q querier
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
		"customerId":    account.CustomerID,
		"currency":      account.Currency,
	})

	const query = `
INSERT INTO accounts (
	id,
	account_number,
	customer_id,
	account_type,
	currency,
	status,
	overdraft_limit,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + accountColumns

	created, err := scanAccount(r.q.QueryRowContext(
		ctx,
		query,
		account.ID,
		account.AccountNumber,
		account.CustomerID,
		account.Type,
		account.Currency,
		account.Status,
		account.OverdraftLimit,
		account.CreatedAt,
		account.UpdatedAt,
	))
	if err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, classify("create account", err)
	}

	return created, nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Account{}, classify("get account "+id, err)
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, accountNumber))
	if err != nil {
		return domain.Account{}, classify("get account number "+accountNumber, err)
	}
	return account, nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) (domain.Account, error) {
	logger.Info("account repository update status", logger.Fields{
		"accountId": id,
		"status":    status,
	})

	const query = `
UPDATE accounts
SET status = $2,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRowContext(ctx, query, id, status))
	if err != nil {
		logger.Error("account repository update status failed", err, logger.Fields{"accountId": id})
		return domain.Account{}, classify("update account status", err)
	}
	return account, nil
}

// EnsureSettlement inserts the settlement account if it is missing. Two units
// racing here both end up reading the same row.
func (r *AccountRepository) EnsureSettlement(ctx context.Context, currency string) (domain.Account, error) {
	number := domain.SettlementAccountNumber(currency)
	now := time.Now().UTC()

	const query = `
INSERT INTO accounts (
	id,
	account_number,
	customer_id,
	account_type,
	currency,
	status,
	overdraft_limit,
	created_at,
	updated_at
) VALUES ($1, $2, 'INTERNAL', $3, $4, $5, 0, $6, $6)
ON CONFLICT (account_number) DO NOTHING`

	if _, err := r.q.ExecContext(
		ctx,
		query,
		uuid.NewString(),
		number,
		domain.AccountTypeInternal,
		currency,
		domain.AccountStatusActive,
		now,
	); err != nil {
		logger.Error("account repository ensure settlement failed", err, logger.Fields{"currency": currency})
		return domain.Account{}, classify("ensure settlement account", err)
	}

	return r.GetByAccountNumber(ctx, number)
}

func (r *AccountRepository) ListActiveByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_type = $1
  AND status = 'ACTIVE'
ORDER BY id`

	rows, err := r.q.QueryContext(ctx, query, accountType)
	if err != nil {
		logger.Error("account repository list active by type failed", err, logger.Fields{"type": accountType})
		return nil, classify("list accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, classify("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate accounts", err)
	}
	return accounts, nil
}

func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE customer_id = $1
  AND account_type <> 'INTERNAL'
ORDER BY created_at, id`

	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		logger.Error("account repository list by customer failed", err, logger.Fields{"customerId": customerID})
		return nil, classify("list customer accounts", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, classify("scan account", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate accounts", err)
	}
	return accounts, nil
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.CustomerID,
		&account.Type,
		&account.Currency,
		&account.Status,
		&account.OverdraftLimit,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	return account, err
}

const balanceColumns = `account_id, ledger_balance, available_balance, version, updated_at`

type BalanceRepository struct {
	q querier
}

func (r *BalanceRepository) Create(ctx context.Context, balance domain.Balance) error {
	const query = `
INSERT INTO balances (account_id, ledger_balance, available_balance, version, updated_at)
VALUES ($1, $2, $3, $4, $5)`

	if _, err := r.q.ExecContext(
		ctx,
		query,
		balance.AccountID,
		balance.LedgerBalance,
		balance.AvailableBalance,
		balance.Version,
		balance.UpdatedAt,
	); err != nil {
		logger.Error("balance repository create failed", err, logger.Fields{"accountId": balance.AccountID})
		return classify("create balance", err)
	}
	return nil
}

func (r *BalanceRepository) Get(ctx context.Context, accountID string) (domain.Balance, error) {
	const query = `SELECT ` + balanceColumns + ` FROM balances WHERE account_id = $1`

	balance, err := scanBalance(r.q.QueryRowContext(ctx, query, accountID))
	if err != nil {
		return domain.Balance{}, classify("get balance "+accountID, err)
	}
	return balance, nil
}

func (r *BalanceRepository) GetForUpdate(ctx context.Context, accountID string) (domain.Balance, error) {
	const query = `SELECT ` + balanceColumns + ` FROM balances WHERE account_id = $1 FOR UPDATE`

	balance, err := scanBalance(r.q.QueryRowContext(ctx, query, accountID))
	if err != nil {
		return domain.Balance{}, classify("lock balance "+accountID, err)
	}
	return balance, nil
}

func (r *BalanceRepository) Adjust(ctx context.Context, accountID string, ledgerDelta, availableDelta decimal.Decimal) (domain.Balance, error) {
	logger.Info("balance repository adjust", logger.Fields{
		"accountId":      accountID,
		"ledgerDelta":    ledgerDelta.String(),
		"availableDelta": availableDelta.String(),
	})

	const query = `
UPDATE balances
SET ledger_balance = ledger_balance + $2::numeric,
    available_balance = available_balance + $3::numeric,
    version = version + 1,
    updated_at = NOW()
WHERE account_id = $1
RETURNING ` + balanceColumns

	balance, err := scanBalance(r.q.QueryRowContext(ctx, query, accountID, ledgerDelta, availableDelta))
	if err != nil {
		logger.Error("balance repository adjust failed", err, logger.Fields{"accountId": accountID})
		return domain.Balance{}, classify("adjust balance "+accountID, err)
	}
	return balance, nil
}

func scanBalance(row rowScanner) (domain.Balance, error) {
	var balance domain.Balance
	err := row.Scan(
		&balance.AccountID,
		&balance.LedgerBalance,
		&balance.AvailableBalance,
		&balance.Version,
		&balance.UpdatedAt,
	)
	return balance, err
}
