package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) (domain.Account, error)
	// EnsureSettlement returns the internal settlement account for currency,
	// creating it on first use.
	EnsureSettlement(ctx context.Context, currency string) (domain.Account, error)
	ListActiveByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
}

type BalanceRepository interface {
	Create(ctx context.Context, balance domain.Balance) error
	Get(ctx context.Context, accountID string) (domain.Balance, error)
	// GetForUpdate locks the balance row until the unit of work ends.
	GetForUpdate(ctx context.Context, accountID string) (domain.Balance, error)
	Adjust(ctx context.Context, accountID string, ledgerDelta, availableDelta decimal.Decimal) (domain.Balance, error)
}
