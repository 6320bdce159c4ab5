package service_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type AccountService interface {
	Open(ctx context.Context, req domain.NewAccount) (domain.Account, domain.Balance, error)
	Get(ctx context.Context, accountID string) (domain.Account, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Account, error)
	Balance(ctx context.Context, accountID string) (domain.Balance, error)
	ChangeStatus(ctx context.Context, accountID string, status domain.AccountStatus) (domain.Account, error)
}
