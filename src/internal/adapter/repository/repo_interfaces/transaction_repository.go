package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	Get(ctx context.Context, id string) (domain.Transaction, error)
	GetForUpdate(ctx context.Context, id string) (domain.Transaction, error)
	Update(ctx context.Context, txn domain.Transaction) (domain.Transaction, error)
	// ListByAccount returns transactions touching accountID on either side,
	// newest first.
	ListByAccount(ctx context.Context, accountID string, page domain.Page) ([]domain.Transaction, error)
}

type EntryRepository interface {
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Entry, error)
}
