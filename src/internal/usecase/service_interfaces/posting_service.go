package service_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
)

type PostingService interface {
	Submit(ctx context.Context, intent domain.TransactionIntent) (domain.Transaction, error)
	Create(ctx context.Context, intent domain.TransactionIntent) (domain.Transaction, error)
	Post(ctx context.Context, transactionID string) (domain.Transaction, error)
	Hold(ctx context.Context, transactionID string) (domain.Transaction, error)
	Cancel(ctx context.Context, transactionID string) (domain.Transaction, error)
	Get(ctx context.Context, transactionID string) (domain.Transaction, []domain.Entry, error)
	AccountEntries(ctx context.Context, accountID string) ([]domain.Entry, error)
	AccountTransactions(ctx context.Context, accountID string, page domain.Page) ([]domain.Transaction, error)
}

// Poster is the slice of the posting engine the loan, interest and standing
// order engines drive inside their own units of work.
type Poster interface {
	PostWithin(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction) ([]domain.Entry, error)
	RecordFailed(ctx context.Context, tx repo_interfaces.Tx, txn *domain.Transaction, reason string) error
	Notify(txn domain.Transaction, entries []domain.Entry)
}
