package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type TransactionRepository struct {
	state *state
}

func (r *TransactionRepository) Create(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	if _, exists := r.state.transactions[txn.ID]; exists {
		return domain.Transaction{}, fmt.Errorf("create transaction %s: %w", txn.ID, domain.ErrConflict)
	}
	for _, existing := range r.state.transactions {
		if existing.Reference == txn.Reference {
			return domain.Transaction{}, fmt.Errorf("create transaction reference %s: %w", txn.Reference, domain.ErrConflict)
		}
	}

	r.state.transactions[txn.ID] = txn
	return txn, nil
}

func (r *TransactionRepository) Get(_ context.Context, id string) (domain.Transaction, error) {
	txn, ok := r.state.transactions[id]
	if !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}
	return txn, nil
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, id string) (domain.Transaction, error) {
	return r.Get(ctx, id)
}

func (r *TransactionRepository) Update(_ context.Context, txn domain.Transaction) (domain.Transaction, error) {
	if _, ok := r.state.transactions[txn.ID]; !ok {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", txn.ID, domain.ErrNotFound)
	}
	r.state.transactions[txn.ID] = txn
	return txn, nil
}

func (r *TransactionRepository) ListByAccount(_ context.Context, accountID string, page domain.Page) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)
	for _, txn := range r.state.transactions {
		if valueOf(txn.FromAccountID) == accountID || valueOf(txn.ToAccountID) == accountID {
			out = append(out, txn)
		}
	}
	slices.SortFunc(out, func(a, b domain.Transaction) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	start, end := page.Window(len(out))
	return out[start:end], nil
}

func valueOf(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

type EntryRepository struct {
	state *state
}

func (r *EntryRepository) Create(_ context.Context, entry domain.Entry) (domain.Entry, error) {
	r.state.entries = append(r.state.entries, entry)
	return entry, nil
}

func (r *EntryRepository) ListByTransaction(_ context.Context, transactionID string) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0, 2)
	for _, entry := range r.state.entries {
		if entry.TransactionID == transactionID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *EntryRepository) ListByAccount(_ context.Context, accountID string) ([]domain.Entry, error) {
	out := make([]domain.Entry, 0)
	for _, entry := range r.state.entries {
		if entry.AccountID == accountID {
			out = append(out, entry)
		}
	}
	return out, nil
}
