package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	state *state
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	if _, exists := r.state.accounts[account.ID]; exists {
		return domain.Account{}, fmt.Errorf("create account %s: %w", account.ID, domain.ErrConflict)
	}
	for _, existing := range r.state.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return domain.Account{}, fmt.Errorf("create account number %s: %w", account.AccountNumber, domain.ErrConflict)
		}
	}

	r.state.accounts[account.ID] = account
	return account, nil
}

func (r *AccountRepository) Get(_ context.Context, id string) (domain.Account, error) {
	account, ok := r.state.accounts[id]
	if !ok {
		return domain.Account{}, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return account, nil
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	for _, account := range r.state.accounts {
		if account.AccountNumber == accountNumber {
			return account, nil
		}
	}
	return domain.Account{}, fmt.Errorf("account number %s: %w", accountNumber, domain.ErrNotFound)
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) (domain.Account, error) {
	account, err := r.Get(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	account.Status = status
	account.UpdatedAt = time.Now().UTC()
	r.state.accounts[id] = account
	return account, nil
}

func (r *AccountRepository) EnsureSettlement(ctx context.Context, currency string) (domain.Account, error) {
	number := domain.SettlementAccountNumber(currency)
	if account, err := r.GetByAccountNumber(ctx, number); err == nil {
		return account, nil
	}

	now := time.Now().UTC()
	return r.Create(ctx, domain.Account{
		ID:             uuid.NewString(),
		AccountNumber:  number,
		CustomerID:     "INTERNAL",
		Type:           domain.AccountTypeInternal,
		Currency:       currency,
		Status:         domain.AccountStatusActive,
		OverdraftLimit: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (r *AccountRepository) ListActiveByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	out := make([]domain.Account, 0)
	for _, account := range r.state.accounts {
		if account.Type == accountType && account.Status == domain.AccountStatusActive {
			out = append(out, account)
		}
	}
	slices.SortFunc(out, func(a, b domain.Account) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *AccountRepository) ListByCustomer(_ context.Context, customerID string) ([]domain.Account, error) {
	out := make([]domain.Account, 0)
	for _, account := range r.state.accounts {
		if account.CustomerID == customerID && !account.IsInternal() {
			out = append(out, account)
		}
	}
	slices.SortFunc(out, func(a, b domain.Account) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

type BalanceRepository struct {
	state *state
}

func (r *BalanceRepository) Create(_ context.Context, balance domain.Balance) error {
	if _, exists := r.state.balances[balance.AccountID]; exists {
		return fmt.Errorf("create balance %s: %w", balance.AccountID, domain.ErrConflict)
	}
	r.state.balances[balance.AccountID] = balance
	return nil
}

func (r *BalanceRepository) Get(_ context.Context, accountID string) (domain.Balance, error) {
	balance, ok := r.state.balances[accountID]
	if !ok {
		return domain.Balance{}, fmt.Errorf("balance %s: %w", accountID, domain.ErrNotFound)
	}
	return balance, nil
}

// GetForUpdate is Get: the store lock is already held for the whole unit.
func (r *BalanceRepository) GetForUpdate(ctx context.Context, accountID string) (domain.Balance, error) {
	return r.Get(ctx, accountID)
}

func (r *BalanceRepository) Adjust(ctx context.Context, accountID string, ledgerDelta, availableDelta decimal.Decimal) (domain.Balance, error) {
	balance, err := r.Get(ctx, accountID)
	if err != nil {
		return domain.Balance{}, err
	}

	balance.LedgerBalance = balance.LedgerBalance.Add(ledgerDelta)
	balance.AvailableBalance = balance.AvailableBalance.Add(availableDelta)
	balance.Version++
	balance.UpdatedAt = time.Now().UTC()
	r.state.balances[accountID] = balance

	return balance, nil
}
