package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.Accounts().Create(ctx, domain.Account{ID: id, AccountNumber: id, Type: domain.AccountTypeSavings, Currency: "USD", Status: domain.AccountStatusActive}); err != nil {
			return err
		}
		return tx.Balances().Create(ctx, domain.Balance{AccountID: id})
	})
	require.NoError(t, err)
}

func TestStoreDoCommits(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc-1")

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		_, err := tx.Balances().Adjust(ctx, "acc-1", decimal.NewFromInt(10), decimal.NewFromInt(10))
		return err
	})
	require.NoError(t, err)

	_ = store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		balance, err := tx.Balances().Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.True(t, balance.LedgerBalance.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, int64(1), balance.Version)
		return nil
	})
}

func TestStoreDoRollsBackOnError(t *testing.T) {
	store := NewStore()
	seedAccount(t, store, "acc-1")
	boom := errors.New("boom")

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.Balances().Adjust(ctx, "acc-1", decimal.NewFromInt(10), decimal.NewFromInt(10)); err != nil {
			return err
		}
		if _, err := tx.Entries().Create(ctx, domain.Entry{ID: "e-1", AccountID: "acc-1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_ = store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		balance, err := tx.Balances().Get(ctx, "acc-1")
		require.NoError(t, err)
		assert.True(t, balance.LedgerBalance.IsZero())
		assert.Equal(t, int64(0), balance.Version)

		entries, err := tx.Entries().ListByAccount(ctx, "acc-1")
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	})
}

func TestStoreDoHonoursCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Do(ctx, func(context.Context, repo_interfaces.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestEnsureSettlementIsIdempotent(t *testing.T) {
	store := NewStore()
	var first, second domain.Account

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		if first, err = tx.Accounts().EnsureSettlement(ctx, "USD"); err != nil {
			return err
		}
		second, err = tx.Accounts().EnsureSettlement(ctx, "USD")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.AccountTypeInternal, first.Type)
	assert.Equal(t, "SETTLE-USD", first.AccountNumber)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	store := NewStore()
	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		_, err := tx.Transactions().Get(ctx, "missing")
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionsListByAccountPagesNewestFirst(t *testing.T) {
	store := NewStore()
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	from, to := "acc-1", "acc-2"

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		for i, txn := range []domain.Transaction{
			{ID: "t-1", Reference: "R1", ToAccountID: &from},
			{ID: "t-2", Reference: "R2", FromAccountID: &from, ToAccountID: &to},
			{ID: "t-3", Reference: "R3", ToAccountID: &to},
			{ID: "t-4", Reference: "R4", FromAccountID: &from},
		} {
			txn.CreatedAt = base.Add(time.Duration(i) * time.Hour)
			if _, err := tx.Transactions().Create(ctx, txn); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	list := func(accountID string, page domain.Page) []string {
		var ids []string
		require.NoError(t, store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
			txns, err := tx.Transactions().ListByAccount(ctx, accountID, page)
			for _, txn := range txns {
				ids = append(ids, txn.ID)
			}
			return err
		}))
		return ids
	}

	assert.Equal(t, []string{"t-4", "t-2", "t-1"}, list(from, domain.Page{}))
	assert.Equal(t, []string{"t-2"}, list(from, domain.Page{Limit: 1, Offset: 1}))
	assert.Equal(t, []string{"t-3", "t-2"}, list(to, domain.Page{}))
	assert.Empty(t, list(from, domain.Page{Offset: 3}))
}

func TestListByCustomerSkipsOtherCustomers(t *testing.T) {
	store := NewStore()
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		for i, account := range []domain.Account{
			{ID: "b", AccountNumber: "2", CustomerID: "cust-1", Type: domain.AccountTypeCurrent},
			{ID: "a", AccountNumber: "1", CustomerID: "cust-1", Type: domain.AccountTypeSavings},
			{ID: "c", AccountNumber: "3", CustomerID: "cust-2", Type: domain.AccountTypeSavings},
		} {
			account.CreatedAt = created.Add(time.Duration(i) * time.Minute)
			if _, err := tx.Accounts().Create(ctx, account); err != nil {
				return err
			}
		}
		_, err := tx.Accounts().EnsureSettlement(ctx, "USD")
		return err
	})
	require.NoError(t, err)

	_ = store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		accounts, err := tx.Accounts().ListByCustomer(ctx, "cust-1")
		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "b", accounts[0].ID)
		assert.Equal(t, "a", accounts[1].ID)
		return nil
	})
}

func TestBillPaymentsRejectDuplicateReference(t *testing.T) {
	store := NewStore()
	payment := domain.BillPayment{ID: "bp-1", Reference: "BILL1", AccountID: "acc-1", Status: domain.BillPaymentStatusCompleted}

	require.NoError(t, store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		_, err := tx.BillPayments().Create(ctx, payment)
		return err
	}))

	err := store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		duplicate := payment
		duplicate.ID = "bp-2"
		_, err := tx.BillPayments().Create(ctx, duplicate)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_ = store.Do(context.Background(), func(ctx context.Context, tx repo_interfaces.Tx) error {
		payments, err := tx.BillPayments().List(ctx, nil, domain.Page{})
		require.NoError(t, err)
		assert.Len(t, payments, 1)
		return nil
	})
}
