package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBalanced(t *testing.T, entries []domain.Entry, amount decimal.Decimal) {
	t.Helper()
	debits, credits := decimal.Zero, decimal.Zero
	for _, entry := range entries {
		switch entry.EntryType {
		case domain.EntryTypeDebit:
			debits = debits.Add(entry.Amount)
		case domain.EntryTypeCredit:
			credits = credits.Add(entry.Amount)
		}
	}
	assert.True(t, debits.Equal(credits), "debits %s credits %s", debits, credits)
	assert.True(t, debits.Equal(amount), "debits %s amount %s", debits, amount)
}

func TestSubmitTransferPostsBalancedEntries(t *testing.T) {
	h := newHarness(t)
	from := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	to := h.openAccount(t, "cust-2", domain.AccountTypeSavings, "0")
	h.deposit(t, from.ID, "100.00")

	txn, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(from.ID),
		ToAccountID:   stringPtr(to.ID),
		Amount:        dec("40.00"),
		Currency:      "usd",
		Type:          domain.TransactionTypeTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.NotNil(t, txn.ProcessedAt)
	assert.Contains(t, txn.Reference, "TXN")

	entries := h.entries(t, txn.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, from.ID, entries[0].AccountID)
	assert.Equal(t, domain.EntryTypeDebit, entries[0].EntryType)
	assert.Equal(t, to.ID, entries[1].AccountID)
	assert.Equal(t, domain.EntryTypeCredit, entries[1].EntryType)
	assertBalanced(t, entries, dec("40"))

	fromBalance := h.balance(t, from.ID)
	assert.True(t, fromBalance.LedgerBalance.Equal(dec("60")))
	assert.True(t, fromBalance.AvailableBalance.Equal(dec("60")))
	toBalance := h.balance(t, to.ID)
	assert.True(t, toBalance.LedgerBalance.Equal(dec("40")))
	assert.True(t, toBalance.AvailableBalance.Equal(dec("40")))

	assert.Len(t, h.publisher.Events(), 4)
}

func TestDepositDebitsSettlementAccount(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")

	txn := h.deposit(t, account.ID, "250.50")

	entries := h.entries(t, txn.ID)
	require.Len(t, entries, 2)
	assertBalanced(t, entries, dec("250.50"))
	assert.NotEqual(t, account.ID, entries[0].AccountID)
	assert.Equal(t, account.ID, entries[1].AccountID)

	balance := h.balance(t, account.ID)
	assert.True(t, balance.LedgerBalance.Equal(dec("250.50")))
	assert.Equal(t, int64(1), balance.Version)
}

func TestPostTwiceReturnsIdempotency(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")
	txn := h.deposit(t, account.ID, "10")

	_, err := h.posting.Post(context.Background(), txn.ID)
	require.ErrorIs(t, err, domain.ErrIdempotency)

	assert.Len(t, h.entries(t, txn.ID), 2)
	assert.True(t, h.balance(t, account.ID).LedgerBalance.Equal(dec("10")))
}

func TestInsufficientFundsFailsWithoutSideEffects(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	h.deposit(t, account.ID, "50.00")

	txn, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(account.ID),
		Amount:        dec("100.00"),
		Currency:      "USD",
		Type:          domain.TransactionTypeWithdrawal,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, domain.TransactionStatusFailed, txn.Status)
	require.NotNil(t, txn.FailureReason)
	assert.Contains(t, *txn.FailureReason, "insufficient funds")

	assert.Empty(t, h.entries(t, txn.ID))
	balance := h.balance(t, account.ID)
	assert.True(t, balance.LedgerBalance.Equal(dec("50")))
	assert.True(t, balance.AvailableBalance.Equal(dec("50")))

	_, err = h.posting.Post(context.Background(), txn.ID)
	assert.ErrorIs(t, err, domain.ErrIdempotency)
}

func TestOverdraftLimitBoundsDebits(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "50")

	withdraw := func(amount string) error {
		_, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
			FromAccountID: stringPtr(account.ID),
			Amount:        dec(amount),
			Currency:      "USD",
			Type:          domain.TransactionTypeWithdrawal,
		})
		return err
	}

	require.NoError(t, withdraw("50.00"))
	assert.ErrorIs(t, withdraw("0.01"), domain.ErrInsufficientFunds)
	assert.True(t, h.balance(t, account.ID).AvailableBalance.Equal(dec("-50")))
}

func TestSubmitRejectsAmountFinerThanCurrencyScale(t *testing.T) {
	h := newHarness(t)
	from := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	to := h.openAccount(t, "cust-2", domain.AccountTypeSavings, "0")
	h.deposit(t, from.ID, "100.00")

	_, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(from.ID),
		ToAccountID:   stringPtr(to.ID),
		Amount:        dec("10.005"),
		Currency:      "USD",
		Type:          domain.TransactionTypeTransfer,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, h.balance(t, from.ID).LedgerBalance.Equal(dec("100")))
	assert.True(t, h.balance(t, to.ID).LedgerBalance.IsZero())
}

func TestCreateRejectsInvalidIntentWithoutStoringIt(t *testing.T) {
	h := newHarness(t)
	usd := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")

	cases := map[string]domain.TransactionIntent{
		"zero amount":       {ToAccountID: stringPtr(usd.ID), Amount: decimal.Zero, Currency: "USD", Type: domain.TransactionTypeDeposit},
		"no accounts":       {Amount: dec("1"), Currency: "USD", Type: domain.TransactionTypeDeposit},
		"currency mismatch": {ToAccountID: stringPtr(usd.ID), Amount: dec("1"), Currency: "EUR", Type: domain.TransactionTypeDeposit},
	}

	for name, intent := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.posting.Create(context.Background(), intent)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err := h.posting.Create(context.Background(), domain.TransactionIntent{
		ToAccountID: stringPtr("missing"),
		Amount:      dec("1"),
		Currency:    "USD",
		Type:        domain.TransactionTypeDeposit,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := h.posting.AccountEntries(context.Background(), usd.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHoldReservesUntilPosted(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	h.deposit(t, account.ID, "100")

	created, err := h.posting.Create(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(account.ID),
		Amount:        dec("30"),
		Currency:      "USD",
		Type:          domain.TransactionTypeWithdrawal,
	})
	require.NoError(t, err)

	held, err := h.posting.Hold(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, held.Held)

	balance := h.balance(t, account.ID)
	assert.True(t, balance.AvailableBalance.Equal(dec("70")))
	assert.True(t, balance.LedgerBalance.Equal(dec("100")))
	assert.True(t, balance.AvailableBalance.LessThan(balance.LedgerBalance))

	_, err = h.posting.Hold(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	posted, err := h.posting.Post(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, posted.Status)

	balance = h.balance(t, account.ID)
	assert.True(t, balance.AvailableBalance.Equal(dec("70")))
	assert.True(t, balance.LedgerBalance.Equal(dec("70")))
}

func TestCancelReleasesHold(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	h.deposit(t, account.ID, "100")

	created, err := h.posting.Create(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(account.ID),
		Amount:        dec("30"),
		Currency:      "USD",
		Type:          domain.TransactionTypeWithdrawal,
	})
	require.NoError(t, err)
	_, err = h.posting.Hold(context.Background(), created.ID)
	require.NoError(t, err)

	cancelled, err := h.posting.Cancel(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, cancelled.Status)
	assert.True(t, h.balance(t, account.ID).AvailableBalance.Equal(dec("100")))

	_, err = h.posting.Post(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrIdempotency)
	_, err = h.posting.Cancel(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrIdempotency)
}

func TestCreditToSuspendedAccountRollsBackDebit(t *testing.T) {
	h := newHarness(t)
	from := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	to := h.openAccount(t, "cust-2", domain.AccountTypeCurrent, "0")
	h.deposit(t, from.ID, "100")
	_, err := h.accounts.ChangeStatus(context.Background(), to.ID, domain.AccountStatusSuspended)
	require.NoError(t, err)

	txn, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(from.ID),
		ToAccountID:   stringPtr(to.ID),
		Amount:        dec("40"),
		Currency:      "USD",
		Type:          domain.TransactionTypeTransfer,
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.TransactionStatusFailed, txn.Status)

	assert.Empty(t, h.entries(t, txn.ID))
	assert.True(t, h.balance(t, from.ID).LedgerBalance.Equal(dec("100")))
	assert.True(t, h.balance(t, to.ID).LedgerBalance.IsZero())
}

func TestFailedHeldTransactionReleasesReservation(t *testing.T) {
	h := newHarness(t)
	from := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	to := h.openAccount(t, "cust-2", domain.AccountTypeCurrent, "0")
	h.deposit(t, from.ID, "100")

	created, err := h.posting.Create(context.Background(), domain.TransactionIntent{
		FromAccountID: stringPtr(from.ID),
		ToAccountID:   stringPtr(to.ID),
		Amount:        dec("25"),
		Currency:      "USD",
		Type:          domain.TransactionTypeTransfer,
	})
	require.NoError(t, err)
	_, err = h.posting.Hold(context.Background(), created.ID)
	require.NoError(t, err)
	_, err = h.accounts.ChangeStatus(context.Background(), to.ID, domain.AccountStatusInactive)
	require.NoError(t, err)

	failed, err := h.posting.Post(context.Background(), created.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.TransactionStatusFailed, failed.Status)
	assert.False(t, failed.Held)

	balance := h.balance(t, from.ID)
	assert.True(t, balance.AvailableBalance.Equal(dec("100")))
	assert.True(t, balance.LedgerBalance.Equal(dec("100")))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	h.deposit(t, account.ID, "100")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
				FromAccountID: stringPtr(account.ID),
				Amount:        dec("10"),
				Currency:      "USD",
				Type:          domain.TransactionTypeWithdrawal,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientFunds) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, rejected)
	balance := h.balance(t, account.ID)
	assert.True(t, balance.LedgerBalance.IsZero())
	assert.True(t, balance.AvailableBalance.IsZero())
}

func TestConcurrentTransfersConserveMoney(t *testing.T) {
	h := newHarness(t)
	a := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	b := h.openAccount(t, "cust-2", domain.AccountTypeCurrent, "0")
	h.deposit(t, a.ID, "500")
	h.deposit(t, b.ID, "500")

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		from, to := a.ID, b.ID
		if i%2 == 1 {
			from, to = b.ID, a.ID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.posting.Submit(context.Background(), domain.TransactionIntent{
				FromAccountID: stringPtr(from),
				ToAccountID:   stringPtr(to),
				Amount:        dec("7.25"),
				Currency:      "USD",
				Type:          domain.TransactionTypeTransfer,
			})
		}()
	}
	wg.Wait()

	total := h.balance(t, a.ID).LedgerBalance.Add(h.balance(t, b.ID).LedgerBalance)
	assert.True(t, total.Equal(dec("1000")), "total %s", total)

	for _, id := range []string{a.ID, b.ID} {
		entries, err := h.posting.AccountEntries(context.Background(), id)
		require.NoError(t, err)
		sum := decimal.Zero
		for _, entry := range entries {
			if entry.EntryType == domain.EntryTypeCredit {
				sum = sum.Add(entry.Amount)
			} else {
				sum = sum.Sub(entry.Amount)
			}
		}
		assert.True(t, sum.Equal(h.balance(t, id).LedgerBalance))
	}
}

func TestAccountTransactionsPagesNewestFirst(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")
	other := h.openAccount(t, "cust-2", domain.AccountTypeSavings, "0")

	var deposits []domain.Transaction
	for _, amount := range []string{"10", "20", "30"} {
		deposits = append(deposits, h.deposit(t, account.ID, amount))
		h.deposit(t, other.ID, "5")
		h.now = h.now.Add(time.Minute)
	}

	first, err := h.posting.AccountTransactions(context.Background(), account.ID, domain.Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, deposits[2].ID, first[0].ID)
	assert.Equal(t, deposits[1].ID, first[1].ID)

	second, err := h.posting.AccountTransactions(context.Background(), account.ID, domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, deposits[0].ID, second[0].ID)

	past, err := h.posting.AccountTransactions(context.Background(), account.ID, domain.Page{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)

	_, err = h.posting.AccountTransactions(context.Background(), "missing", domain.Page{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
