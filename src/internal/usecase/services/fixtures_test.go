package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.EntryEvent
}

func (p *recordingPublisher) Publish(event domain.EntryEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []domain.EntryEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.EntryEvent(nil), p.events...)
}

type harness struct {
	uow       repo_interfaces.UnitOfWork
	publisher *recordingPublisher
	accounts  *AccountService
	posting   *PostingService
	loans     *LoanService
	interest  *InterestService
	orders    *StandingOrderService
	bills     *BillPaymentService
	now       time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithUoW(t, memory.NewStore())
}

func newHarnessWithUoW(t *testing.T, uow repo_interfaces.UnitOfWork) *harness {
	t.Helper()

	h := &harness{
		uow:       uow,
		publisher: &recordingPublisher{},
		now:       time.Date(2024, time.January, 31, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }

	h.accounts = NewAccountService(uow)
	h.posting = NewPostingService(uow, h.publisher)
	h.posting.now = clock
	h.loans = NewLoanService(uow, h.posting, decimal.NewFromInt(12))
	h.loans.now = clock
	h.interest = NewInterestService(uow, h.posting, 4)
	h.interest.now = clock
	h.orders = NewStandingOrderService(uow, h.posting, 4)
	h.orders.now = clock
	h.bills = NewBillPaymentService(uow, h.posting)
	h.bills.now = clock

	return h
}

func (h *harness) openAccount(t *testing.T, customerID string, accountType domain.AccountType, overdraft string) domain.Account {
	t.Helper()
	account, _, err := h.accounts.Open(context.Background(), domain.NewAccount{
		CustomerID:     customerID,
		Type:           accountType,
		Currency:       "USD",
		OverdraftLimit: dec(overdraft),
	})
	require.NoError(t, err)
	return account
}

func (h *harness) deposit(t *testing.T, accountID, amount string) domain.Transaction {
	t.Helper()
	txn, err := h.posting.Submit(context.Background(), domain.TransactionIntent{
		ToAccountID: stringPtr(accountID),
		Amount:      dec(amount),
		Currency:    "USD",
		Type:        domain.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	return txn
}

func (h *harness) balance(t *testing.T, accountID string) domain.Balance {
	t.Helper()
	balance, err := h.accounts.Balance(context.Background(), accountID)
	require.NoError(t, err)
	return balance
}

func (h *harness) entries(t *testing.T, transactionID string) []domain.Entry {
	t.Helper()
	_, entries, err := h.posting.Get(context.Background(), transactionID)
	require.NoError(t, err)
	return entries
}

var errInjected = errors.New("injected balance failure")

// faultyUnitOfWork fails every balance adjustment on one account.
type faultyUnitOfWork struct {
	inner       repo_interfaces.UnitOfWork
	failAccount string
}

func (u *faultyUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx repo_interfaces.Tx) error) error {
	return u.inner.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		return fn(ctx, faultyTx{Tx: tx, failAccount: u.failAccount})
	})
}

type faultyTx struct {
	repo_interfaces.Tx
	failAccount string
}

func (t faultyTx) Balances() repo_interfaces.BalanceRepository {
	return faultyBalances{BalanceRepository: t.Tx.Balances(), failAccount: t.failAccount}
}

type faultyBalances struct {
	repo_interfaces.BalanceRepository
	failAccount string
}

func (b faultyBalances) Adjust(ctx context.Context, accountID string, ledgerDelta, availableDelta decimal.Decimal) (domain.Balance, error) {
	if accountID == b.failAccount {
		return domain.Balance{}, errInjected
	}
	return b.BalanceRepository.Adjust(ctx, accountID, ledgerDelta, availableDelta)
}
