// Package memory is an in-process implementation of the repositories. Units of
// work are serialised on one mutex and commit by swapping in a staged copy, so
// a failed unit leaves nothing behind.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
)

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var _ repo_interfaces.UnitOfWork = (*Store)(nil)

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, tx repo_interfaces.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(ctx, &memTx{state: staged}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.state = staged
	return nil
}

type state struct {
	accounts     map[string]domain.Account
	balances     map[string]domain.Balance
	transactions map[string]domain.Transaction
	entries      []domain.Entry
	loans        map[string]domain.Loan
	payments     []domain.LoanPayment
	rates        map[string]domain.InterestRate
	postings     []domain.InterestPosting
	orders       map[string]domain.StandingOrder
	executions   []domain.StandingOrderExecution
	bills        []domain.BillPayment
}

func newState() *state {
	return &state{
		accounts:     map[string]domain.Account{},
		balances:     map[string]domain.Balance{},
		transactions: map[string]domain.Transaction{},
		loans:        map[string]domain.Loan{},
		rates:        map[string]domain.InterestRate{},
		orders:       map[string]domain.StandingOrder{},
	}
}

func (s *state) clone() *state {
	return &state{
		accounts:     maps.Clone(s.accounts),
		balances:     maps.Clone(s.balances),
		transactions: maps.Clone(s.transactions),
		entries:      slices.Clone(s.entries),
		loans:        maps.Clone(s.loans),
		payments:     slices.Clone(s.payments),
		rates:        maps.Clone(s.rates),
		postings:     slices.Clone(s.postings),
		orders:       maps.Clone(s.orders),
		executions:   slices.Clone(s.executions),
		bills:        slices.Clone(s.bills),
	}
}

type memTx struct {
	state *state
}

func (t *memTx) Accounts() repo_interfaces.AccountRepository {
	return &AccountRepository{state: t.state}
}

func (t *memTx) Balances() repo_interfaces.BalanceRepository {
	return &BalanceRepository{state: t.state}
}

func (t *memTx) Transactions() repo_interfaces.TransactionRepository {
	return &TransactionRepository{state: t.state}
}

func (t *memTx) Entries() repo_interfaces.EntryRepository {
	return &EntryRepository{state: t.state}
}

func (t *memTx) Loans() repo_interfaces.LoanRepository {
	return &LoanRepository{state: t.state}
}

func (t *memTx) LoanPayments() repo_interfaces.LoanPaymentRepository {
	return &LoanPaymentRepository{state: t.state}
}

func (t *memTx) InterestRates() repo_interfaces.InterestRateRepository {
	return &InterestRateRepository{state: t.state}
}

func (t *memTx) InterestPostings() repo_interfaces.InterestPostingRepository {
	return &InterestPostingRepository{state: t.state}
}

func (t *memTx) StandingOrders() repo_interfaces.StandingOrderRepository {
	return &StandingOrderRepository{state: t.state}
}

func (t *memTx) Executions() repo_interfaces.StandingOrderExecutionRepository {
	return &StandingOrderExecutionRepository{state: t.state}
}

func (t *memTx) BillPayments() repo_interfaces.BillPaymentRepository {
	return &BillPaymentRepository{state: t.state}
}
