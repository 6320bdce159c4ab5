package repo_interfaces

import "context"

// UnitOfWork runs fn inside one store transaction. fn's error rolls the whole
// unit back; a nil return commits it exactly once. Implementations may run fn
// more than once when the store reports a retryable conflict, so fn must not
// have side effects outside tx.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the repositories bound to a single unit of work.
type Tx interface {
	Accounts() AccountRepository
	Balances() BalanceRepository
	Transactions() TransactionRepository
	Entries() EntryRepository
	Loans() LoanRepository
	LoanPayments() LoanPaymentRepository
	InterestRates() InterestRateRepository
	InterestPostings() InterestPostingRepository
	StandingOrders() StandingOrderRepository
	Executions() StandingOrderExecutionRepository
	BillPayments() BillPaymentRepository
}
