package service_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type LoanService interface {
	Apply(ctx context.Context, req domain.LoanApplication) (domain.Loan, error)
	Approve(ctx context.Context, loanID string, approval domain.LoanApproval) (domain.Loan, error)
	Disburse(ctx context.Context, loanID string) (domain.Loan, domain.Transaction, error)
	Pay(ctx context.Context, loanID string, amount decimal.Decimal, sourceAccountID *string) (domain.LoanPayment, domain.Loan, error)
	MarkDefaulted(ctx context.Context, loanID string) (domain.Loan, error)
	Get(ctx context.Context, loanID string) (domain.Loan, error)
	Payments(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
	Schedule(ctx context.Context, loanID string) ([]domain.ScheduleRow, error)
}
