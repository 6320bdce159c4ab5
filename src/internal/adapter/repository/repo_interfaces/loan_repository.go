package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type LoanRepository interface {
	Create(ctx context.Context, loan domain.Loan) (domain.Loan, error)
	Get(ctx context.Context, id string) (domain.Loan, error)
	GetForUpdate(ctx context.Context, id string) (domain.Loan, error)
	Update(ctx context.Context, loan domain.Loan) (domain.Loan, error)
}

type LoanPaymentRepository interface {
	Create(ctx context.Context, payment domain.LoanPayment) (domain.LoanPayment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
	CountByLoan(ctx context.Context, loanID string) (int, error)
}
