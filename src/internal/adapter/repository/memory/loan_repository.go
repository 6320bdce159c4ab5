package memory

import (
	"context"
	"fmt"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type LoanRepository struct {
	state *state
}

func (r *LoanRepository) Create(_ context.Context, loan domain.Loan) (domain.Loan, error) {
	for _, existing := range r.state.loans {
		if existing.ID == loan.ID || existing.LoanNumber == loan.LoanNumber {
			return domain.Loan{}, fmt.Errorf("create loan %s: %w", loan.LoanNumber, domain.ErrConflict)
		}
	}
	r.state.loans[loan.ID] = loan
	return loan, nil
}

func (r *LoanRepository) Get(_ context.Context, id string) (domain.Loan, error) {
	loan, ok := r.state.loans[id]
	if !ok {
		return domain.Loan{}, fmt.Errorf("loan %s: %w", id, domain.ErrNotFound)
	}
	return loan, nil
}

func (r *LoanRepository) GetForUpdate(ctx context.Context, id string) (domain.Loan, error) {
	return r.Get(ctx, id)
}

func (r *LoanRepository) Update(_ context.Context, loan domain.Loan) (domain.Loan, error) {
	if _, ok := r.state.loans[loan.ID]; !ok {
		return domain.Loan{}, fmt.Errorf("loan %s: %w", loan.ID, domain.ErrNotFound)
	}
	r.state.loans[loan.ID] = loan
	return loan, nil
}

type LoanPaymentRepository struct {
	state *state
}

func (r *LoanPaymentRepository) Create(_ context.Context, payment domain.LoanPayment) (domain.LoanPayment, error) {
	for _, existing := range r.state.payments {
		if existing.LoanID == payment.LoanID && existing.PaymentNumber == payment.PaymentNumber {
			return domain.LoanPayment{}, fmt.Errorf("create payment %s: %w", payment.PaymentNumber, domain.ErrConflict)
		}
	}
	r.state.payments = append(r.state.payments, payment)
	return payment, nil
}

func (r *LoanPaymentRepository) ListByLoan(_ context.Context, loanID string) ([]domain.LoanPayment, error) {
	out := make([]domain.LoanPayment, 0)
	for _, payment := range r.state.payments {
		if payment.LoanID == loanID {
			out = append(out, payment)
		}
	}
	return out, nil
}

func (r *LoanPaymentRepository) CountByLoan(ctx context.Context, loanID string) (int, error) {
	payments, err := r.ListByLoan(ctx, loanID)
	return len(payments), err
}
