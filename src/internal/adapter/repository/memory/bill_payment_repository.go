package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type BillPaymentRepository struct {
	state *state
}

func (r *BillPaymentRepository) Create(_ context.Context, payment domain.BillPayment) (domain.BillPayment, error) {
	for _, existing := range r.state.bills {
		if existing.ID == payment.ID || existing.Reference == payment.Reference {
			return domain.BillPayment{}, fmt.Errorf("create bill payment %s: %w", payment.Reference, domain.ErrConflict)
		}
	}
	r.state.bills = append(r.state.bills, payment)
	return payment, nil
}

func (r *BillPaymentRepository) List(_ context.Context, accountID *string, page domain.Page) ([]domain.BillPayment, error) {
	out := make([]domain.BillPayment, 0)
	for _, payment := range r.state.bills {
		if accountID == nil || payment.AccountID == *accountID {
			out = append(out, payment)
		}
	}
	slices.SortFunc(out, func(a, b domain.BillPayment) int {
		return cmp.Or(b.PaymentDate.Compare(a.PaymentDate), cmp.Compare(a.ID, b.ID))
	})
	start, end := page.Window(len(out))
	return out[start:end], nil
}
