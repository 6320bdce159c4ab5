package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type BillPaymentRepository interface {
	Create(ctx context.Context, payment domain.BillPayment) (domain.BillPayment, error)
	// List returns payments newest first, limited to accountID when it is set.
	List(ctx context.Context, accountID *string, page domain.Page) ([]domain.BillPayment, error)
}
