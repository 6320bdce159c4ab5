package service_interfaces

import (
	"context"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type BillPaymentService interface {
	Pay(ctx context.Context, req domain.NewBillPayment) (domain.BillPayment, domain.Transaction, error)
	List(ctx context.Context, accountID *string, page domain.Page) ([]domain.BillPayment, error)
}
