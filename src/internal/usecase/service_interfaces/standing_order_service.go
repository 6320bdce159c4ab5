package service_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type StandingOrderService interface {
	Create(ctx context.Context, req domain.NewStandingOrder) (domain.StandingOrder, error)
	Cancel(ctx context.Context, orderID string) (domain.StandingOrder, error)
	List(ctx context.Context, filter domain.StandingOrderFilter) ([]domain.StandingOrder, error)
	Executions(ctx context.Context, orderID string) ([]domain.StandingOrderExecution, error)
	RunDue(ctx context.Context, now time.Time) (domain.BatchResult, error)
}
