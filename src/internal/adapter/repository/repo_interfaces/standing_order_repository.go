package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type StandingOrderRepository interface {
	Create(ctx context.Context, order domain.StandingOrder) (domain.StandingOrder, error)
	Get(ctx context.Context, id string) (domain.StandingOrder, error)
	GetForUpdate(ctx context.Context, id string) (domain.StandingOrder, error)
	Update(ctx context.Context, order domain.StandingOrder) (domain.StandingOrder, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.StandingOrder, error)
	List(ctx context.Context, filter domain.StandingOrderFilter) ([]domain.StandingOrder, error)
}

type StandingOrderExecutionRepository interface {
	Create(ctx context.Context, execution domain.StandingOrderExecution) (domain.StandingOrderExecution, error)
	ListByOrder(ctx context.Context, orderID string) ([]domain.StandingOrderExecution, error)
}
