package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
)

type StandingOrderRepository struct {
	state *state
}

func (r *StandingOrderRepository) Create(_ context.Context, order domain.StandingOrder) (domain.StandingOrder, error) {
	for _, existing := range r.state.orders {
		if existing.ID == order.ID || existing.Reference == order.Reference {
			return domain.StandingOrder{}, fmt.Errorf("create standing order %s: %w", order.Reference, domain.ErrConflict)
		}
	}
	r.state.orders[order.ID] = order
	return order, nil
}

func (r *StandingOrderRepository) Get(_ context.Context, id string) (domain.StandingOrder, error) {
	order, ok := r.state.orders[id]
	if !ok {
		return domain.StandingOrder{}, fmt.Errorf("standing order %s: %w", id, domain.ErrNotFound)
	}
	return order, nil
}

func (r *StandingOrderRepository) GetForUpdate(ctx context.Context, id string) (domain.StandingOrder, error) {
	return r.Get(ctx, id)
}

func (r *StandingOrderRepository) Update(_ context.Context, order domain.StandingOrder) (domain.StandingOrder, error) {
	if _, ok := r.state.orders[order.ID]; !ok {
		return domain.StandingOrder{}, fmt.Errorf("standing order %s: %w", order.ID, domain.ErrNotFound)
	}
	r.state.orders[order.ID] = order
	return order, nil
}

func (r *StandingOrderRepository) ListDue(_ context.Context, now time.Time) ([]domain.StandingOrder, error) {
	out := make([]domain.StandingOrder, 0)
	for _, order := range r.state.orders {
		if order.IsDue(now) {
			out = append(out, order)
		}
	}
	slices.SortFunc(out, func(a, b domain.StandingOrder) int {
		return cmp.Or(a.NextExecutionDate.Compare(b.NextExecutionDate), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (r *StandingOrderRepository) List(_ context.Context, filter domain.StandingOrderFilter) ([]domain.StandingOrder, error) {
	out := make([]domain.StandingOrder, 0)
	for _, order := range r.state.orders {
		if filter.Matches(order) {
			out = append(out, order)
		}
	}
	slices.SortFunc(out, func(a, b domain.StandingOrder) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	start, end := filter.Page.Window(len(out))
	return out[start:end], nil
}

type StandingOrderExecutionRepository struct {
	state *state
}

func (r *StandingOrderExecutionRepository) Create(_ context.Context, execution domain.StandingOrderExecution) (domain.StandingOrderExecution, error) {
	r.state.executions = append(r.state.executions, execution)
	return execution, nil
}

func (r *StandingOrderExecutionRepository) ListByOrder(_ context.Context, orderID string) ([]domain.StandingOrderExecution, error) {
	out := make([]domain.StandingOrderExecution, 0)
	for _, execution := range r.state.executions {
		if execution.StandingOrderID == orderID {
			out = append(out, execution)
		}
	}
	return out, nil
}
