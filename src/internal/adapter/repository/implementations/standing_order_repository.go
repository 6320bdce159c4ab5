package implementations

import (
	"context"
	"database/sql"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
)

const standingOrderColumns = `id, reference, from_account_id, to_account_id, amount, currency, frequency, start_date,
	end_date, next_execution_date, active, description, created_at, updated_at`

type StandingOrderRepository struct {
	q querier
}

func (r *StandingOrderRepository) Create(ctx context.Context, order domain.StandingOrder) (domain.StandingOrder, error) {
	logger.Info("standing order repository create", logger.Fields{
		"standingOrderId": order.ID,
		"reference":       order.Reference,
		"frequency":       order.Frequency,
	})

	const query = `
INSERT INTO standing_orders (
	id,
	reference,
	from_account_id,
	to_account_id,
	amount,
	currency,
	frequency,
	start_date,
	end_date,
	next_execution_date,
	active,
	description,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + standingOrderColumns

	created, err := scanStandingOrder(r.q.QueryRowContext(
		ctx,
		query,
		order.ID,
		order.Reference,
		order.FromAccountID,
		nullString(order.ToAccountID),
		order.Amount,
		order.Currency,
		order.Frequency,
		order.StartDate,
		nullTime(order.EndDate),
		order.NextExecutionDate,
		order.Active,
		order.Description,
		order.CreatedAt,
		order.UpdatedAt,
	))
	if err != nil {
		logger.Error("standing order repository create failed", err, logger.Fields{"reference": order.Reference})
		return domain.StandingOrder{}, classify("create standing order", err)
	}
	return created, nil
}

func (r *StandingOrderRepository) Get(ctx context.Context, id string) (domain.StandingOrder, error) {
	const query = `SELECT ` + standingOrderColumns + ` FROM standing_orders WHERE id = $1`

	order, err := scanStandingOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.StandingOrder{}, classify("get standing order "+id, err)
	}
	return order, nil
}

func (r *StandingOrderRepository) GetForUpdate(ctx context.Context, id string) (domain.StandingOrder, error) {
	const query = `SELECT ` + standingOrderColumns + ` FROM standing_orders WHERE id = $1 FOR UPDATE`

	order, err := scanStandingOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.StandingOrder{}, classify("lock standing order "+id, err)
	}
	return order, nil
}

func (r *StandingOrderRepository) Update(ctx context.Context, order domain.StandingOrder) (domain.StandingOrder, error) {
	logger.Info("standing order repository update", logger.Fields{
		"standingOrderId":   order.ID,
		"nextExecutionDate": order.NextExecutionDate,
		"active":            order.Active,
	})

	const query = `
UPDATE standing_orders
SET next_execution_date = $2,
    active = $3,
    updated_at = $4
WHERE id = $1
RETURNING ` + standingOrderColumns

	updated, err := scanStandingOrder(r.q.QueryRowContext(ctx, query, order.ID, order.NextExecutionDate, order.Active, order.UpdatedAt))
	if err != nil {
		logger.Error("standing order repository update failed", err, logger.Fields{"standingOrderId": order.ID})
		return domain.StandingOrder{}, classify("update standing order", err)
	}
	return updated, nil
}

func (r *StandingOrderRepository) ListDue(ctx context.Context, now time.Time) ([]domain.StandingOrder, error) {
	const query = `
SELECT ` + standingOrderColumns + `
FROM standing_orders
WHERE active
  AND next_execution_date <= $1
ORDER BY next_execution_date, id`

	rows, err := r.q.QueryContext(ctx, query, now)
	if err != nil {
		logger.Error("standing order repository list due failed", err, nil)
		return nil, classify("list due standing orders", err)
	}
	defer rows.Close()

	orders := make([]domain.StandingOrder, 0)
	for rows.Next() {
		order, err := scanStandingOrder(rows)
		if err != nil {
			return nil, classify("scan standing order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate standing orders", err)
	}
	return orders, nil
}

func (r *StandingOrderRepository) List(ctx context.Context, filter domain.StandingOrderFilter) ([]domain.StandingOrder, error) {
	page := filter.Page.Normalize()

	const query = `
SELECT ` + standingOrderColumns + `
FROM standing_orders
WHERE ($1::text IS NULL OR from_account_id = $1)
  AND ($2::boolean IS NULL OR active = $2)
ORDER BY created_at, id
LIMIT $3 OFFSET $4`

	active := sql.NullBool{}
	if filter.Active != nil {
		active = sql.NullBool{Bool: *filter.Active, Valid: true}
	}

	rows, err := r.q.QueryContext(ctx, query, nullString(filter.AccountID), active, page.Limit, page.Offset)
	if err != nil {
		logger.Error("standing order repository list failed", err, nil)
		return nil, classify("list standing orders", err)
	}
	defer rows.Close()

	orders := make([]domain.StandingOrder, 0)
	for rows.Next() {
		order, err := scanStandingOrder(rows)
		if err != nil {
			return nil, classify("scan standing order", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate standing orders", err)
	}
	return orders, nil
}

func scanStandingOrder(row rowScanner) (domain.StandingOrder, error) {
	var (
		order       domain.StandingOrder
		toAccountID sql.NullString
		endDate     sql.NullTime
	)

	if err := row.Scan(
		&order.ID,
		&order.Reference,
		&order.FromAccountID,
		&toAccountID,
		&order.Amount,
		&order.Currency,
		&order.Frequency,
		&order.StartDate,
		&endDate,
		&order.NextExecutionDate,
		&order.Active,
		&order.Description,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return domain.StandingOrder{}, err
	}

	order.ToAccountID = stringFromNull(toAccountID)
	order.EndDate = timeFromNull(endDate)
	return order, nil
}

const executionColumns = `id, standing_order_id, execution_date, amount, status, transaction_id, failure_reason`

type StandingOrderExecutionRepository struct {
	q querier
}

func (r *StandingOrderExecutionRepository) Create(ctx context.Context, execution domain.StandingOrderExecution) (domain.StandingOrderExecution, error) {
	const query = `
INSERT INTO standing_order_executions (
	id,
	standing_order_id,
	execution_date,
	amount,
	status,
	transaction_id,
	failure_reason
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + executionColumns

	created, err := scanExecution(r.q.QueryRowContext(
		ctx,
		query,
		execution.ID,
		execution.StandingOrderID,
		execution.ExecutionDate,
		execution.Amount,
		execution.Status,
		nullString(execution.TransactionID),
		nullString(execution.FailureReason),
	))
	if err != nil {
		logger.Error("standing order execution repository create failed", err, logger.Fields{
			"standingOrderId": execution.StandingOrderID,
		})
		return domain.StandingOrderExecution{}, classify("create standing order execution", err)
	}
	return created, nil
}

func (r *StandingOrderExecutionRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.StandingOrderExecution, error) {
	const query = `SELECT ` + executionColumns + ` FROM standing_order_executions WHERE standing_order_id = $1 ORDER BY execution_date, id`

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, classify("list standing order executions", err)
	}
	defer rows.Close()

	executions := make([]domain.StandingOrderExecution, 0)
	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, classify("scan standing order execution", err)
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate standing order executions", err)
	}
	return executions, nil
}

func scanExecution(row rowScanner) (domain.StandingOrderExecution, error) {
	var (
		execution     domain.StandingOrderExecution
		transactionID sql.NullString
		failure       sql.NullString
	)

	if err := row.Scan(
		&execution.ID,
		&execution.StandingOrderID,
		&execution.ExecutionDate,
		&execution.Amount,
		&execution.Status,
		&transactionID,
		&failure,
	); err != nil {
		return domain.StandingOrderExecution{}, err
	}

	execution.TransactionID = stringFromNull(transactionID)
	execution.FailureReason = stringFromNull(failure)
	return execution, nil
}
