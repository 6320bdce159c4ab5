package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
)

type StandingOrderService struct {
	uow         repo_interfaces.UnitOfWork
	poster      service_interfaces.Poster
	concurrency int
	now         func() time.Time
}

func NewStandingOrderService(uow repo_interfaces.UnitOfWork, poster service_interfaces.Poster, concurrency int) *StandingOrderService {
	return &StandingOrderService{
		uow:         uow,
		poster:      poster,
		concurrency: concurrency,
		now:         time.Now,
	}
}

var _ service_interfaces.StandingOrderService = (*StandingOrderService)(nil)

func (s *StandingOrderService) Create(ctx context.Context, req domain.NewStandingOrder) (domain.StandingOrder, error) {
	logger.Info("standing order service create request", logger.Fields{
		"fromAccountId": req.FromAccountID,
		"toAccountId":   valueOrEmpty(req.ToAccountID),
		"amount":        req.Amount.String(),
		"frequency":     req.Frequency,
	})

	now := s.now().UTC()
	if req.StartDate.IsZero() {
		req.StartDate = now
	}
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := validateStandingOrder(req); err != nil {
		logger.Error("standing order service create validation failed", err, nil)
		return domain.StandingOrder{}, err
	}

	order := domain.StandingOrder{
		ID:                uuid.NewString(),
		Reference:         newReference(referencePrefixStandingOrder),
		FromAccountID:     strings.TrimSpace(req.FromAccountID),
		ToAccountID:       req.ToAccountID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Frequency:         req.Frequency,
		StartDate:         req.StartDate.UTC(),
		EndDate:           req.EndDate,
		NextExecutionDate: req.StartDate.UTC(),
		Active:            true,
		Description:       strings.TrimSpace(req.Description),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var created domain.StandingOrder
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		for _, id := range []string{order.FromAccountID, valueOrEmpty(order.ToAccountID)} {
			if id == "" {
				continue
			}
			account, err := tx.Accounts().Get(ctx, id)
			if err != nil {
				return err
			}
			if account.IsInternal() || !strings.EqualFold(account.Currency, order.Currency) {
				return fmt.Errorf("%w: account %s cannot carry a %s standing order", domain.ErrValidation, id, order.Currency)
			}
		}
		var err error
		created, err = tx.StandingOrders().Create(ctx, order)
		return err
	})
	if err != nil {
		logger.Error("standing order service create failed", err, logger.Fields{"fromAccountId": req.FromAccountID})
		return domain.StandingOrder{}, err
	}

	logger.Info("standing order service create success", logger.Fields{
		"standingOrderId":   created.ID,
		"reference":         created.Reference,
		"nextExecutionDate": created.NextExecutionDate,
	})
	return created, nil
}

func (s *StandingOrderService) Cancel(ctx context.Context, orderID string) (domain.StandingOrder, error) {
	logger.Info("standing order service cancel request", logger.Fields{"standingOrderId": orderID})

	var cancelled domain.StandingOrder
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		order, err := tx.StandingOrders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Active {
			return fmt.Errorf("%w: standing order %s is not active", domain.ErrInvalidState, order.ID)
		}
		order.Active = false
		order.UpdatedAt = s.now().UTC()
		cancelled, err = tx.StandingOrders().Update(ctx, order)
		return err
	})
	if err != nil {
		logger.Error("standing order service cancel failed", err, logger.Fields{"standingOrderId": orderID})
		return domain.StandingOrder{}, err
	}
	return cancelled, nil
}

func (s *StandingOrderService) Executions(ctx context.Context, orderID string) ([]domain.StandingOrderExecution, error) {
	var executions []domain.StandingOrderExecution
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.StandingOrders().Get(ctx, orderID); err != nil {
			return err
		}
		var err error
		executions, err = tx.Executions().ListByOrder(ctx, orderID)
		return err
	})
	return executions, err
}

func (s *StandingOrderService) List(ctx context.Context, filter domain.StandingOrderFilter) ([]domain.StandingOrder, error) {
	filter.Page = filter.Page.Normalize()

	var orders []domain.StandingOrder
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		orders, err = tx.StandingOrders().List(ctx, filter)
		return err
	})
	if err != nil {
		logger.Error("standing order service list failed", err, logger.Fields{"accountId": valueOrEmpty(filter.AccountID)})
		return nil, err
	}
	return orders, nil
}

// RunDue executes every active order due at now. Succeeded counts completed
// executions; a failed posting is still recorded and advances the order.
func (s *StandingOrderService) RunDue(ctx context.Context, now time.Time) (domain.BatchResult, error) {
	logger.Info("standing order service run request", logger.Fields{"now": now})

	var due []domain.StandingOrder
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		due, err = tx.StandingOrders().ListDue(ctx, now)
		return err
	})
	if err != nil {
		logger.Error("standing order service load due orders failed", err, nil)
		return domain.BatchResult{}, err
	}

	ids := make([]string, 0, len(due))
	for _, order := range due {
		ids = append(ids, order.ID)
	}

	result := runBatch(ctx, "standing order", s.concurrency, ids, func(ctx context.Context, id string) (bool, error) {
		return s.execute(ctx, id, now)
	})

	logger.Info("standing order service run complete", logger.Fields{
		"due":       len(ids),
		"succeeded": result.Succeeded,
		"skipped":   result.Skipped,
		"failed":    len(result.Failures),
	})
	return result, ctx.Err()
}

// execute runs one order. The order is re-read under lock, so an order some
// other runner already advanced is skipped.
func (s *StandingOrderService) execute(ctx context.Context, orderID string, now time.Time) (bool, error) {
	var notDue bool
	var txn domain.Transaction
	var entries []domain.Entry

	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		notDue = false
		order, err := tx.StandingOrders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsDue(now) {
			notDue = true
			return nil
		}

		txn = transactionForOrder(order)
		if entries, err = s.poster.PostWithin(ctx, tx, &txn); err != nil {
			return err
		}
		if _, err := tx.Executions().Create(ctx, domain.StandingOrderExecution{
			ID:              uuid.NewString(),
			StandingOrderID: order.ID,
			ExecutionDate:   now,
			Amount:          order.Amount,
			Status:          domain.ExecutionStatusCompleted,
			TransactionID:   stringPtr(txn.ID),
		}); err != nil {
			return err
		}

		order.Advance()
		order.UpdatedAt = now
		_, err = tx.StandingOrders().Update(ctx, order)
		return err
	})
	if err == nil {
		if notDue {
			return false, nil
		}
		s.poster.Notify(txn, entries)
		return true, nil
	}
	if ctx.Err() != nil {
		return false, err
	}

	reason := err.Error()
	recordErr := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		notDue = false
		order, err := tx.StandingOrders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsDue(now) {
			notDue = true
			return nil
		}

		failed := transactionForOrder(order)
		if err := s.poster.RecordFailed(ctx, tx, &failed, reason); err != nil {
			return err
		}
		if _, err := tx.Executions().Create(ctx, domain.StandingOrderExecution{
			ID:              uuid.NewString(),
			StandingOrderID: order.ID,
			ExecutionDate:   now,
			Amount:          order.Amount,
			Status:          domain.ExecutionStatusFailed,
			TransactionID:   stringPtr(failed.ID),
			FailureReason:   stringPtr(reason),
		}); err != nil {
			return err
		}

		order.Advance()
		order.UpdatedAt = now
		_, err = tx.StandingOrders().Update(ctx, order)
		return err
	})
	if recordErr != nil {
		logger.Error("standing order service record failure failed", recordErr, logger.Fields{"standingOrderId": orderID})
		return false, fmt.Errorf("%w (recording failure: %v)", err, recordErr)
	}
	if notDue {
		return false, nil
	}
	return false, err
}

func transactionForOrder(order domain.StandingOrder) domain.Transaction {
	txnType := domain.TransactionTypeTransfer
	if valueOrEmpty(order.ToAccountID) == "" {
		txnType = domain.TransactionTypeWithdrawal
	}
	description := order.Description
	if description == "" {
		description = "Standing order " + order.Reference
	}

	return domain.Transaction{
		Reference:     newReference(referencePrefixStandingOrder),
		FromAccountID: stringPtr(order.FromAccountID),
		ToAccountID:   order.ToAccountID,
		Amount:        order.Amount,
		Currency:      order.Currency,
		Type:          txnType,
		Description:   description,
	}
}

func validateStandingOrder(req domain.NewStandingOrder) error {
	var errs []string

	from := strings.TrimSpace(req.FromAccountID)
	if from == "" {
		errs = append(errs, "fromAccountId is required")
	}
	if from != "" && from == valueOrEmpty(req.ToAccountID) {
		errs = append(errs, "fromAccountId and toAccountId cannot be the same")
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	} else if !money.HasValidScale(req.Currency, req.Amount) {
		errs = append(errs, "amount has too many decimal places for the currency")
	}
	if len(req.Currency) != 3 {
		errs = append(errs, "currency must be a 3 letter code")
	}
	if !req.Frequency.Valid() {
		errs = append(errs, "frequency must be one of DAILY, WEEKLY, MONTHLY")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		errs = append(errs, "endDate cannot be before startDate")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
