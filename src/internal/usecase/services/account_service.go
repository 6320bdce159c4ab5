package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	uow repo_interfaces.UnitOfWork
}

func NewAccountService(uow repo_interfaces.UnitOfWork) *AccountService {
	return &AccountService{uow: uow}
}

var _ service_interfaces.AccountService = (*AccountService)(nil)

// Open creates a customer account with a zero balance.
func (s *AccountService) Open(ctx context.Context, req domain.NewAccount) (domain.Account, domain.Balance, error) {
	logger.Info("account service open account request", logger.Fields{
		"customerId": req.CustomerID,
		"type":       req.Type,
		"currency":   req.Currency,
	})

	if err := validateNewAccount(req); err != nil {
		logger.Error("account service open account validation failed", err, nil)
		return domain.Account{}, domain.Balance{}, err
	}

	var created domain.Account
	var balance domain.Balance
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := time.Now().UTC()
		account := domain.Account{
			ID:             uuid.NewString(),
			AccountNumber:  newAccountNumber(),
			CustomerID:     strings.TrimSpace(req.CustomerID),
			Type:           req.Type,
			Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
			Status:         domain.AccountStatusActive,
			OverdraftLimit: req.OverdraftLimit,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		err = s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
			var err error
			if created, err = tx.Accounts().Create(ctx, account); err != nil {
				return err
			}
			balance = domain.Balance{
				AccountID:        created.ID,
				LedgerBalance:    decimal.Zero,
				AvailableBalance: decimal.Zero,
				UpdatedAt:        now,
			}
			return tx.Balances().Create(ctx, balance)
		})
		if err == nil || !isConflict(err) {
			break
		}
	}
	if err != nil {
		logger.Error("account service open account repository failed", err, logger.Fields{"customerId": req.CustomerID})
		return domain.Account{}, domain.Balance{}, err
	}

	logger.Info("account service open account success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
		"customerId":    created.CustomerID,
	})
	return created, balance, nil
}

func (s *AccountService) Get(ctx context.Context, accountID string) (domain.Account, error) {
	var account domain.Account
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		account, err = s.lookup(ctx, tx, accountID)
		return err
	})
	return account, err
}

// ListByCustomer returns the customer's accounts in the order they were
// opened. A customer with no accounts gets an empty list.
func (s *AccountService) ListByCustomer(ctx context.Context, customerID string) ([]domain.Account, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, fmt.Errorf("%w: customerId is required", domain.ErrValidation)
	}

	var accounts []domain.Account
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		accounts, err = tx.Accounts().ListByCustomer(ctx, customerID)
		return err
	})
	if err != nil {
		logger.Error("account service list by customer failed", err, logger.Fields{"customerId": customerID})
		return nil, err
	}
	return accounts, nil
}

// Balance returns a consistent snapshot of the account's balance.
func (s *AccountService) Balance(ctx context.Context, accountID string) (domain.Balance, error) {
	var balance domain.Balance
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		account, err := s.lookup(ctx, tx, accountID)
		if err != nil {
			return err
		}
		balance, err = tx.Balances().Get(ctx, account.ID)
		return err
	})
	return balance, err
}

// ChangeStatus moves an account between ACTIVE, INACTIVE, SUSPENDED and
// CLOSED. Closing requires a zero balance with nothing held.
func (s *AccountService) ChangeStatus(ctx context.Context, accountID string, status domain.AccountStatus) (domain.Account, error) {
	logger.Info("account service change status request", logger.Fields{
		"accountId": accountID,
		"status":    status,
	})

	switch status {
	case domain.AccountStatusActive, domain.AccountStatusInactive, domain.AccountStatusSuspended, domain.AccountStatusClosed:
	default:
		return domain.Account{}, fmt.Errorf("%w: unsupported account status %q", domain.ErrValidation, status)
	}

	var updated domain.Account
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		account, err := s.lookup(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if account.IsInternal() {
			return fmt.Errorf("%w: account %s is internal", domain.ErrValidation, account.ID)
		}
		if account.Status == domain.AccountStatusClosed {
			return fmt.Errorf("%w: account %s is closed", domain.ErrInvalidState, account.ID)
		}

		balance, err := tx.Balances().GetForUpdate(ctx, account.ID)
		if err != nil {
			return err
		}
		if status == domain.AccountStatusClosed && (!balance.LedgerBalance.IsZero() || !balance.AvailableBalance.IsZero()) {
			return fmt.Errorf("%w: account %s has a non-zero balance", domain.ErrInvalidState, account.ID)
		}

		updated, err = tx.Accounts().UpdateStatus(ctx, account.ID, status)
		return err
	})
	if err != nil {
		logger.Error("account service change status failed", err, logger.Fields{"accountId": accountID})
		return domain.Account{}, err
	}

	logger.Info("account service change status success", logger.Fields{
		"accountId": updated.ID,
		"status":    updated.Status,
	})
	return updated, nil
}

// lookup accepts either the account id or its ten digit account number.
func (s *AccountService) lookup(ctx context.Context, tx repo_interfaces.Tx, ref string) (domain.Account, error) {
	ref = strings.TrimSpace(ref)
	if isValidAccountNumber(ref) {
		account, err := tx.Accounts().GetByAccountNumber(ctx, ref)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return account, err
		}
	}
	return tx.Accounts().Get(ctx, ref)
}

func validateNewAccount(req domain.NewAccount) error {
	var errs []string

	if strings.TrimSpace(req.CustomerID) == "" {
		errs = append(errs, "customerId is required")
	}
	if !req.Type.IsCustomer() {
		errs = append(errs, "type must be one of SAVINGS, CURRENT, LOAN")
	}
	if len(strings.TrimSpace(req.Currency)) != 3 {
		errs = append(errs, "currency must be a 3 letter code")
	}
	if req.OverdraftLimit.IsNegative() {
		errs = append(errs, "overdraftLimit cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
