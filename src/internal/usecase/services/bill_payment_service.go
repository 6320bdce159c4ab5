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

// BillPaymentService debits a customer account towards an external biller.
// The debit is a WITHDRAWAL posted by the posting engine in the same unit of
// work that stores the payment record.
type BillPaymentService struct {
	uow    repo_interfaces.UnitOfWork
	poster service_interfaces.Poster
	now    func() time.Time
}

func NewBillPaymentService(uow repo_interfaces.UnitOfWork, poster service_interfaces.Poster) *BillPaymentService {
	return &BillPaymentService{
		uow:    uow,
		poster: poster,
		now:    time.Now,
	}
}

var _ service_interfaces.BillPaymentService = (*BillPaymentService)(nil)

// Pay posts the payment. A posting the engine rejects, such as one short of
// funds, is stored as a FAILED payment with a FAILED transaction and the
// error is returned alongside them.
func (s *BillPaymentService) Pay(ctx context.Context, req domain.NewBillPayment) (domain.BillPayment, domain.Transaction, error) {
	logger.Info("bill payment service pay request", logger.Fields{
		"accountId":  req.AccountID,
		"billerCode": req.BillerCode,
		"amount":     req.Amount.String(),
		"currency":   req.Currency,
	})

	req = normalizeBillPayment(req)
	if err := validateBillPayment(req); err != nil {
		logger.Error("bill payment service pay validation failed", err, nil)
		return domain.BillPayment{}, domain.Transaction{}, err
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		account, err := tx.Accounts().Get(ctx, req.AccountID)
		if err != nil {
			return err
		}
		if account.IsInternal() || !strings.EqualFold(account.Currency, req.Currency) {
			return fmt.Errorf("%w: account %s cannot pay a %s bill", domain.ErrValidation, account.ID, req.Currency)
		}
		return nil
	})
	if err != nil {
		logger.Error("bill payment service pay account check failed", err, logger.Fields{"accountId": req.AccountID})
		return domain.BillPayment{}, domain.Transaction{}, err
	}

	reference := newReference(referencePrefixBillPayment)

	var payment domain.BillPayment
	var txn domain.Transaction
	var entries []domain.Entry
	err = s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn = transactionForBill(req, reference)
		var err error
		if entries, err = s.poster.PostWithin(ctx, tx, &txn); err != nil {
			return err
		}
		payment, err = tx.BillPayments().Create(ctx, s.billPayment(req, reference, txn, domain.BillPaymentStatusCompleted, nil))
		return err
	})
	if err == nil {
		s.poster.Notify(txn, entries)
		logger.Info("bill payment service pay success", logger.Fields{
			"billPaymentId": payment.ID,
			"reference":     payment.Reference,
			"transactionId": txn.ID,
		})
		return payment, txn, nil
	}
	if !failsTransaction(ctx, err) {
		logger.Error("bill payment service pay failed", err, logger.Fields{"accountId": req.AccountID})
		return domain.BillPayment{}, domain.Transaction{}, err
	}

	reason := err.Error()
	recordErr := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		txn = transactionForBill(req, reference)
		if err := s.poster.RecordFailed(ctx, tx, &txn, reason); err != nil {
			return err
		}
		var err error
		payment, err = tx.BillPayments().Create(ctx, s.billPayment(req, reference, txn, domain.BillPaymentStatusFailed, stringPtr(reason)))
		return err
	})
	if recordErr != nil {
		logger.Error("bill payment service record failure failed", recordErr, logger.Fields{"reference": reference})
		return domain.BillPayment{}, domain.Transaction{}, fmt.Errorf("%w (recording failure: %v)", err, recordErr)
	}

	logger.Error("bill payment service pay failed", err, logger.Fields{
		"billPaymentId": payment.ID,
		"reference":     payment.Reference,
		"transactionId": txn.ID,
	})
	return payment, txn, err
}

// List returns payments newest first, optionally for one account.
func (s *BillPaymentService) List(ctx context.Context, accountID *string, page domain.Page) ([]domain.BillPayment, error) {
	if accountID != nil && strings.TrimSpace(*accountID) == "" {
		accountID = nil
	}

	var payments []domain.BillPayment
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		if accountID != nil {
			if _, err := tx.Accounts().Get(ctx, *accountID); err != nil {
				return err
			}
		}
		var err error
		payments, err = tx.BillPayments().List(ctx, accountID, page.Normalize())
		return err
	})
	if err != nil {
		logger.Error("bill payment service list failed", err, logger.Fields{"accountId": valueOrEmpty(accountID)})
		return nil, err
	}
	return payments, nil
}

func (s *BillPaymentService) billPayment(req domain.NewBillPayment, reference string, txn domain.Transaction, status domain.BillPaymentStatus, reason *string) domain.BillPayment {
	return domain.BillPayment{
		ID:                uuid.NewString(),
		Reference:         reference,
		AccountID:         req.AccountID,
		BillerCode:        req.BillerCode,
		BillerName:        req.BillerName,
		BillAccountNumber: req.BillAccountNumber,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Status:            status,
		TransactionID:     txn.ID,
		FailureReason:     reason,
		PaymentDate:       s.now().UTC(),
	}
}

func transactionForBill(req domain.NewBillPayment, reference string) domain.Transaction {
	return domain.Transaction{
		FromAccountID: stringPtr(req.AccountID),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Type:          domain.TransactionTypeWithdrawal,
		Description:   fmt.Sprintf("Bill payment %s to %s %s", reference, req.BillerCode, req.BillAccountNumber),
	}
}

func normalizeBillPayment(req domain.NewBillPayment) domain.NewBillPayment {
	req.AccountID = strings.TrimSpace(req.AccountID)
	req.BillerCode = strings.ToUpper(strings.TrimSpace(req.BillerCode))
	req.BillerName = strings.TrimSpace(req.BillerName)
	req.BillAccountNumber = strings.TrimSpace(req.BillAccountNumber)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	return req
}

func validateBillPayment(req domain.NewBillPayment) error {
	var errs []string

	if req.AccountID == "" {
		errs = append(errs, "accountId is required")
	}
	if req.BillerCode == "" {
		errs = append(errs, "billerCode is required")
	}
	if req.BillAccountNumber == "" {
		errs = append(errs, "billAccountNumber is required")
	}
	if len(req.Currency) != 3 {
		errs = append(errs, "currency must be a 3 letter code")
	}
	if !req.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	} else if !money.HasValidScale(req.Currency, req.Amount) {
		errs = append(errs, "amount has too many decimal places for the currency")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
