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
	"github.com/shopspring/decimal"
)

const daysPerLoanMonth = 30

var maxRatePercent = decimal.NewFromInt(100)

// LoanService is the only writer of loans and loan payments. Money movement
// goes through the posting engine inside the loan's unit of work.
type LoanService struct {
	uow             repo_interfaces.UnitOfWork
	poster          service_interfaces.Poster
	provisionalRate decimal.Decimal
	now             func() time.Time
}

func NewLoanService(uow repo_interfaces.UnitOfWork, poster service_interfaces.Poster, provisionalRate decimal.Decimal) *LoanService {
	return &LoanService{
		uow:             uow,
		poster:          poster,
		provisionalRate: provisionalRate,
		now:             time.Now,
	}
}

var _ service_interfaces.LoanService = (*LoanService)(nil)

// Apply records a PENDING loan quoted at the provisional rate.
func (s *LoanService) Apply(ctx context.Context, req domain.LoanApplication) (domain.Loan, error) {
	logger.Info("loan service apply request", logger.Fields{
		"customerId": req.CustomerID,
		"accountId":  req.AccountID,
		"principal":  req.Principal.String(),
		"termMonths": req.TermMonths,
	})

	if req.LoanType == "" {
		req.LoanType = domain.LoanTypePersonal
	}
	if err := validateApplication(req); err != nil {
		logger.Error("loan service apply validation failed", err, nil)
		return domain.Loan{}, err
	}

	var created domain.Loan
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		now := s.now().UTC()
		loan := domain.Loan{
			ID:                    uuid.NewString(),
			LoanNumber:            newLoanNumber(),
			CustomerID:            strings.TrimSpace(req.CustomerID),
			AccountID:             strings.TrimSpace(req.AccountID),
			LoanType:              req.LoanType,
			PrincipalAmount:       req.Principal,
			InterestRate:          s.provisionalRate,
			TermMonths:            req.TermMonths,
			MonthlyPayment:        MonthlyPayment(req.Principal, s.provisionalRate, req.TermMonths),
			Status:                domain.LoanStatusPending,
			OutstandingBalance:    req.Principal,
			DisbursedAmount:       decimal.Zero,
			Purpose:               strings.TrimSpace(req.Purpose),
			CollateralDescription: strings.TrimSpace(req.CollateralDescription),
			ApplicationDate:       now,
			CreatedAt:             now,
			UpdatedAt:             now,
		}

		err = s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
			account, err := tx.Accounts().Get(ctx, loan.AccountID)
			if err != nil {
				return err
			}
			if account.IsInternal() || account.CustomerID != loan.CustomerID {
				return fmt.Errorf("%w: account %s does not belong to customer %s", domain.ErrValidation, account.ID, loan.CustomerID)
			}
			created, err = tx.Loans().Create(ctx, loan)
			return err
		})
		if err == nil || !isConflict(err) {
			break
		}
	}
	if err != nil {
		logger.Error("loan service apply failed", err, logger.Fields{"customerId": req.CustomerID})
		return domain.Loan{}, err
	}

	logger.Info("loan service apply success", logger.Fields{
		"loanId":         created.ID,
		"loanNumber":     created.LoanNumber,
		"monthlyPayment": created.MonthlyPayment.String(),
	})
	return created, nil
}

// Approve fixes the final rate and amount and recomputes the payment.
func (s *LoanService) Approve(ctx context.Context, loanID string, approval domain.LoanApproval) (domain.Loan, error) {
	logger.Info("loan service approve request", logger.Fields{
		"loanId":       loanID,
		"interestRate": approval.InterestRate.String(),
	})

	if err := validateApproval(approval); err != nil {
		return domain.Loan{}, err
	}

	var approved domain.Loan
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		loan, err := tx.Loans().GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusPending {
			return fmt.Errorf("%w: loan %s is %s, expected %s", domain.ErrInvalidState, loan.ID, loan.Status, domain.LoanStatusPending)
		}

		amount := loan.PrincipalAmount
		if approval.ApprovedAmount != nil {
			amount = *approval.ApprovedAmount
		}

		now := s.now().UTC()
		loan.PrincipalAmount = amount
		loan.InterestRate = approval.InterestRate
		loan.OutstandingBalance = amount
		loan.MonthlyPayment = MonthlyPayment(amount, approval.InterestRate, loan.TermMonths)
		loan.Status = domain.LoanStatusApproved
		loan.ApprovalDate = timePtr(now)
		loan.MaturityDate = timePtr(now.AddDate(0, 0, loan.TermMonths*daysPerLoanMonth))
		loan.UpdatedAt = now

		approved, err = tx.Loans().Update(ctx, loan)
		return err
	})
	if err != nil {
		logger.Error("loan service approve failed", err, logger.Fields{"loanId": loanID})
		return domain.Loan{}, err
	}

	logger.Info("loan service approve success", logger.Fields{
		"loanId":         approved.ID,
		"monthlyPayment": approved.MonthlyPayment.String(),
	})
	return approved, nil
}

// Disburse credits the principal to the linked account and activates the
// loan in one unit of work. A failed posting leaves the loan APPROVED.
func (s *LoanService) Disburse(ctx context.Context, loanID string) (domain.Loan, domain.Transaction, error) {
	logger.Info("loan service disburse request", logger.Fields{"loanId": loanID})

	var active domain.Loan
	var txn domain.Transaction
	var entries []domain.Entry
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		loan, err := tx.Loans().GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusApproved {
			return fmt.Errorf("%w: loan %s is %s, expected %s", domain.ErrInvalidState, loan.ID, loan.Status, domain.LoanStatusApproved)
		}
		account, err := tx.Accounts().Get(ctx, loan.AccountID)
		if err != nil {
			return err
		}

		txn = domain.Transaction{
			Reference:   newReference(referencePrefixDisbursement),
			ToAccountID: stringPtr(loan.AccountID),
			Amount:      loan.PrincipalAmount,
			Currency:    account.Currency,
			Type:        domain.TransactionTypeDeposit,
			Description: "Loan disbursement - " + loan.LoanNumber,
		}
		if entries, err = s.poster.PostWithin(ctx, tx, &txn); err != nil {
			return err
		}

		now := s.now().UTC()
		loan.Status = domain.LoanStatusActive
		loan.DisbursedAmount = loan.PrincipalAmount
		loan.OutstandingBalance = loan.PrincipalAmount
		loan.DisbursementDate = timePtr(now)
		loan.DisbursementTransactionID = stringPtr(txn.ID)
		loan.UpdatedAt = now

		active, err = tx.Loans().Update(ctx, loan)
		return err
	})
	if err != nil {
		logger.Error("loan service disburse failed", err, logger.Fields{"loanId": loanID})
		return domain.Loan{}, domain.Transaction{}, err
	}

	logger.Info("loan service disburse success", logger.Fields{
		"loanId":        active.ID,
		"transactionId": txn.ID,
		"amount":        txn.Amount.String(),
	})
	s.poster.Notify(txn, entries)
	return active, txn, nil
}

// Pay allocates amount to interest first, then principal. With a source
// account the payment is debited from it in the same unit of work.
func (s *LoanService) Pay(ctx context.Context, loanID string, amount decimal.Decimal, sourceAccountID *string) (domain.LoanPayment, domain.Loan, error) {
	logger.Info("loan service payment request", logger.Fields{
		"loanId":          loanID,
		"amount":          amount.String(),
		"sourceAccountId": valueOrEmpty(sourceAccountID),
	})

	if !amount.IsPositive() {
		return domain.LoanPayment{}, domain.Loan{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	if !money.HasValidScale("", amount) {
		return domain.LoanPayment{}, domain.Loan{}, fmt.Errorf("%w: amount %s has more than two decimal places", domain.ErrValidation, amount)
	}

	var payment domain.LoanPayment
	var updated domain.Loan
	var txn domain.Transaction
	var entries []domain.Entry
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		loan, err := tx.Loans().GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusActive {
			return fmt.Errorf("%w: loan %s is %s, expected %s", domain.ErrInvalidState, loan.ID, loan.Status, domain.LoanStatusActive)
		}

		interest := monthlyInterest(loan.OutstandingBalance, loan.InterestRate)
		principal := amount.Sub(interest)
		if principal.IsNegative() {
			principal = decimal.Zero
			interest = amount
		}

		count, err := tx.LoanPayments().CountByLoan(ctx, loan.ID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		payment = domain.LoanPayment{
			ID:                  uuid.NewString(),
			LoanID:              loan.ID,
			PaymentNumber:       fmt.Sprintf("PMT%03d", count+1),
			PaymentDate:         now,
			AmountPaid:          amount,
			InterestPaid:        interest,
			PrincipalPaid:       principal,
			BalanceAfterPayment: loan.OutstandingBalance.Sub(principal),
		}

		if source := valueOrEmpty(sourceAccountID); source != "" {
			account, err := tx.Accounts().Get(ctx, source)
			if err != nil {
				return err
			}
			txn = domain.Transaction{
				Reference:     newReference(referencePrefixLoanPayment),
				FromAccountID: stringPtr(source),
				Amount:        amount,
				Currency:      account.Currency,
				Type:          domain.TransactionTypeWithdrawal,
				Description:   fmt.Sprintf("Loan repayment %s - %s", payment.PaymentNumber, loan.LoanNumber),
			}
			if entries, err = s.poster.PostWithin(ctx, tx, &txn); err != nil {
				return err
			}
			payment.TransactionID = stringPtr(txn.ID)
		}

		if payment, err = tx.LoanPayments().Create(ctx, payment); err != nil {
			return err
		}

		loan.OutstandingBalance = loan.OutstandingBalance.Sub(principal)
		if !loan.OutstandingBalance.IsPositive() {
			loan.OutstandingBalance = decimal.Zero
			loan.Status = domain.LoanStatusClosed
		}
		loan.UpdatedAt = now

		updated, err = tx.Loans().Update(ctx, loan)
		return err
	})
	if err != nil {
		logger.Error("loan service payment failed", err, logger.Fields{"loanId": loanID})
		return domain.LoanPayment{}, domain.Loan{}, err
	}

	logger.Info("loan service payment success", logger.Fields{
		"loanId":        updated.ID,
		"paymentNumber": payment.PaymentNumber,
		"interestPaid":  payment.InterestPaid.String(),
		"principalPaid": payment.PrincipalPaid.String(),
		"outstanding":   updated.OutstandingBalance.String(),
		"status":        updated.Status,
	})
	s.poster.Notify(txn, entries)
	return payment, updated, nil
}

func (s *LoanService) MarkDefaulted(ctx context.Context, loanID string) (domain.Loan, error) {
	logger.Info("loan service mark defaulted request", logger.Fields{"loanId": loanID})

	var defaulted domain.Loan
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		loan, err := tx.Loans().GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.Status != domain.LoanStatusActive {
			return fmt.Errorf("%w: loan %s is %s, expected %s", domain.ErrInvalidState, loan.ID, loan.Status, domain.LoanStatusActive)
		}
		loan.Status = domain.LoanStatusDefaulted
		loan.UpdatedAt = s.now().UTC()
		defaulted, err = tx.Loans().Update(ctx, loan)
		return err
	})
	if err != nil {
		logger.Error("loan service mark defaulted failed", err, logger.Fields{"loanId": loanID})
		return domain.Loan{}, err
	}
	return defaulted, nil
}

func (s *LoanService) Get(ctx context.Context, loanID string) (domain.Loan, error) {
	var loan domain.Loan
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		var err error
		loan, err = tx.Loans().Get(ctx, loanID)
		return err
	})
	return loan, err
}

func (s *LoanService) Payments(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	var payments []domain.LoanPayment
	err := s.uow.Do(ctx, func(ctx context.Context, tx repo_interfaces.Tx) error {
		if _, err := tx.Loans().Get(ctx, loanID); err != nil {
			return err
		}
		var err error
		payments, err = tx.LoanPayments().ListByLoan(ctx, loanID)
		return err
	})
	return payments, err
}

// Schedule is the amortization table for the loan's current terms.
func (s *LoanService) Schedule(ctx context.Context, loanID string) ([]domain.ScheduleRow, error) {
	loan, err := s.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return AmortizationSchedule(loan.PrincipalAmount, loan.InterestRate, loan.TermMonths), nil
}

func validateApplication(req domain.LoanApplication) error {
	var errs []string

	if strings.TrimSpace(req.CustomerID) == "" {
		errs = append(errs, "customerId is required")
	}
	if strings.TrimSpace(req.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	if !req.LoanType.Valid() {
		errs = append(errs, "loanType must be one of PERSONAL, BUSINESS, MORTGAGE, AUTO")
	}
	if !req.Principal.IsPositive() {
		errs = append(errs, "principal must be greater than zero")
	} else if !money.HasValidScale("", req.Principal) {
		errs = append(errs, "principal cannot have more than two decimal places")
	}
	if req.TermMonths < domain.MinLoanTermMonths || req.TermMonths > domain.MaxLoanTermMonths {
		errs = append(errs, fmt.Sprintf("termMonths must be between %d and %d", domain.MinLoanTermMonths, domain.MaxLoanTermMonths))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}

func validateApproval(approval domain.LoanApproval) error {
	var errs []string

	if approval.InterestRate.IsNegative() || approval.InterestRate.GreaterThan(maxRatePercent) {
		errs = append(errs, "interestRate must be between 0 and 100")
	}
	if approval.ApprovedAmount != nil {
		if !approval.ApprovedAmount.IsPositive() {
			errs = append(errs, "approvedAmount must be greater than zero")
		} else if !money.HasValidScale("", *approval.ApprovedAmount) {
			errs = append(errs, "approvedAmount cannot have more than two decimal places")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
