package implementations

import (
	"context"
	"database/sql"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
)

const loanColumns = `id, loan_number, customer_id, account_id, loan_type, principal_amount, interest_rate,
	term_months, monthly_payment, status, outstanding_balance, disbursed_amount, purpose,
	collateral_description, application_date, approval_date, disbursement_date, maturity_date,
	disbursement_transaction_id, created_at, updated_at`

type LoanRepository struct {
	q querier
}

func (r *LoanRepository) Create(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	logger.Info("loan repository create", logger.Fields{
		"loanId":     loan.ID,
		"loanNumber": loan.LoanNumber,
		"customerId": loan.CustomerID,
	})

	const query = `
INSERT INTO loans (
	id,
	loan_number,
	customer_id,
	account_id,
	loan_type,
	principal_amount,
	interest_rate,
	term_months,
	monthly_payment,
	status,
	outstanding_balance,
	disbursed_amount,
	purpose,
	collateral_description,
	application_date,
	approval_date,
	disbursement_date,
	maturity_date,
	disbursement_transaction_id,
	created_at,
	updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
)
RETURNING ` + loanColumns

	created, err := scanLoan(r.q.QueryRowContext(
		ctx,
		query,
		loan.ID,
		loan.LoanNumber,
		loan.CustomerID,
		loan.AccountID,
		loan.LoanType,
		loan.PrincipalAmount,
		loan.InterestRate,
		loan.TermMonths,
		loan.MonthlyPayment,
		loan.Status,
		loan.OutstandingBalance,
		loan.DisbursedAmount,
		loan.Purpose,
		loan.CollateralDescription,
		loan.ApplicationDate,
		nullTime(loan.ApprovalDate),
		nullTime(loan.DisbursementDate),
		nullTime(loan.MaturityDate),
		nullString(loan.DisbursementTransactionID),
		loan.CreatedAt,
		loan.UpdatedAt,
	))
	if err != nil {
		logger.Error("loan repository create failed", err, logger.Fields{"loanNumber": loan.LoanNumber})
		return domain.Loan{}, classify("create loan", err)
	}
	return created, nil
}

func (r *LoanRepository) Get(ctx context.Context, id string) (domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	loan, err := scanLoan(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Loan{}, classify("get loan "+id, err)
	}
	return loan, nil
}

func (r *LoanRepository) GetForUpdate(ctx context.Context, id string) (domain.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	loan, err := scanLoan(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return domain.Loan{}, classify("lock loan "+id, err)
	}
	return loan, nil
}

func (r *LoanRepository) Update(ctx context.Context, loan domain.Loan) (domain.Loan, error) {
	logger.Info("loan repository update", logger.Fields{
		"loanId":             loan.ID,
		"status":             loan.Status,
		"outstandingBalance": loan.OutstandingBalance.String(),
	})

	const query = `
UPDATE loans
SET interest_rate = $2,
    principal_amount = $3,
    monthly_payment = $4,
    status = $5,
    outstanding_balance = $6,
    disbursed_amount = $7,
    approval_date = $8,
    disbursement_date = $9,
    maturity_date = $10,
    disbursement_transaction_id = $11,
    updated_at = $12
WHERE id = $1
RETURNING ` + loanColumns

	updated, err := scanLoan(r.q.QueryRowContext(
		ctx,
		query,
		loan.ID,
		loan.InterestRate,
		loan.PrincipalAmount,
		loan.MonthlyPayment,
		loan.Status,
		loan.OutstandingBalance,
		loan.DisbursedAmount,
		nullTime(loan.ApprovalDate),
		nullTime(loan.DisbursementDate),
		nullTime(loan.MaturityDate),
		nullString(loan.DisbursementTransactionID),
		loan.UpdatedAt,
	))
	if err != nil {
		logger.Error("loan repository update failed", err, logger.Fields{"loanId": loan.ID})
		return domain.Loan{}, classify("update loan", err)
	}
	return updated, nil
}

func scanLoan(row rowScanner) (domain.Loan, error) {
	var (
		loan             domain.Loan
		approvalDate     sql.NullTime
		disbursementDate sql.NullTime
		maturityDate     sql.NullTime
		disbursementTxn  sql.NullString
	)

	if err := row.Scan(
		&loan.ID,
		&loan.LoanNumber,
		&loan.CustomerID,
		&loan.AccountID,
		&loan.LoanType,
		&loan.PrincipalAmount,
		&loan.InterestRate,
		&loan.TermMonths,
		&loan.MonthlyPayment,
		&loan.Status,
		&loan.OutstandingBalance,
		&loan.DisbursedAmount,
		&loan.Purpose,
		&loan.CollateralDescription,
		&loan.ApplicationDate,
		&approvalDate,
		&disbursementDate,
		&maturityDate,
		&disbursementTxn,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		return domain.Loan{}, err
	}

	loan.ApprovalDate = timeFromNull(approvalDate)
	loan.DisbursementDate = timeFromNull(disbursementDate)
	loan.MaturityDate = timeFromNull(maturityDate)
	loan.DisbursementTransactionID = stringFromNull(disbursementTxn)
	return loan, nil
}

const loanPaymentColumns = `id, loan_id, payment_number, payment_date, amount_paid, interest_paid, principal_paid, balance_after_payment, transaction_id`

type LoanPaymentRepository struct {
	q querier
}

func (r *LoanPaymentRepository) Create(ctx context.Context, payment domain.LoanPayment) (domain.LoanPayment, error) {
	logger.Info("loan payment repository create", logger.Fields{
		"loanId":        payment.LoanID,
		"paymentNumber": payment.PaymentNumber,
		"amountPaid":    payment.AmountPaid.String(),
	})

	const query = `
INSERT INTO loan_payments (
	id,
	loan_id,
	payment_number,
	payment_date,
	amount_paid,
	interest_paid,
	principal_paid,
	balance_after_payment,
	transaction_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + loanPaymentColumns

	created, err := scanLoanPayment(r.q.QueryRowContext(
		ctx,
		query,
		payment.ID,
		payment.LoanID,
		payment.PaymentNumber,
		payment.PaymentDate,
		payment.AmountPaid,
		payment.InterestPaid,
		payment.PrincipalPaid,
		payment.BalanceAfterPayment,
		nullString(payment.TransactionID),
	))
	if err != nil {
		logger.Error("loan payment repository create failed", err, logger.Fields{"loanId": payment.LoanID})
		return domain.LoanPayment{}, classify("create loan payment", err)
	}
	return created, nil
}

func (r *LoanPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	const query = `SELECT ` + loanPaymentColumns + ` FROM loan_payments WHERE loan_id = $1 ORDER BY payment_number`

	rows, err := r.q.QueryContext(ctx, query, loanID)
	if err != nil {
		return nil, classify("list loan payments", err)
	}
	defer rows.Close()

	payments := make([]domain.LoanPayment, 0)
	for rows.Next() {
		payment, err := scanLoanPayment(rows)
		if err != nil {
			return nil, classify("scan loan payment", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate loan payments", err)
	}
	return payments, nil
}

func (r *LoanPaymentRepository) CountByLoan(ctx context.Context, loanID string) (int, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(1) FROM loan_payments WHERE loan_id = $1`, loanID).Scan(&count); err != nil {
		return 0, classify("count loan payments", err)
	}
	return count, nil
}

func scanLoanPayment(row rowScanner) (domain.LoanPayment, error) {
	var (
		payment       domain.LoanPayment
		transactionID sql.NullString
	)

	if err := row.Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.PaymentNumber,
		&payment.PaymentDate,
		&payment.AmountPaid,
		&payment.InterestPaid,
		&payment.PrincipalPaid,
		&payment.BalanceAfterPayment,
		&transactionID,
	); err != nil {
		return domain.LoanPayment{}, err
	}

	payment.TransactionID = stringFromNull(transactionID)
	return payment, nil
}
