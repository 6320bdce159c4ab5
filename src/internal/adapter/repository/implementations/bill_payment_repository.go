package implementations

import (
	"context"
	"database/sql"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
)

const billPaymentColumns = `id, reference, account_id, biller_code, biller_name, bill_account_number, amount, currency, status,
	transaction_id, failure_reason, payment_date`

type BillPaymentRepository struct {
	q querier
}

func (r *BillPaymentRepository) Create(ctx context.Context, payment domain.BillPayment) (domain.BillPayment, error) {
	logger.Info("bill payment repository create", logger.Fields{
		"reference": payment.Reference,
		"accountId": payment.AccountID,
		"status":    payment.Status,
	})

	const query = `
INSERT INTO bill_payments (
	id,
	reference,
	account_id,
	biller_code,
	biller_name,
	bill_account_number,
	amount,
	currency,
	status,
	transaction_id,
	failure_reason,
	payment_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + billPaymentColumns

	created, err := scanBillPayment(r.q.QueryRowContext(
		ctx,
		query,
		payment.ID,
		payment.Reference,
		payment.AccountID,
		payment.BillerCode,
		payment.BillerName,
		payment.BillAccountNumber,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.TransactionID,
		nullString(payment.FailureReason),
		payment.PaymentDate,
	))
	if err != nil {
		logger.Error("bill payment repository create failed", err, logger.Fields{"reference": payment.Reference})
		return domain.BillPayment{}, classify("create bill payment", err)
	}
	return created, nil
}

func (r *BillPaymentRepository) List(ctx context.Context, accountID *string, page domain.Page) ([]domain.BillPayment, error) {
	page = page.Normalize()

	const query = `
SELECT ` + billPaymentColumns + `
FROM bill_payments
WHERE ($1::text IS NULL OR account_id = $1)
ORDER BY payment_date DESC, id
LIMIT $2 OFFSET $3`

	rows, err := r.q.QueryContext(ctx, query, nullString(accountID), page.Limit, page.Offset)
	if err != nil {
		logger.Error("bill payment repository list failed", err, nil)
		return nil, classify("list bill payments", err)
	}
	defer rows.Close()

	payments := make([]domain.BillPayment, 0)
	for rows.Next() {
		payment, err := scanBillPayment(rows)
		if err != nil {
			return nil, classify("scan bill payment", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate bill payments", err)
	}
	return payments, nil
}

func scanBillPayment(row rowScanner) (domain.BillPayment, error) {
	var (
		payment       domain.BillPayment
		failureReason sql.NullString
	)

	err := row.Scan(
		&payment.ID,
		&payment.Reference,
		&payment.AccountID,
		&payment.BillerCode,
		&payment.BillerName,
		&payment.BillAccountNumber,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.TransactionID,
		&failureReason,
		&payment.PaymentDate,
	)
	if err != nil {
		return domain.BillPayment{}, err
	}

	payment.FailureReason = stringFromNull(failureReason)
	return payment, nil
}
