package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillPaymentStatus string

const (
	BillPaymentStatusCompleted BillPaymentStatus = "COMPLETED"
	BillPaymentStatusFailed    BillPaymentStatus = "FAILED"
)

// BillPayment records a debit from a customer account to an external biller.
// The money moves as a WITHDRAWAL transaction; the payment keeps the biller
// details and the outcome.
type BillPayment struct {
	ID                string
	Reference         string
	AccountID         string
	BillerCode        string
	BillerName        string
	BillAccountNumber string
	Amount            decimal.Decimal
	Currency          string
	Status            BillPaymentStatus
	TransactionID     string
	FailureReason     *string
	PaymentDate       time.Time
}

type NewBillPayment struct {
	AccountID         string
	BillerCode        string
	BillerName        string
	BillAccountNumber string
	Amount            decimal.Decimal
	Currency          string
}
