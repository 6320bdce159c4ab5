package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type BillPaymentRequest struct {
	AccountID         string          `json:"accountId"`
	BillerCode        string          `json:"billerCode"`
	BillerName        string          `json:"billerName,omitempty"`
	BillAccountNumber string          `json:"billAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
}

func (r BillPaymentRequest) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(r.AccountID) == "" {
		errs.add("accountId is required")
	}
	if strings.TrimSpace(r.BillerCode) == "" {
		errs.add("billerCode is required")
	}
	if strings.TrimSpace(r.BillAccountNumber) == "" {
		errs.add("billAccountNumber is required")
	}
	if !r.Amount.IsPositive() {
		errs.add("amount must be greater than zero")
	} else if !money.HasValidScale(r.Currency, r.Amount) {
		errs.add("amount has too many decimal places for the currency")
	}
	if !isCurrencyCode(r.Currency) {
		errs.add("currency must be a 3 letter code")
	}

	return errs.err()
}

func (r BillPaymentRequest) ToDomain() domain.NewBillPayment {
	return domain.NewBillPayment{
		AccountID:         strings.TrimSpace(r.AccountID),
		BillerCode:        strings.ToUpper(strings.TrimSpace(r.BillerCode)),
		BillerName:        strings.TrimSpace(r.BillerName),
		BillAccountNumber: strings.TrimSpace(r.BillAccountNumber),
		Amount:            r.Amount,
		Currency:          strings.ToUpper(strings.TrimSpace(r.Currency)),
	}
}

type BillPaymentResponse struct {
	ID                string    `json:"id"`
	Reference         string    `json:"reference"`
	AccountID         string    `json:"accountId"`
	BillerCode        string    `json:"billerCode"`
	BillerName        string    `json:"billerName,omitempty"`
	BillAccountNumber string    `json:"billAccountNumber"`
	Amount            string    `json:"amount"`
	Currency          string    `json:"currency"`
	Status            string    `json:"status"`
	TransactionID     string    `json:"transactionId"`
	FailureReason     *string   `json:"failureReason,omitempty"`
	PaymentDate       time.Time `json:"paymentDate"`
}

func NewBillPaymentResponse(payment domain.BillPayment) BillPaymentResponse {
	return BillPaymentResponse{
		ID:                payment.ID,
		Reference:         payment.Reference,
		AccountID:         payment.AccountID,
		BillerCode:        payment.BillerCode,
		BillerName:        payment.BillerName,
		BillAccountNumber: payment.BillAccountNumber,
		Amount:            money.Format(payment.Currency, payment.Amount),
		Currency:          payment.Currency,
		Status:            string(payment.Status),
		TransactionID:     payment.TransactionID,
		FailureReason:     payment.FailureReason,
		PaymentDate:       payment.PaymentDate,
	}
}

func NewBillPaymentResponses(payments []domain.BillPayment) []BillPaymentResponse {
	out := make([]BillPaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, NewBillPaymentResponse(payment))
	}
	return out
}

type BillPaymentResultResponse struct {
	Payment     BillPaymentResponse `json:"payment"`
	Transaction TransactionResponse `json:"transaction"`
}
