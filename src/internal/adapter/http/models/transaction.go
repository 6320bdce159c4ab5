package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type TransactionRequest struct {
	FromAccountID *string         `json:"fromAccountId,omitempty"`
	ToAccountID   *string         `json:"toAccountId,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Type          string          `json:"type"`
	Description   string          `json:"description,omitempty"`
}

func (r TransactionRequest) Validate() error {
	var errs fieldErrors

	if optional(r.FromAccountID) == nil && optional(r.ToAccountID) == nil {
		errs.add("at least one of fromAccountId or toAccountId is required")
	}
	if !r.Amount.IsPositive() {
		errs.add("amount must be greater than zero")
	} else if !money.HasValidScale(r.Currency, r.Amount) {
		errs.add("amount has too many decimal places for the currency")
	}
	if !isCurrencyCode(r.Currency) {
		errs.add("currency must be a 3 letter code")
	}
	if !domain.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type))).Valid() {
		errs.add("type must be one of DEPOSIT, WITHDRAWAL, TRANSFER, FEE, INTEREST")
	}

	return errs.err()
}

func (r TransactionRequest) ToDomain() domain.TransactionIntent {
	return domain.TransactionIntent{
		FromAccountID: optional(r.FromAccountID),
		ToAccountID:   optional(r.ToAccountID),
		Amount:        r.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(r.Currency)),
		Type:          domain.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Description:   strings.TrimSpace(r.Description),
	}
}

type TransactionResponse struct {
	ID            string     `json:"id"`
	Reference     string     `json:"reference"`
	FromAccountID *string    `json:"fromAccountId,omitempty"`
	ToAccountID   *string    `json:"toAccountId,omitempty"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Type          string     `json:"type"`
	Status        string     `json:"status"`
	Description   string     `json:"description,omitempty"`
	Held          bool       `json:"held"`
	FailureReason *string    `json:"failureReason,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ProcessedAt   *time.Time `json:"processedAt,omitempty"`
}

func NewTransactionResponse(txn domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            txn.ID,
		Reference:     txn.Reference,
		FromAccountID: txn.FromAccountID,
		ToAccountID:   txn.ToAccountID,
		Amount:        money.Format(txn.Currency, txn.Amount),
		Currency:      txn.Currency,
		Type:          string(txn.Type),
		Status:        string(txn.Status),
		Description:   txn.Description,
		Held:          txn.Held,
		FailureReason: txn.FailureReason,
		CreatedAt:     txn.CreatedAt,
		ProcessedAt:   txn.ProcessedAt,
	}
}

func NewTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, NewTransactionResponse(txn))
	}
	return out
}

type EntryResponse struct {
	ID            string    `json:"id"`
	TransactionID string    `json:"transactionId"`
	AccountID     string    `json:"accountId"`
	EntryType     string    `json:"entryType"`
	Amount        string    `json:"amount"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewEntryResponses(entries []domain.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, EntryResponse{
			ID:            entry.ID,
			TransactionID: entry.TransactionID,
			AccountID:     entry.AccountID,
			EntryType:     string(entry.EntryType),
			Amount:        entry.Amount.StringFixed(money.Scale),
			CreatedAt:     entry.CreatedAt,
		})
	}
	return out
}

type TransactionDetailResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	Entries     []EntryResponse     `json:"entries"`
}
