package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
	TransactionTypeFee        TransactionType = "FEE"
	TransactionTypeInterest   TransactionType = "INTEREST"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer, TransactionTypeFee, TransactionTypeInterest:
		return true
	default:
		return false
	}
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusCompleted || s == TransactionStatusFailed || s == TransactionStatusCancelled
}

type Transaction struct {
	ID            string
	Reference     string
	FromAccountID *string
	ToAccountID   *string
	Amount        decimal.Decimal
	Currency      string
	Type          TransactionType
	Status        TransactionStatus
	Description   string
	Held          bool
	FailureReason *string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// TransactionIntent is what a caller asks the ledger to move.
type TransactionIntent struct {
	FromAccountID *string
	ToAccountID   *string
	Amount        decimal.Decimal
	Currency      string
	Type          TransactionType
	Description   string
}

// Validate checks the parts of a transaction that do not need the store.
// Every problem is reported, joined with "; ".
func (t Transaction) Validate() error {
	var errs []string

	from := valueOrEmpty(t.FromAccountID)
	to := valueOrEmpty(t.ToAccountID)

	if !t.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than zero")
	} else if !money.HasValidScale(t.Currency, t.Amount) {
		errs = append(errs, "amount has too many decimal places for the currency")
	}
	if from == "" && to == "" {
		errs = append(errs, "at least one of fromAccountId or toAccountId is required")
	}
	if from != "" && from == to {
		errs = append(errs, "fromAccountId and toAccountId cannot be the same")
	}
	if len(strings.TrimSpace(t.Currency)) != 3 {
		errs = append(errs, "currency must be a 3 letter code")
	}
	if !t.Type.Valid() {
		errs = append(errs, fmt.Sprintf("unsupported transaction type %q", t.Type))
	}

	switch t.Type {
	case TransactionTypeTransfer:
		if from == "" || to == "" {
			errs = append(errs, "transfer requires both accounts")
		}
	case TransactionTypeDeposit, TransactionTypeInterest:
		if from != "" {
			errs = append(errs, fmt.Sprintf("%s cannot debit an account", strings.ToLower(string(t.Type))))
		}
	case TransactionTypeWithdrawal, TransactionTypeFee:
		if to != "" {
			errs = append(errs, fmt.Sprintf("%s cannot credit an account", strings.ToLower(string(t.Type))))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrValidation, errors.New(strings.Join(errs, "; ")))
	}

	return nil
}

type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

type Entry struct {
	ID            string
	TransactionID string
	AccountID     string
	EntryType     EntryType
	Amount        decimal.Decimal
	CreatedAt     time.Time
}

// EntryEvent is published once per posted leg after the unit of work commits.
type EntryEvent struct {
	EventID         string          `json:"eventId"`
	TransactionID   string          `json:"transactionId"`
	Reference       string          `json:"reference"`
	TransactionType TransactionType `json:"transactionType"`
	AccountID       string          `json:"accountId"`
	EntryType       EntryType       `json:"entryType"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	OccurredAt      time.Time       `json:"occurredAt"`
}

func valueOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
