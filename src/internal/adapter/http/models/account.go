package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	CustomerID     string           `json:"customerId"`
	AccountType    string           `json:"accountType"`
	Currency       string           `json:"currency"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"`
}

func (r OpenAccountRequest) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(r.CustomerID) == "" {
		errs.add("customerId is required")
	}
	if !domain.AccountType(strings.ToUpper(strings.TrimSpace(r.AccountType))).IsCustomer() {
		errs.add("accountType must be one of SAVINGS, CURRENT, LOAN")
	}
	if !isCurrencyCode(r.Currency) {
		errs.add("currency must be a 3 letter code")
	}
	if r.OverdraftLimit != nil && r.OverdraftLimit.IsNegative() {
		errs.add("overdraftLimit cannot be negative")
	}

	return errs.err()
}

func (r OpenAccountRequest) ToDomain() domain.NewAccount {
	account := domain.NewAccount{
		CustomerID:     strings.TrimSpace(r.CustomerID),
		Type:           domain.AccountType(strings.ToUpper(strings.TrimSpace(r.AccountType))),
		Currency:       strings.ToUpper(strings.TrimSpace(r.Currency)),
		OverdraftLimit: decimal.Zero,
	}
	if r.OverdraftLimit != nil {
		account.OverdraftLimit = *r.OverdraftLimit
	}
	return account
}

type ChangeAccountStatusRequest struct {
	Status string `json:"status"`
}

func (r ChangeAccountStatusRequest) Validate() error {
	var errs fieldErrors
	switch domain.AccountStatus(strings.ToUpper(strings.TrimSpace(r.Status))) {
	case domain.AccountStatusActive, domain.AccountStatusInactive, domain.AccountStatusSuspended, domain.AccountStatusClosed:
	default:
		errs.add("status must be one of ACTIVE, INACTIVE, SUSPENDED, CLOSED")
	}
	return errs.err()
}

func (r ChangeAccountStatusRequest) ToDomain() domain.AccountStatus {
	return domain.AccountStatus(strings.ToUpper(strings.TrimSpace(r.Status)))
}

type AccountResponse struct {
	ID             string    `json:"id"`
	AccountNumber  string    `json:"accountNumber"`
	CustomerID     string    `json:"customerId"`
	AccountType    string    `json:"accountType"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	OverdraftLimit string    `json:"overdraftLimit"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		AccountNumber:  account.AccountNumber,
		CustomerID:     account.CustomerID,
		AccountType:    string(account.Type),
		Currency:       account.Currency,
		Status:         string(account.Status),
		OverdraftLimit: money.Format(account.Currency, account.OverdraftLimit),
		CreatedAt:      account.CreatedAt,
		UpdatedAt:      account.UpdatedAt,
	}
}

func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}

type BalanceResponse struct {
	AccountID        string    `json:"accountId"`
	LedgerBalance    string    `json:"ledgerBalance"`
	AvailableBalance string    `json:"availableBalance"`
	HeldAmount       string    `json:"heldAmount"`
	Version          int64     `json:"version"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewBalanceResponse(currency string, balance domain.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID:        balance.AccountID,
		LedgerBalance:    money.Format(currency, balance.LedgerBalance),
		AvailableBalance: money.Format(currency, balance.AvailableBalance),
		HeldAmount:       money.Format(currency, balance.Held()),
		Version:          balance.Version,
		UpdatedAt:        balance.UpdatedAt,
	}
}

type OpenAccountResponse struct {
	Account AccountResponse `json:"account"`
	Balance BalanceResponse `json:"balance"`
}

type InterestPreviewResponse struct {
	AccountID  string `json:"accountId"`
	PeriodDays int    `json:"periodDays"`
	Interest   string `json:"interest"`
}
