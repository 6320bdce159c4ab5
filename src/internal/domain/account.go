package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeLoan    AccountType = "LOAN"
	// AccountTypeInternal is the per-currency settlement account that carries
	// the other leg of deposits and withdrawals. It keeps no balance row.
	AccountTypeInternal AccountType = "INTERNAL"
)

func (t AccountType) IsCustomer() bool {
	switch t {
	case AccountTypeSavings, AccountTypeCurrent, AccountTypeLoan:
		return true
	default:
		return false
	}
}

type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

type Account struct {
	ID             string
	AccountNumber  string
	CustomerID     string
	Type           AccountType
	Currency       string
	Status         AccountStatus
	OverdraftLimit decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Account) IsInternal() bool {
	return a.Type == AccountTypeInternal
}

// CanDebit reports whether amount can leave the account without pushing the
// available balance below the negated overdraft limit.
func (a Account) CanDebit(balance Balance, amount decimal.Decimal) bool {
	return balance.AvailableBalance.Sub(amount).GreaterThanOrEqual(a.OverdraftLimit.Neg())
}

type Balance struct {
	AccountID        string
	LedgerBalance    decimal.Decimal
	AvailableBalance decimal.Decimal
	Version          int64
	UpdatedAt        time.Time
}

// Held is the amount reserved by holds that have not been posted yet.
func (b Balance) Held() decimal.Decimal {
	return b.LedgerBalance.Sub(b.AvailableBalance)
}

// SettlementAccountNumber names the internal settlement account for currency.
func SettlementAccountNumber(currency string) string {
	return "SETTLE-" + currency
}

// NewAccount is the request to open a customer account.
type NewAccount struct {
	CustomerID     string
	Type           AccountType
	Currency       string
	OverdraftLimit decimal.Decimal
}
