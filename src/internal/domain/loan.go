package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanType string

const (
	LoanTypePersonal LoanType = "PERSONAL"
	LoanTypeBusiness LoanType = "BUSINESS"
	LoanTypeMortgage LoanType = "MORTGAGE"
	LoanTypeAuto     LoanType = "AUTO"
)

func (t LoanType) Valid() bool {
	switch t {
	case LoanTypePersonal, LoanTypeBusiness, LoanTypeMortgage, LoanTypeAuto:
		return true
	default:
		return false
	}
}

type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "PENDING"
	LoanStatusApproved  LoanStatus = "APPROVED"
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusClosed    LoanStatus = "CLOSED"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

const (
	MinLoanTermMonths = 1
	MaxLoanTermMonths = 360
)

type Loan struct {
	ID                        string
	LoanNumber                string
	CustomerID                string
	AccountID                 string
	LoanType                  LoanType
	PrincipalAmount           decimal.Decimal
	InterestRate              decimal.Decimal // annual percent, 12 means 12%
	TermMonths                int
	MonthlyPayment            decimal.Decimal
	Status                    LoanStatus
	OutstandingBalance        decimal.Decimal
	DisbursedAmount           decimal.Decimal
	Purpose                   string
	CollateralDescription     string
	ApplicationDate           time.Time
	ApprovalDate              *time.Time
	DisbursementDate          *time.Time
	MaturityDate              *time.Time
	DisbursementTransactionID *string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

type LoanPayment struct {
	ID                  string
	LoanID              string
	PaymentNumber       string
	PaymentDate         time.Time
	AmountPaid          decimal.Decimal
	InterestPaid        decimal.Decimal
	PrincipalPaid       decimal.Decimal
	BalanceAfterPayment decimal.Decimal
	TransactionID       *string
}

// ScheduleRow is one month of an amortization table.
type ScheduleRow struct {
	Month            int
	Payment          decimal.Decimal
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	RemainingBalance decimal.Decimal
}

type LoanApplication struct {
	CustomerID            string
	AccountID             string
	LoanType              LoanType
	Principal             decimal.Decimal
	TermMonths            int
	Purpose               string
	CollateralDescription string
}

type LoanApproval struct {
	InterestRate   decimal.Decimal
	ApprovedAmount *decimal.Decimal
}
