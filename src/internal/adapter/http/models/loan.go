package models

import (
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/shopspring/decimal"
)

type LoanApplicationRequest struct {
	CustomerID            string          `json:"customerId"`
	AccountID             string          `json:"accountId"`
	LoanType              string          `json:"loanType,omitempty"`
	PrincipalAmount       decimal.Decimal `json:"principalAmount"`
	TermMonths            int             `json:"termMonths"`
	Purpose               string          `json:"purpose,omitempty"`
	CollateralDescription string          `json:"collateralDescription,omitempty"`
}

func (r LoanApplicationRequest) Validate() error {
	var errs fieldErrors

	if strings.TrimSpace(r.CustomerID) == "" {
		errs.add("customerId is required")
	}
	if strings.TrimSpace(r.AccountID) == "" {
		errs.add("accountId is required")
	}
	if loanType := strings.TrimSpace(r.LoanType); loanType != "" && !domain.LoanType(strings.ToUpper(loanType)).Valid() {
		errs.add("loanType must be one of PERSONAL, BUSINESS, MORTGAGE, AUTO")
	}
	if !r.PrincipalAmount.IsPositive() {
		errs.add("principalAmount must be greater than zero")
	}
	if r.TermMonths < domain.MinLoanTermMonths || r.TermMonths > domain.MaxLoanTermMonths {
		errs.add("termMonths must be between 1 and 360")
	}

	return errs.err()
}

func (r LoanApplicationRequest) ToDomain() domain.LoanApplication {
	return domain.LoanApplication{
		CustomerID:            strings.TrimSpace(r.CustomerID),
		AccountID:             strings.TrimSpace(r.AccountID),
		LoanType:              domain.LoanType(strings.ToUpper(strings.TrimSpace(r.LoanType))),
		Principal:             r.PrincipalAmount,
		TermMonths:            r.TermMonths,
		Purpose:               strings.TrimSpace(r.Purpose),
		CollateralDescription: strings.TrimSpace(r.CollateralDescription),
	}
}

type LoanApprovalRequest struct {
	InterestRate   decimal.Decimal  `json:"interestRate"`
	ApprovedAmount *decimal.Decimal `json:"approvedAmount,omitempty"`
}

func (r LoanApprovalRequest) Validate() error {
	var errs fieldErrors

	if r.InterestRate.IsNegative() || r.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		errs.add("interestRate must be between 0 and 100")
	}
	if r.ApprovedAmount != nil && !r.ApprovedAmount.IsPositive() {
		errs.add("approvedAmount must be greater than zero")
	}

	return errs.err()
}

func (r LoanApprovalRequest) ToDomain() domain.LoanApproval {
	return domain.LoanApproval{
		InterestRate:   r.InterestRate,
		ApprovedAmount: r.ApprovedAmount,
	}
}

type LoanPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	SourceAccountID *string         `json:"sourceAccountId,omitempty"`
}

func (r LoanPaymentRequest) Validate() error {
	var errs fieldErrors
	if !r.Amount.IsPositive() {
		errs.add("amount must be greater than zero")
	}
	return errs.err()
}

type LoanResponse struct {
	ID                        string     `json:"id"`
	LoanNumber                string     `json:"loanNumber"`
	CustomerID                string     `json:"customerId"`
	AccountID                 string     `json:"accountId"`
	LoanType                  string     `json:"loanType"`
	PrincipalAmount           string     `json:"principalAmount"`
	InterestRate              string     `json:"interestRate"`
	TermMonths                int        `json:"termMonths"`
	MonthlyPayment            string     `json:"monthlyPayment"`
	Status                    string     `json:"status"`
	OutstandingBalance        string     `json:"outstandingBalance"`
	DisbursedAmount           string     `json:"disbursedAmount"`
	Purpose                   string     `json:"purpose,omitempty"`
	CollateralDescription     string     `json:"collateralDescription,omitempty"`
	ApplicationDate           time.Time  `json:"applicationDate"`
	ApprovalDate              *time.Time `json:"approvalDate,omitempty"`
	DisbursementDate          *time.Time `json:"disbursementDate,omitempty"`
	MaturityDate              *time.Time `json:"maturityDate,omitempty"`
	DisbursementTransactionID *string    `json:"disbursementTransactionId,omitempty"`
}

func NewLoanResponse(loan domain.Loan) LoanResponse {
	return LoanResponse{
		ID:                        loan.ID,
		LoanNumber:                loan.LoanNumber,
		CustomerID:                loan.CustomerID,
		AccountID:                 loan.AccountID,
		LoanType:                  string(loan.LoanType),
		PrincipalAmount:           loan.PrincipalAmount.StringFixed(money.Scale),
		InterestRate:              loan.InterestRate.String(),
		TermMonths:                loan.TermMonths,
		MonthlyPayment:            loan.MonthlyPayment.StringFixed(money.Scale),
		Status:                    string(loan.Status),
		OutstandingBalance:        loan.OutstandingBalance.StringFixed(money.Scale),
		DisbursedAmount:           loan.DisbursedAmount.StringFixed(money.Scale),
		Purpose:                   loan.Purpose,
		CollateralDescription:     loan.CollateralDescription,
		ApplicationDate:           loan.ApplicationDate,
		ApprovalDate:              loan.ApprovalDate,
		DisbursementDate:          loan.DisbursementDate,
		MaturityDate:              loan.MaturityDate,
		DisbursementTransactionID: loan.DisbursementTransactionID,
	}
}

type LoanPaymentResponse struct {
	ID                  string    `json:"id"`
	LoanID              string    `json:"loanId"`
	PaymentNumber       string    `json:"paymentNumber"`
	PaymentDate         time.Time `json:"paymentDate"`
	AmountPaid          string    `json:"amountPaid"`
	InterestPaid        string    `json:"interestPaid"`
	PrincipalPaid       string    `json:"principalPaid"`
	BalanceAfterPayment string    `json:"balanceAfterPayment"`
	TransactionID       *string   `json:"transactionId,omitempty"`
}

func NewLoanPaymentResponses(payments []domain.LoanPayment) []LoanPaymentResponse {
	out := make([]LoanPaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, LoanPaymentResponse{
			ID:                  payment.ID,
			LoanID:              payment.LoanID,
			PaymentNumber:       payment.PaymentNumber,
			PaymentDate:         payment.PaymentDate,
			AmountPaid:          payment.AmountPaid.StringFixed(money.Scale),
			InterestPaid:        payment.InterestPaid.StringFixed(money.Scale),
			PrincipalPaid:       payment.PrincipalPaid.StringFixed(money.Scale),
			BalanceAfterPayment: payment.BalanceAfterPayment.StringFixed(money.Scale),
			TransactionID:       payment.TransactionID,
		})
	}
	return out
}

type LoanPaymentResultResponse struct {
	Payment LoanPaymentResponse `json:"payment"`
	Loan    LoanResponse        `json:"loan"`
}

type DisbursementResponse struct {
	Loan        LoanResponse        `json:"loan"`
	Transaction TransactionResponse `json:"transaction"`
}

type ScheduleRowResponse struct {
	Month            int    `json:"month"`
	Payment          string `json:"payment"`
	Interest         string `json:"interest"`
	Principal        string `json:"principal"`
	RemainingBalance string `json:"remainingBalance"`
}

func NewScheduleResponse(rows []domain.ScheduleRow) []ScheduleRowResponse {
	out := make([]ScheduleRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ScheduleRowResponse{
			Month:            row.Month,
			Payment:          row.Payment.StringFixed(money.Scale),
			Interest:         row.Interest.StringFixed(money.Scale),
			Principal:        row.Principal.StringFixed(money.Scale),
			RemainingBalance: row.RemainingBalance.StringFixed(money.Scale),
		})
	}
	return out
}
