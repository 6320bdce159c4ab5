package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (h *harness) activeLoan(t *testing.T, principal string, rate string, months int) (domain.Loan, domain.Account) {
	t.Helper()
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")

	loan, err := h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "cust-1",
		AccountID:  account.ID,
		LoanType:   domain.LoanTypePersonal,
		Principal:  dec(principal),
		TermMonths: months,
		Purpose:    "car",
	})
	require.NoError(t, err)

	_, err = h.loans.Approve(context.Background(), loan.ID, domain.LoanApproval{InterestRate: dec(rate)})
	require.NoError(t, err)

	loan, _, err = h.loans.Disburse(context.Background(), loan.ID)
	require.NoError(t, err)
	return loan, account
}

func TestApplyQuotesAtProvisionalRate(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")

	loan, err := h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "cust-1",
		AccountID:  account.ID,
		Principal:  dec("10000"),
		TermMonths: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Equal(t, domain.LoanTypePersonal, loan.LoanType)
	assert.True(t, loan.InterestRate.Equal(dec("12")))
	assert.True(t, loan.MonthlyPayment.Equal(dec("888.49")))
	assert.True(t, loan.OutstandingBalance.Equal(dec("10000")))
	assert.Regexp(t, `^LN\d{10}$`, loan.LoanNumber)
}

func TestApplyValidation(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")

	for _, months := range []int{0, 361} {
		_, err := h.loans.Apply(context.Background(), domain.LoanApplication{
			CustomerID: "cust-1",
			AccountID:  account.ID,
			Principal:  dec("100"),
			TermMonths: months,
		})
		assert.ErrorIs(t, err, domain.ErrValidation, "term %d", months)
	}

	_, err := h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "someone-else",
		AccountID:  account.ID,
		Principal:  dec("100"),
		TermMonths: 12,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "cust-1",
		AccountID:  account.ID,
		Principal:  dec("-5"),
		TermMonths: 12,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApproveRecomputesPaymentAndMaturity(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeSavings, "0")
	loan, err := h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "cust-1",
		AccountID:  account.ID,
		Principal:  dec("5000"),
		TermMonths: 12,
	})
	require.NoError(t, err)

	approvedAmount := dec("1200")
	approved, err := h.loans.Approve(context.Background(), loan.ID, domain.LoanApproval{
		InterestRate:   decimal.Zero,
		ApprovedAmount: &approvedAmount,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusApproved, approved.Status)
	assert.True(t, approved.MonthlyPayment.Equal(dec("100.00")))
	assert.True(t, approved.PrincipalAmount.Equal(dec("1200")))
	assert.True(t, approved.OutstandingBalance.Equal(dec("1200")))
	require.NotNil(t, approved.MaturityDate)
	assert.Equal(t, h.now.AddDate(0, 0, 360), *approved.MaturityDate)

	_, err = h.loans.Approve(context.Background(), loan.ID, domain.LoanApproval{InterestRate: dec("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = h.loans.Approve(context.Background(), "missing", domain.LoanApproval{InterestRate: dec("5")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveRejectsRateOutOfRange(t *testing.T) {
	h := newHarness(t)
	_, err := h.loans.Approve(context.Background(), "any", domain.LoanApproval{InterestRate: dec("101")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApproveRejectsSubCentAmount(t *testing.T) {
	h := newHarness(t)
	amount := dec("1000.005")
	_, err := h.loans.Approve(context.Background(), "any", domain.LoanApproval{InterestRate: dec("10"), ApprovedAmount: &amount})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDisburseCreditsLinkedAccount(t *testing.T) {
	h := newHarness(t)
	loan, account := h.activeLoan(t, "10000", "12", 12)

	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.True(t, loan.DisbursedAmount.Equal(dec("10000")))
	require.NotNil(t, loan.DisbursementTransactionID)
	require.NotNil(t, loan.DisbursementDate)

	txn, entries, err := h.posting.Get(context.Background(), *loan.DisbursementTransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeDeposit, txn.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.Contains(t, txn.Reference, "DISB")
	assertBalanced(t, entries, dec("10000"))

	assert.True(t, h.balance(t, account.ID).AvailableBalance.Equal(dec("10000")))

	_, _, err = h.loans.Disburse(context.Background(), loan.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDisburseFailureLeavesLoanApproved(t *testing.T) {
	h := newHarness(t)
	account := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")
	loan, err := h.loans.Apply(context.Background(), domain.LoanApplication{
		CustomerID: "cust-1",
		AccountID:  account.ID,
		Principal:  dec("1000"),
		TermMonths: 6,
	})
	require.NoError(t, err)
	_, err = h.loans.Approve(context.Background(), loan.ID, domain.LoanApproval{InterestRate: dec("10")})
	require.NoError(t, err)
	_, err = h.accounts.ChangeStatus(context.Background(), account.ID, domain.AccountStatusSuspended)
	require.NoError(t, err)

	_, _, err = h.loans.Disburse(context.Background(), loan.ID)
	require.ErrorIs(t, err, domain.ErrInvalidState)

	stored, err := h.loans.Get(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusApproved, stored.Status)
	assert.Nil(t, stored.DisbursementTransactionID)
	assert.True(t, h.balance(t, account.ID).LedgerBalance.IsZero())
}

func TestPaymentBelowInterestLeavesPrincipal(t *testing.T) {
	h := newHarness(t)
	loan, _ := h.activeLoan(t, "10000", "12", 12)

	payment, updated, err := h.loans.Pay(context.Background(), loan.ID, dec("50"), nil)
	require.NoError(t, err)

	assert.Equal(t, "PMT001", payment.PaymentNumber)
	assert.True(t, payment.PrincipalPaid.IsZero())
	assert.True(t, payment.InterestPaid.Equal(dec("50")))
	assert.True(t, payment.BalanceAfterPayment.Equal(dec("10000")))
	assert.True(t, updated.OutstandingBalance.Equal(dec("10000")))
	assert.Equal(t, domain.LoanStatusActive, updated.Status)
}

func TestScheduledPaymentsCloseLoanAtZero(t *testing.T) {
	h := newHarness(t)
	loan, _ := h.activeLoan(t, "10000", "12", 12)

	schedule, err := h.loans.Schedule(context.Background(), loan.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	var updated domain.Loan
	for i, row := range schedule {
		var payment domain.LoanPayment
		payment, updated, err = h.loans.Pay(context.Background(), loan.ID, row.Payment, nil)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PMT%03d", i+1), payment.PaymentNumber)
		assert.True(t, payment.InterestPaid.Equal(row.Interest), "row %d interest %s vs %s", row.Month, payment.InterestPaid, row.Interest)
		assert.True(t, updated.OutstandingBalance.Equal(row.RemainingBalance))
	}

	assert.Equal(t, domain.LoanStatusClosed, updated.Status)
	assert.True(t, updated.OutstandingBalance.IsZero())

	_, _, err = h.loans.Pay(context.Background(), loan.ID, dec("1"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	payments, err := h.loans.Payments(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 12)
}

func TestOverpaymentClosesLoanAndClampsBalance(t *testing.T) {
	h := newHarness(t)
	loan, _ := h.activeLoan(t, "1000", "12", 6)

	_, updated, err := h.loans.Pay(context.Background(), loan.ID, dec("2000"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusClosed, updated.Status)
	assert.True(t, updated.OutstandingBalance.IsZero())
}

func TestPaymentFromSourceAccountDebitsIt(t *testing.T) {
	h := newHarness(t)
	loan, account := h.activeLoan(t, "10000", "12", 12)

	payment, _, err := h.loans.Pay(context.Background(), loan.ID, dec("888.49"), stringPtr(account.ID))
	require.NoError(t, err)
	require.NotNil(t, payment.TransactionID)
	assert.True(t, payment.PrincipalPaid.Equal(dec("788.49")))

	assert.True(t, h.balance(t, account.ID).LedgerBalance.Equal(dec("9111.51")))

	txn, entries, err := h.posting.Get(context.Background(), *payment.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeWithdrawal, txn.Type)
	assertBalanced(t, entries, dec("888.49"))
}

func TestPaymentFromEmptySourceRollsBack(t *testing.T) {
	h := newHarness(t)
	loan, _ := h.activeLoan(t, "10000", "12", 12)
	empty := h.openAccount(t, "cust-1", domain.AccountTypeCurrent, "0")

	_, _, err := h.loans.Pay(context.Background(), loan.ID, dec("888.49"), stringPtr(empty.ID))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	payments, err := h.loans.Payments(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	stored, err := h.loans.Get(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.True(t, stored.OutstandingBalance.Equal(dec("10000")))
}

func TestMarkDefaulted(t *testing.T) {
	h := newHarness(t)
	loan, _ := h.activeLoan(t, "1000", "12", 6)

	defaulted, err := h.loans.MarkDefaulted(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDefaulted, defaulted.Status)

	_, _, err = h.loans.Pay(context.Background(), loan.ID, dec("10"), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
