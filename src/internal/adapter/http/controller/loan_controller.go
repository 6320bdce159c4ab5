package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type LoanController struct {
	loans service_interfaces.LoanService
}

func NewLoanController(loans service_interfaces.LoanService) *LoanController {
	return &LoanController{loans: loans}
}

func (c *LoanController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLoansManage)).Post("/loans", c.apply)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/loans/{id}", c.getLoan)
	r.With(protect(guard, middleware.CapabilityLoansManage)).Post("/loans/{id}/approve", c.approve)
	r.With(protect(guard, middleware.CapabilityLoansManage)).Post("/loans/{id}/disburse", c.disburse)
	r.With(protect(guard, middleware.CapabilityLoansManage)).Post("/loans/{id}/default", c.markDefaulted)
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/loans/{id}/payments", c.pay)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/loans/{id}/payments", c.listPayments)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/loans/{id}/schedule", c.schedule)
}

func (c *LoanController) apply(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoanApplicationRequest
	if !decode[models.LoanResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.LoanResponse](w, r, start, "validation failed", err)
		return
	}

	loan, err := c.loans.Apply(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.LoanResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusCreated, "Loan application received", models.NewLoanResponse(loan))
}

func (c *LoanController) getLoan(w http.ResponseWriter, r *http.Request) {
	c.loanAction(c.loans.Get, http.StatusOK, "Loan retrieved successfully")(w, r)
}

func (c *LoanController) markDefaulted(w http.ResponseWriter, r *http.Request) {
	c.loanAction(c.loans.MarkDefaulted, http.StatusOK, "Loan marked as defaulted")(w, r)
}

func (c *LoanController) loanAction(op func(context.Context, string) (domain.Loan, error), status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logRequest(r, nil)

		loan, err := op(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail[models.LoanResponse](w, r, start, err)
			return
		}
		respond(w, r, start, status, message, models.NewLoanResponse(loan))
	}
}

func (c *LoanController) approve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoanApprovalRequest
	if !decode[models.LoanResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.LoanResponse](w, r, start, "validation failed", err)
		return
	}

	loan, err := c.loans.Approve(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		fail[models.LoanResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Loan approved successfully", models.NewLoanResponse(loan))
}

func (c *LoanController) disburse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	loan, txn, err := c.loans.Disburse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.DisbursementResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Loan disbursed successfully", models.DisbursementResponse{
		Loan:        models.NewLoanResponse(loan),
		Transaction: models.NewTransactionResponse(txn),
	})
}

func (c *LoanController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoanPaymentRequest
	if !decode[models.LoanPaymentResultResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.LoanPaymentResultResponse](w, r, start, "validation failed", err)
		return
	}

	payment, loan, err := c.loans.Pay(r.Context(), chi.URLParam(r, "id"), req.Amount, req.SourceAccountID)
	if err != nil {
		fail[models.LoanPaymentResultResponse](w, r, start, err)
		return
	}

	payments := models.NewLoanPaymentResponses([]domain.LoanPayment{payment})
	respond(w, r, start, http.StatusCreated, "Loan payment recorded", models.LoanPaymentResultResponse{
		Payment: payments[0],
		Loan:    models.NewLoanResponse(loan),
	})
}

func (c *LoanController) listPayments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	payments, err := c.loans.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.LoanPaymentResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Loan payments retrieved successfully", models.NewLoanPaymentResponses(payments))
}

func (c *LoanController) schedule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	rows, err := c.loans.Schedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.ScheduleRowResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Repayment schedule generated", models.NewScheduleResponse(rows))
}
