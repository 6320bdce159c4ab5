package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type BillPaymentController struct {
	bills service_interfaces.BillPaymentService
}

func NewBillPaymentController(bills service_interfaces.BillPaymentService) *BillPaymentController {
	return &BillPaymentController{bills: bills}
}

func (c *BillPaymentController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/bills", c.pay)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/bills", c.list)
}

func (c *BillPaymentController) pay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.BillPaymentRequest
	if !decode[models.BillPaymentResultResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.BillPaymentResultResponse](w, r, start, "validation failed", err)
		return
	}

	payment, txn, err := c.bills.Pay(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.BillPaymentResultResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusCreated, "Bill paid successfully", models.BillPaymentResultResponse{
		Payment:     models.NewBillPaymentResponse(payment),
		Transaction: models.NewTransactionResponse(txn),
	})
}

func (c *BillPaymentController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	page, err := models.ParsePage(r.URL.Query())
	if err != nil {
		badRequest[[]models.BillPaymentResponse](w, r, start, "validation failed", err)
		return
	}

	payments, err := c.bills.List(r.Context(), models.OptionalQuery(r.URL.Query(), "accountId"), page)
	if err != nil {
		fail[[]models.BillPaymentResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Bill payments retrieved successfully", models.NewBillPaymentResponses(payments))
}
