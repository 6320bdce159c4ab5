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

type TransactionController struct {
	postings service_interfaces.PostingService
}

func NewTransactionController(postings service_interfaces.PostingService) *TransactionController {
	return &TransactionController{postings: postings}
}

func (c *TransactionController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/transactions", c.submit)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/transactions/{id}", c.getTransaction)
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/transactions/{id}/post", c.transition(c.postings.Post, "Transaction posted successfully"))
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/transactions/{id}/hold", c.transition(c.postings.Hold, "Transaction held successfully"))
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/transactions/{id}/cancel", c.transition(c.postings.Cancel, "Transaction cancelled successfully"))
}

// submit creates and posts a transaction. With ?pending=true it is only
// created, so it can be held, posted or cancelled later.
func (c *TransactionController) submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.TransactionRequest
	if !decode[models.TransactionResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.TransactionResponse](w, r, start, "validation failed", err)
		return
	}

	if r.URL.Query().Get("pending") == "true" {
		txn, err := c.postings.Create(r.Context(), req.ToDomain())
		if err != nil {
			fail[models.TransactionResponse](w, r, start, err)
			return
		}
		respond(w, r, start, http.StatusCreated, "Transaction created successfully", models.NewTransactionResponse(txn))
		return
	}

	txn, err := c.postings.Submit(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.TransactionResponse](w, r, start, err)
		return
	}
	respond(w, r, start, http.StatusCreated, "Transaction posted successfully", models.NewTransactionResponse(txn))
}

func (c *TransactionController) getTransaction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	txn, entries, err := c.postings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.TransactionDetailResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Transaction retrieved successfully", models.TransactionDetailResponse{
		Transaction: models.NewTransactionResponse(txn),
		Entries:     models.NewEntryResponses(entries),
	})
}

func (c *TransactionController) transition(op func(context.Context, string) (domain.Transaction, error), message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logRequest(r, nil)

		txn, err := op(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			fail[models.TransactionResponse](w, r, start, err)
			return
		}
		respond(w, r, start, http.StatusOK, message, models.NewTransactionResponse(txn))
	}
}
