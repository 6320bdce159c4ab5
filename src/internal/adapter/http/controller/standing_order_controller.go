package controller

import (
	"net/http"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type StandingOrderController struct {
	orders service_interfaces.StandingOrderService
	now    func() time.Time
}

func NewStandingOrderController(orders service_interfaces.StandingOrderService) *StandingOrderController {
	return &StandingOrderController{orders: orders, now: time.Now}
}

func (c *StandingOrderController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/standing-orders", c.create)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/standing-orders", c.list)
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/standing-orders/{id}/cancel", c.cancel)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/standing-orders/{id}/executions", c.executions)
	r.With(protect(guard, middleware.CapabilityJobsRun)).Post("/jobs/standing-orders", c.runDue)
}

func (c *StandingOrderController) create(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateStandingOrderRequest
	if !decode[models.StandingOrderResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.StandingOrderResponse](w, r, start, "validation failed", err)
		return
	}

	order, err := c.orders.Create(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.StandingOrderResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusCreated, "Standing order created successfully", models.NewStandingOrderResponse(order))
}

// list filters by ?accountId= (the debited account) and ?active=.
func (c *StandingOrderController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	filter, err := models.ParseStandingOrderFilter(r.URL.Query())
	if err != nil {
		badRequest[[]models.StandingOrderResponse](w, r, start, "validation failed", err)
		return
	}

	orders, err := c.orders.List(r.Context(), filter)
	if err != nil {
		fail[[]models.StandingOrderResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Standing orders retrieved successfully", models.NewStandingOrderResponses(orders))
}

func (c *StandingOrderController) cancel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	order, err := c.orders.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.StandingOrderResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Standing order cancelled successfully", models.NewStandingOrderResponse(order))
}

func (c *StandingOrderController) executions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	executions, err := c.orders.Executions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.ExecutionResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Executions retrieved successfully", models.NewExecutionResponses(executions))
}

func (c *StandingOrderController) runDue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.StandingOrderRunRequest
	if !decode[domain.BatchResult](w, r, start, &req, true) {
		return
	}
	now := c.now()
	if req.Now != nil {
		now = *req.Now
	}

	result, err := c.orders.RunDue(r.Context(), now)
	if err != nil {
		fail[domain.BatchResult](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Standing orders run completed", result)
}
