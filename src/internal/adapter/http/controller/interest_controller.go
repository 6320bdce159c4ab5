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

type InterestController struct {
	interest          service_interfaces.InterestService
	defaultPeriodDays int
}

func NewInterestController(interest service_interfaces.InterestService, defaultPeriodDays int) *InterestController {
	return &InterestController{interest: interest, defaultPeriodDays: defaultPeriodDays}
}

func (c *InterestController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/interest-rates", c.createRate)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/interest-rates", c.listRates)
	r.With(protect(guard, middleware.CapabilityJobsRun)).Post("/jobs/interest", c.accrue)
}

func (c *InterestController) createRate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateRateRequest
	if !decode[models.RateResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.RateResponse](w, r, start, "validation failed", err)
		return
	}

	rate, err := c.interest.CreateRate(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.RateResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusCreated, "Interest rate created successfully", models.NewRateResponse(rate))
}

func (c *InterestController) listRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	rates, err := c.interest.ListRates(r.Context())
	if err != nil {
		fail[[]models.RateResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Interest rates retrieved successfully", models.NewRateResponses(rates))
}

// accrue runs the accrual batch on demand. An empty body uses the
// configured period.
func (c *InterestController) accrue(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := models.AccrualRequest{PeriodDays: c.defaultPeriodDays}
	if !decode[domain.BatchResult](w, r, start, &req, true) {
		return
	}
	if req.PeriodDays == 0 {
		req.PeriodDays = c.defaultPeriodDays
	}

	result, err := c.interest.AccrueAndPost(r.Context(), req.PeriodDays)
	if err != nil {
		fail[domain.BatchResult](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Interest accrual completed", result)
}
