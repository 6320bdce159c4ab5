package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/core-ledger/src/internal/money"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type AccountController struct {
	accounts          service_interfaces.AccountService
	postings          service_interfaces.PostingService
	interest          service_interfaces.InterestService
	defaultPeriodDays int
}

func NewAccountController(
	accounts service_interfaces.AccountService,
	postings service_interfaces.PostingService,
	interest service_interfaces.InterestService,
	defaultPeriodDays int,
) *AccountController {
	return &AccountController{
		accounts:          accounts,
		postings:          postings,
		interest:          interest,
		defaultPeriodDays: defaultPeriodDays,
	}
}

func (c *AccountController) RegisterRoutes(r chi.Router, guard middleware.Guard) {
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/accounts", c.openAccount)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/accounts/{id}", c.getAccount)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/accounts/{id}/balance", c.getBalance)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/accounts/{id}/entries", c.listEntries)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/accounts/{id}/transactions", c.listTransactions)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/accounts/{id}/interest-preview", c.previewInterest)
	r.With(protect(guard, middleware.CapabilityLedgerWrite)).Post("/accounts/{id}/status", c.changeStatus)
	r.With(protect(guard, middleware.CapabilityLedgerRead)).Get("/customers/{id}/accounts", c.listCustomerAccounts)
}

func (c *AccountController) openAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.OpenAccountRequest
	if !decode[models.OpenAccountResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.OpenAccountResponse](w, r, start, "validation failed", err)
		return
	}

	account, balance, err := c.accounts.Open(r.Context(), req.ToDomain())
	if err != nil {
		fail[models.OpenAccountResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusCreated, "Account created successfully", models.OpenAccountResponse{
		Account: models.NewAccountResponse(account),
		Balance: models.NewBalanceResponse(account.Currency, balance),
	})
}

func (c *AccountController) getAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.AccountResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Account retrieved successfully", models.NewAccountResponse(account))
}

func (c *AccountController) getBalance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.BalanceResponse](w, r, start, err)
		return
	}
	balance, err := c.accounts.Balance(r.Context(), account.ID)
	if err != nil {
		fail[models.BalanceResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Balance retrieved successfully", models.NewBalanceResponse(account.Currency, balance))
}

func (c *AccountController) listEntries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	account, err := c.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.EntryResponse](w, r, start, err)
		return
	}
	entries, err := c.postings.AccountEntries(r.Context(), account.ID)
	if err != nil {
		fail[[]models.EntryResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Entries retrieved successfully", models.NewEntryResponses(entries))
}

// listTransactions pages through the account's history, newest first.
func (c *AccountController) listTransactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	page, err := models.ParsePage(r.URL.Query())
	if err != nil {
		badRequest[[]models.TransactionResponse](w, r, start, "validation failed", err)
		return
	}

	account, err := c.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.TransactionResponse](w, r, start, err)
		return
	}
	txns, err := c.postings.AccountTransactions(r.Context(), account.ID, page)
	if err != nil {
		fail[[]models.TransactionResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Transactions retrieved successfully", models.NewTransactionResponses(txns))
}

func (c *AccountController) listCustomerAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	accounts, err := c.accounts.ListByCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[[]models.AccountResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Accounts retrieved successfully", models.NewAccountResponses(accounts))
}

func (c *AccountController) previewInterest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	days := c.defaultPeriodDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest[models.InterestPreviewResponse](w, r, start, "validation failed", err)
			return
		}
		days = parsed
	}

	account, err := c.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail[models.InterestPreviewResponse](w, r, start, err)
		return
	}
	interest, err := c.interest.Calculate(r.Context(), account.ID, days)
	if err != nil {
		fail[models.InterestPreviewResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Interest calculated successfully", models.InterestPreviewResponse{
		AccountID:  account.ID,
		PeriodDays: days,
		Interest:   interest.StringFixed(money.Scale),
	})
}

func (c *AccountController) changeStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ChangeAccountStatusRequest
	if !decode[models.AccountResponse](w, r, start, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		badRequest[models.AccountResponse](w, r, start, "validation failed", err)
		return
	}

	account, err := c.accounts.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		fail[models.AccountResponse](w, r, start, err)
		return
	}

	respond(w, r, start, http.StatusOK, "Account status updated successfully", models.NewAccountResponse(account))
}
