package controller_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/core-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/core-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newServer(t *testing.T, guard middleware.Guard) http.Handler {
	t.Helper()

	store := memory.NewStore()
	accounts := services.NewAccountService(store)
	postings := services.NewPostingService(store, nil)
	loans := services.NewLoanService(store, postings, decimal.NewFromInt(12))
	interest := services.NewInterestService(store, postings, 2)
	orders := services.NewStandingOrderService(store, postings, 2)
	bills := services.NewBillPaymentService(store, postings)

	return router.New(guard,
		controller.NewAccountController(accounts, postings, interest, 30),
		controller.NewTransactionController(postings),
		controller.NewLoanController(loans),
		controller.NewInterestController(interest, 30),
		controller.NewStandingOrderController(orders),
		controller.NewBillPaymentController(bills),
	)
}

func call(t *testing.T, h http.Handler, method, path string, body any) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr.Code, env
}

func openAccount(t *testing.T, h http.Handler) string {
	t.Helper()
	code, env := call(t, h, http.MethodPost, "/accounts", map[string]any{
		"customerId":  "CUST-1",
		"accountType": "savings",
		"currency":    "usd",
	})
	require.Equal(t, http.StatusCreated, code, env.Errors)

	var data struct {
		Account struct {
			ID       string `json:"id"`
			Currency string `json:"currency"`
		} `json:"account"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "USD", data.Account.Currency)
	return data.Account.ID
}

func TestHealth(t *testing.T) {
	h := newServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestDepositAndBalance(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)

	code, env := call(t, h, http.MethodPost, "/transactions", map[string]any{
		"type":        "DEPOSIT",
		"toAccountId": accountID,
		"amount":      "100.00",
		"currency":    "USD",
	})
	require.Equal(t, http.StatusCreated, code, env.Errors)

	var txn struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &txn))
	assert.Equal(t, "COMPLETED", txn.Status)

	code, env = call(t, h, http.MethodGet, "/accounts/"+accountID+"/balance", nil)
	require.Equal(t, http.StatusOK, code)
	var balance struct {
		LedgerBalance    string `json:"ledgerBalance"`
		AvailableBalance string `json:"availableBalance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, "100.00", balance.LedgerBalance)
	assert.Equal(t, "100.00", balance.AvailableBalance)

	code, env = call(t, h, http.MethodGet, "/transactions/"+txn.ID, nil)
	require.Equal(t, http.StatusOK, code)
	var detail struct {
		Entries []struct {
			EntryType string `json:"entryType"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Len(t, detail.Entries, 2)
}

func TestInsufficientFundsMapsTo422(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)

	code, env := call(t, h, http.MethodPost, "/transactions", map[string]any{
		"type":          "WITHDRAWAL",
		"fromAccountId": accountID,
		"amount":        "500.00",
		"currency":      "USD",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)
	assert.Equal(t, "insufficient funds", env.Message)
}

func TestPendingTransactionCanBeCancelledOnce(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)

	code, env := call(t, h, http.MethodPost, "/transactions?pending=true", map[string]any{
		"type":        "DEPOSIT",
		"toAccountId": accountID,
		"amount":      "25.00",
		"currency":    "USD",
	})
	require.Equal(t, http.StatusCreated, code, env.Errors)
	var txn struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &txn))
	assert.Equal(t, "PENDING", txn.Status)

	code, _ = call(t, h, http.MethodPost, "/transactions/"+txn.ID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, h, http.MethodPost, "/transactions/"+txn.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "already processed", env.Message)
}

func TestValidationAndNotFound(t *testing.T) {
	h := newServer(t, nil)

	code, env := call(t, h, http.MethodPost, "/accounts", map[string]any{"customerId": "CUST-1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", env.Message)
	assert.NotEmpty(t, env.Errors)

	code, env = call(t, h, http.MethodGet, "/accounts/missing", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "record not found", env.Message)
}

func TestInterestJobWithEmptyBody(t *testing.T) {
	h := newServer(t, nil)
	openAccount(t, h)

	code, env := call(t, h, http.MethodPost, "/jobs/interest", nil)
	require.Equal(t, http.StatusOK, code, env.Errors)

	var result struct {
		Succeeded int `json:"succeeded"`
		Skipped   int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.Succeeded)
	assert.Equal(t, 1, result.Skipped)
}

func TestGuardEnforcesCapabilities(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("LedgerKey001"), bcrypt.MinCost)
	require.NoError(t, err)
	guard := middleware.BasicAuth("LedgerOps", string(hash), []string{middleware.CapabilityLedgerRead})
	h := newServer(t, guard)

	req := httptest.NewRequest(http.MethodPost, "/jobs/interest", nil)
	req.SetBasicAuth("LedgerOps", "LedgerKey001")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func deposit(t *testing.T, h http.Handler, accountID, amount string) {
	t.Helper()
	code, env := call(t, h, http.MethodPost, "/transactions", map[string]any{
		"type":        "DEPOSIT",
		"toAccountId": accountID,
		"amount":      amount,
		"currency":    "USD",
	})
	require.Equal(t, http.StatusCreated, code, env.Errors)
}

func TestCustomerAccountsAndHistory(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)
	deposit(t, h, accountID, "10.00")
	deposit(t, h, accountID, "20.00")

	code, env := call(t, h, http.MethodGet, "/customers/CUST-1/accounts", nil)
	require.Equal(t, http.StatusOK, code)
	var accounts []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &accounts))
	require.Len(t, accounts, 1)
	assert.Equal(t, accountID, accounts[0].ID)

	code, env = call(t, h, http.MethodGet, "/accounts/"+accountID+"/transactions?limit=1", nil)
	require.Equal(t, http.StatusOK, code)
	var txns []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &txns))
	require.Len(t, txns, 1)
	assert.Equal(t, "DEPOSIT", txns[0].Type)

	code, env = call(t, h, http.MethodGet, "/accounts/"+accountID+"/transactions?limit=5&offset=1", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &txns))
	assert.Len(t, txns, 1)

	code, env = call(t, h, http.MethodGet, "/accounts/"+accountID+"/transactions?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "limit must be a positive integer")

	code, _ = call(t, h, http.MethodGet, "/accounts/"+accountID+"/transactions?offset=-1", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, h, http.MethodGet, "/accounts/missing/transactions", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestListStandingOrders(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)

	code, env := call(t, h, http.MethodPost, "/standing-orders", map[string]any{
		"fromAccountId": accountID,
		"amount":        "5.00",
		"currency":      "USD",
		"frequency":     "weekly",
	})
	require.Equal(t, http.StatusCreated, code, env.Errors)

	code, env = call(t, h, http.MethodGet, "/standing-orders?accountId="+accountID+"&active=true", nil)
	require.Equal(t, http.StatusOK, code)
	var orders []struct {
		FromAccountID string `json:"fromAccountId"`
		Active        bool   `json:"active"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, accountID, orders[0].FromAccountID)

	code, env = call(t, h, http.MethodGet, "/standing-orders?active=false", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &orders))
	assert.Empty(t, orders)

	code, _ = call(t, h, http.MethodGet, "/standing-orders?active=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBillPayments(t *testing.T) {
	h := newServer(t, nil)
	accountID := openAccount(t, h)
	deposit(t, h, accountID, "100.00")

	bill := map[string]any{
		"accountId":         accountID,
		"billerCode":        "gas",
		"billerName":        "Gas Co",
		"billAccountNumber": "G-42",
		"amount":            "30.00",
		"currency":          "USD",
	}
	code, env := call(t, h, http.MethodPost, "/bills", bill)
	require.Equal(t, http.StatusCreated, code, env.Errors)
	var result struct {
		Payment struct {
			Status        string `json:"status"`
			BillerCode    string `json:"billerCode"`
			Amount        string `json:"amount"`
			TransactionID string `json:"transactionId"`
		} `json:"payment"`
		Transaction struct {
			ID     string `json:"id"`
			Type   string `json:"type"`
			Status string `json:"status"`
		} `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "COMPLETED", result.Payment.Status)
	assert.Equal(t, "GAS", result.Payment.BillerCode)
	assert.Equal(t, "30.00", result.Payment.Amount)
	assert.Equal(t, result.Transaction.ID, result.Payment.TransactionID)
	assert.Equal(t, "WITHDRAWAL", result.Transaction.Type)
	assert.Equal(t, "COMPLETED", result.Transaction.Status)

	bill["amount"] = "500.00"
	code, _ = call(t, h, http.MethodPost, "/bills", bill)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	bill["amount"] = "10.005"
	code, env = call(t, h, http.MethodPost, "/bills", bill)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Errors, "amount has too many decimal places for the currency")

	code, env = call(t, h, http.MethodGet, "/bills?accountId="+accountID, nil)
	require.Equal(t, http.StatusOK, code)
	var payments []struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payments))
	require.Len(t, payments, 2)
	assert.ElementsMatch(t, []string{"COMPLETED", "FAILED"}, []string{payments[0].Status, payments[1].Status})

	code, env = call(t, h, http.MethodGet, "/accounts/"+accountID+"/balance", nil)
	require.Equal(t, http.StatusOK, code)
	var balance struct {
		LedgerBalance string `json:"ledgerBalance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, "70.00", balance.LedgerBalance)
}
