package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/commons"
	"github.com/api-sage/core-ledger/src/internal/domain"
)

// statusFor maps a service error onto an HTTP status and envelope message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "insufficient funds"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusConflict, "invalid state"
	case errors.Is(err, domain.ErrIdempotency):
		return http.StatusConflict, "already processed"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func respond[T any](w http.ResponseWriter, r *http.Request, start time.Time, status int, message string, data T) {
	response := commons.SuccessResponse(message, data)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func fail[T any](w http.ResponseWriter, r *http.Request, start time.Time, err error) {
	status, message := statusFor(err)
	logError(r, err, nil)

	response := commons.ErrorResponse[T](message, err.Error())
	if status == http.StatusInternalServerError {
		response = commons.ErrorResponse[T](message)
	}
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func badRequest[T any](w http.ResponseWriter, r *http.Request, start time.Time, message string, err error) {
	logError(r, err, nil)
	response := commons.ErrorResponse[T](message, err.Error())
	writeJSON(w, http.StatusBadRequest, response)
	logResponse(r, http.StatusBadRequest, response, start)
}

// decode reads a JSON body into req. An empty body leaves req untouched when
// allowEmpty is set.
func decode[T any, R any](w http.ResponseWriter, r *http.Request, start time.Time, req *R, allowEmpty bool) bool {
	if allowEmpty && r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		badRequest[T](w, r, start, "invalid request body", err)
		return false
	}
	logRequest(r, *req)
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// protect returns the guard for capability, or a pass-through when auth is
// not configured for the router.
func protect(guard middleware.Guard, capability string) func(http.Handler) http.Handler {
	if guard == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return guard(capability)
}
