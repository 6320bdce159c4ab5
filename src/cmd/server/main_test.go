package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/core-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/core-ledger/src/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardedStatus(guard middleware.Guard) int {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	guard(middleware.CapabilityLedgerRead)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr.Code
}

func TestChannelGuardFailsClosedWithoutKeyHash(t *testing.T) {
	guard := channelGuard(config.Config{ChannelID: "LedgerOps"})
	require.NotNil(t, guard)
	assert.Equal(t, http.StatusInternalServerError, guardedStatus(guard))
}

func TestChannelGuardRequiresCredentials(t *testing.T) {
	guard := channelGuard(config.Config{
		ChannelID:           "LedgerOps",
		ChannelKeyHash:      "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3p5dTgk0NC9r0mHZbFpP3uS",
		ChannelCapabilities: []string{middleware.CapabilityLedgerRead},
	})
	require.NotNil(t, guard)
	assert.Equal(t, http.StatusUnauthorized, guardedStatus(guard))
}

func TestChannelGuardOpenOnlyWhenExplicit(t *testing.T) {
	assert.Nil(t, channelGuard(config.Config{AllowUnauthenticated: true}))
}
