package models

import (
	"net/url"
	"testing"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	page, err := ParsePage(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, domain.Page{Limit: domain.DefaultPageLimit}, page)

	page, err = ParsePage(url.Values{"limit": {"5000"}, "offset": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, domain.Page{Limit: domain.MaxPageLimit, Offset: 20}, page)

	_, err = ParsePage(url.Values{"limit": {"0"}, "offset": {"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be a positive integer")
	assert.Contains(t, err.Error(), "offset must be a non-negative integer")
}

func TestParseStandingOrderFilter(t *testing.T) {
	filter, err := ParseStandingOrderFilter(url.Values{"accountId": {" acc-1 "}, "active": {"false"}})
	require.NoError(t, err)
	require.NotNil(t, filter.AccountID)
	assert.Equal(t, "acc-1", *filter.AccountID)
	require.NotNil(t, filter.Active)
	assert.False(t, *filter.Active)

	filter, err = ParseStandingOrderFilter(url.Values{"accountId": {" "}})
	require.NoError(t, err)
	assert.Nil(t, filter.AccountID)
	assert.Nil(t, filter.Active)

	_, err = ParseStandingOrderFilter(url.Values{"active": {"sometimes"}, "limit": {"-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "active must be true or false")
}

func TestBillPaymentRequestValidate(t *testing.T) {
	req := BillPaymentRequest{}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accountId is required")
	assert.Contains(t, err.Error(), "billerCode is required")
	assert.Contains(t, err.Error(), "billAccountNumber is required")
	assert.Contains(t, err.Error(), "amount must be greater than zero")
}
