package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3p5dTgk0NC9r0mHZbFpP3uS"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHANNEL_KEY_HASH", testKeyHash)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 8, cfg.BatchConcurrency)
	assert.Equal(t, 30, cfg.InterestPeriodDays)
	assert.Equal(t, []string{"ledger:read", "ledger:write", "loans:manage", "jobs:run"}, cfg.ChannelCapabilities)
	assert.Equal(t, "12", cfg.ProvisionalRate().String())
	assert.Contains(t, cfg.DatabaseDSN, "dbname=core_ledger_db")
	assert.Equal(t, testKeyHash, cfg.ChannelKeyHash)
	assert.False(t, cfg.AllowUnauthenticated)
}

func TestLoadRequiresChannelKeyHash(t *testing.T) {
	t.Setenv("CHANNEL_KEY_HASH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHANNEL_KEY_HASH")
}

func TestLoadAllowsUnauthenticatedWhenExplicit(t *testing.T) {
	t.Setenv("CHANNEL_KEY_HASH", "")
	t.Setenv("ALLOW_UNAUTHENTICATED", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AllowUnauthenticated)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CHANNEL_KEY_HASH", testKeyHash)
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("BATCH_CONCURRENCY", "3")
	t.Setenv("CHANNEL_CAPABILITIES", "ledger:read")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 3, cfg.BatchConcurrency)
	assert.Equal(t, []string{"ledger:read"}, cfg.ChannelCapabilities)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("PROVISIONAL_LOAN_RATE", "150")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "PROVISIONAL_LOAN_RATE")
}

func TestNormalizeConnectionString(t *testing.T) {
	got := normalizeConnectionString("Host=db;Port=5433;Database=ledger;Username=app;Password=pw;CommandTimeout=30")
	assert.Equal(t, "host=db port=5433 dbname=ledger user=app password=pw statement_timeout=30s sslmode=disable", got)

	url := "postgres://app:pw@db:5432/ledger?sslmode=disable"
	assert.Equal(t, url, normalizeConnectionString(url))
}
