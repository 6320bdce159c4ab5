package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	DatabaseDSN   string `env:"DATABASE_DSN" env-default:"Host=localhost;Port=5432;Database=core_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"`
	StoreDriver   string `env:"STORE_DRIVER" env-default:"postgres"`
	MigrationsDir string `env:"MIGRATIONS_DIR" env-default:"src/migrations"`
	HTTPAddr      string `env:"HTTP_ADDR" env-default:":8080"`

	ChannelID           string   `env:"CHANNEL_ID" env-default:"LedgerOps"`
	ChannelKeyHash      string   `env:"CHANNEL_KEY_HASH"`
	ChannelCapabilities []string `env:"CHANNEL_CAPABILITIES" env-default:"ledger:read,ledger:write,loans:manage,jobs:run" env-separator:","`
	// AllowUnauthenticated serves every route without a channel check. Local
	// development only.
	AllowUnauthenticated bool `env:"ALLOW_UNAUTHENTICATED" env-default:"false"`

	AMQPURL        string `env:"AMQP_URL"`
	NotifyExchange string `env:"NOTIFY_EXCHANGE" env-default:"ledger.events"`
	NotifyBuffer   int    `env:"NOTIFY_BUFFER" env-default:"1024"`
	NotifyWorkers  int    `env:"NOTIFY_WORKERS" env-default:"2"`

	BatchConcurrency      int    `env:"BATCH_CONCURRENCY" env-default:"8"`
	InterestPeriodDays    int    `env:"INTEREST_PERIOD_DAYS" env-default:"30"`
	InterestSchedule      string `env:"INTEREST_SCHEDULE" env-default:"0 2 1 * *"`
	StandingOrderSchedule string `env:"STANDING_ORDER_SCHEDULE" env-default:"@hourly"`
	ProvisionalLoanRate   string `env:"PROVISIONAL_LOAN_RATE" env-default:"12"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg.DatabaseDSN = normalizeConnectionString(strings.TrimSpace(cfg.DatabaseDSN))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.ChannelID = strings.TrimSpace(cfg.ChannelID)
	cfg.ChannelKeyHash = strings.TrimSpace(cfg.ChannelKeyHash)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ProvisionalRate is the annual percent used to quote a loan before approval.
func (c Config) ProvisionalRate() decimal.Decimal {
	return decimal.RequireFromString(strings.TrimSpace(c.ProvisionalLoanRate))
}

func (c Config) validate() error {
	var errs []string

	if c.StoreDriver != StoreDriverPostgres && c.StoreDriver != StoreDriverMemory {
		errs = append(errs, fmt.Sprintf("STORE_DRIVER must be %q or %q", StoreDriverPostgres, StoreDriverMemory))
	}
	if c.ChannelKeyHash == "" && !c.AllowUnauthenticated {
		errs = append(errs, "CHANNEL_KEY_HASH is required unless ALLOW_UNAUTHENTICATED=true")
	}
	if c.BatchConcurrency < 1 {
		errs = append(errs, "BATCH_CONCURRENCY must be at least 1")
	}
	if c.InterestPeriodDays < 1 {
		errs = append(errs, "INTEREST_PERIOD_DAYS must be at least 1")
	}
	if c.NotifyBuffer < 1 || c.NotifyWorkers < 1 {
		errs = append(errs, "NOTIFY_BUFFER and NOTIFY_WORKERS must be at least 1")
	}
	if rate, err := decimal.NewFromString(strings.TrimSpace(c.ProvisionalLoanRate)); err != nil || rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, "PROVISIONAL_LOAN_RATE must be a percent between 0 and 100")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}

	return nil
}

func normalizeConnectionString(raw string) string {
	if strings.Contains(raw, "://") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
