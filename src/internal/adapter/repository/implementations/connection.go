package implementations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/core-ledger/src/internal/logger"
	_ "github.com/lib/pq"
)

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	// Batch runners post from several goroutines at once.
	db.SetMaxIdleConns(20)
	db.SetMaxOpenConns(30)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(15 * time.Minute)

	logger.Info("postgres connection established", logger.Fields{"maxOpenConns": 30})
	return db, nil
}
