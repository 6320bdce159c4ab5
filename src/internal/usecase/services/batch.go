package services

import (
	"context"
	"sync"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"golang.org/x/sync/errgroup"
)

const defaultBatchConcurrency = 8

// runBatch calls fn for each id with at most limit calls in flight. fn
// reports true for a processed item, false with a nil error for a skipped
// one. Items run in their own units of work; once ctx is cancelled no new
// item starts and finished items stand.
func runBatch(ctx context.Context, name string, limit int, ids []string, fn func(ctx context.Context, id string) (bool, error)) domain.BatchResult {
	if limit < 1 {
		limit = defaultBatchConcurrency
	}

	var (
		mu     sync.Mutex
		result domain.BatchResult
		g      errgroup.Group
	)
	g.SetLimit(limit)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			done, err := fn(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				logger.Error(name+" item failed", err, logger.Fields{"id": id})
				result.Fail(id, err)
			case done:
				result.Succeeded++
			default:
				result.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	return result
}
