package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// BatchPurger removes the document lists of old, completed batches.
type BatchPurger interface {
	PurgeBatchDocuments(ctx context.Context, cutoff time.Time) (int64, error)
}

// RunBatchCleanup purges once, keeping batches completed within ttl.
func RunBatchCleanup(ctx context.Context, p BatchPurger, ttl time.Duration, now time.Time, log zerolog.Logger) (int64, error) {
	n, err := p.PurgeBatchDocuments(ctx, now.Add(-ttl))
	if err != nil {
		log.Error().Err(err).Msg("batch cleanup failed")
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("removed", n).Msg("old batch documents removed")
	}
	return n, nil
}

// StartBatchCleanupScheduler runs RunBatchCleanup every interval until ctx is done.
func StartBatchCleanupScheduler(ctx context.Context, p BatchPurger, ttl, interval time.Duration, log zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			_, _ = RunBatchCleanup(ctx, p, ttl, time.Now(), log)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}
