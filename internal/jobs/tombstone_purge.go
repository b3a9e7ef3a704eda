package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/62String/devicerent-sub000/internal/repositories"
)

// StartTombstonePurge removes deleted-user tombstones past the retention
// window on a ticker. PostgreSQL has no row TTL, so retention is enforced
// here.
func StartTombstonePurge(ctx context.Context, repo repositories.Repository, retention, interval time.Duration, logger *slog.Logger) {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().UTC().Add(-retention)
				tickCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
				purged, err := repo.DeletedUser().PurgeOlderThan(tickCtx, cutoff)
				cancel()
				if err != nil {
					logger.Error("tombstone purge failed", "error", err)
					continue
				}
				if purged > 0 {
					logger.Info("tombstone purge completed", "purged", purged)
				}
			}
		}
	}()
}
