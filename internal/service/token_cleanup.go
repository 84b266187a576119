package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Pruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanup periodically removes expired verification codes, reset tokens,
// blacklist entries and stale failed attempts until ctx is cancelled
func TokenCleanup(ctx context.Context, t time.Duration, p Pruner) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := p.PruneExpired(ctx, time.Now().UTC())
				if err != nil {
					zap.L().Error("Failed to cleanup database", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Cleaned up expired records", zap.Int64("count", n))
				}
			}
		}
	}()
}
