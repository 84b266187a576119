package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type AccountPruner interface {
	DeleteStaleAccounts(ctx context.Context, cutoff time.Time) (int64, error)
}

// AccountCleanup periodically deletes accounts that verified their email
// address but never finished registration within ttl. Such an account can't
// sign in and blocks the address from registering again.
func AccountCleanup(ctx context.Context, t, ttl time.Duration, p AccountPruner) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Account cleanup attached", zap.Duration("tick_every", t), zap.Duration("ttl", ttl))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := p.DeleteStaleAccounts(ctx, time.Now().UTC().Add(-ttl))
				if err != nil {
					zap.L().Error("Failed to delete stale accounts", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Account cleanup finished", zap.Int64("deleted", n))
				}
			}
		}
	}()
}
