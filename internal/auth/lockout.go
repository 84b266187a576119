package auth

import (
	"context"
	"fmt"
	"math"
	"time"

	"protofolio/backend/internal/model"
)

// Policy is the lockout rule for one attempt type
type Policy struct {
	MaxAttempts int
	LockFor     time.Duration
}

var policies = map[model.AttemptType]Policy{
	model.AttemptLogin:        {MaxAttempts: 5, LockFor: 30 * time.Minute},
	model.AttemptVerification: {MaxAttempts: 3, LockFor: 15 * time.Minute},
}

func lockedErr(remaining time.Duration) *Error {
	minutes := int(math.Ceil(remaining.Minutes()))

	return &Error{
		Kind:       RateLimited,
		Msg:        fmt.Sprintf("Too many failed attempts. Try again in %d minute(s)", minutes),
		RetryAfter: remaining,
	}
}

// checkLock fails with RateLimited while the key is locked. A lock that has
// elapsed resets the key.
func (s *Service) checkLock(ctx context.Context, email, ip string, t model.AttemptType) error {
	rec, err := s.store.FailedAttempt(ctx, email, ip, t)
	if err != nil {
		return internal("Failed to check failed attempts", err)
	}

	if rec == nil {
		return nil
	}

	now := s.clock()
	p := policies[t]

	if rec.LockedUntil != nil {
		if now.Before(*rec.LockedUntil) {
			return lockedErr(rec.LockedUntil.Sub(now))
		}

		if err := s.store.ClearFailedAttempts(ctx, email, ip, t, now); err != nil {
			return internal("Failed to reset failed attempts", err)
		}

		return nil
	}

	// Counter at the limit without a lock, lock it now
	if rec.Attempts >= p.MaxAttempts {
		until := now.Add(p.LockFor)
		if err := s.store.LockFailedAttempt(ctx, email, ip, t, until); err != nil {
			return internal("Failed to lock attempts", err)
		}

		return lockedErr(p.LockFor)
	}

	return nil
}

// recordFailure counts one failure and locks the key once it reaches the limit
func (s *Service) recordFailure(ctx context.Context, email, ip string, t model.AttemptType) error {
	now := s.clock()

	n, err := s.store.IncrementFailedAttempt(ctx, email, ip, t, now)
	if err != nil {
		return internal("Failed to record failed attempt", err)
	}

	p := policies[t]
	if n >= p.MaxAttempts {
		if err := s.store.LockFailedAttempt(ctx, email, ip, t, now.Add(p.LockFor)); err != nil {
			return internal("Failed to lock attempts", err)
		}
	}

	return nil
}

func (s *Service) clearFailures(ctx context.Context, email, ip string, t model.AttemptType) error {
	if err := s.store.ClearFailedAttempts(ctx, email, ip, t, s.clock()); err != nil {
		return internal("Failed to reset failed attempts", err)
	}

	return nil
}
