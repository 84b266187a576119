package store

import (
	"context"
	"fmt"
	"time"

	"protofolio/backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) attemptKey(email, ip string, t model.AttemptType) *gorm.DB {
	return s.db.Where("email = ? AND ip_address = ? AND type = ?", email, ip, t)
}

func (s *Store) FailedAttempt(ctx context.Context, email, ip string, t model.AttemptType) (*model.FailedAttempt, error) {
	return first[model.FailedAttempt](ctx, s.attemptKey(email, ip, t), "failed attempt")
}

// IncrementFailedAttempt bumps the counter for the key in a single upsert and
// returns the value it ended up with. Concurrent failures never lose an update.
func (s *Store) IncrementFailedAttempt(ctx context.Context, email, ip string, t model.AttemptType, at time.Time) (int, error) {
	rec := model.FailedAttempt{
		Email:       email,
		IPAddress:   ip,
		Type:        t,
		Attempts:    1,
		LastAttempt: at,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}, {Name: "ip_address"}, {Name: "type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"attempts":     gorm.Expr("failed_attempts.attempts + 1"),
				"last_attempt": at,
				"updated_at":   at,
			}),
		}).
		Create(&rec).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to record failed attempt, %w", err)
	}

	var attempts int
	err = s.attemptKey(email, ip, t).
		WithContext(ctx).
		Model(&model.FailedAttempt{}).
		Select("attempts").
		Scan(&attempts).
		Error
	if err != nil {
		return 0, fmt.Errorf("failed to read failed attempt count, %w", err)
	}

	return attempts, nil
}

func (s *Store) LockFailedAttempt(ctx context.Context, email, ip string, t model.AttemptType, until time.Time) error {
	err := s.attemptKey(email, ip, t).
		WithContext(ctx).
		Model(&model.FailedAttempt{}).
		Update("locked_until", until).
		Error
	if err != nil {
		return fmt.Errorf("failed to lock attempts, %w", err)
	}

	return nil
}

// ClearFailedAttempts resets the key to zero attempts and lifts any lock
func (s *Store) ClearFailedAttempts(ctx context.Context, email, ip string, t model.AttemptType, at time.Time) error {
	err := s.attemptKey(email, ip, t).
		WithContext(ctx).
		Model(&model.FailedAttempt{}).
		Updates(map[string]any{
			"attempts":     0,
			"locked_until": nil,
			"last_attempt": at,
		}).
		Error
	if err != nil {
		return fmt.Errorf("failed to clear failed attempts, %w", err)
	}

	return nil
}
