// Package store persists the authentication ledgers through gorm. Lookups that
// find nothing return a nil record and a nil error; every other failure is
// wrapped and returned as is.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"protofolio/backend/internal/model"

	"gorm.io/gorm"
)

// Idle failed-attempt rows older than this are forgotten by PruneExpired
const attemptRetention = 24 * time.Hour

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle to tests
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database still answers
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle, %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database, %w", err)
	}

	return nil
}

func first[T any](ctx context.Context, q *gorm.DB, what string) (*T, error) {
	var rec T

	err := q.WithContext(ctx).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to load %s, %w", what, err)
	}

	return &rec, nil
}

// PruneExpired drops every ledger row that can no longer influence a decision
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	var total int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			what string
			q    *gorm.DB
			m    any
		}{
			{"verification records", tx.Where("expires_at <= ?", now), &model.VerificationRecord{}},
			{"password resets", tx.Where("used = ? OR expires_at <= ?", true, now), &model.PasswordReset{}},
			{"blacklist entries", tx.Where("expires_at <= ?", now), &model.BlacklistEntry{}},
			{"failed attempts", tx.Where("last_attempt <= ? AND (locked_until IS NULL OR locked_until <= ?)", now.Add(-attemptRetention), now), &model.FailedAttempt{}},
		}

		for _, st := range steps {
			r := st.q.Delete(st.m)
			if r.Error != nil {
				return fmt.Errorf("failed to prune %s, %w", st.what, r.Error)
			}

			total += r.RowsAffected
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}
