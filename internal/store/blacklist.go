package store

import (
	"context"
	"fmt"

	"protofolio/backend/internal/model"

	"gorm.io/gorm/clause"
)

// BlacklistToken stores e. Blacklisting an already revoked token is a no-op.
func (s *Store) BlacklistToken(ctx context.Context, e *model.BlacklistEntry) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoNothing: true,
		}).
		Create(e).
		Error
	if err != nil {
		return fmt.Errorf("failed to blacklist token, %w", err)
	}

	return nil
}

func (s *Store) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var n int64

	err := s.db.WithContext(ctx).
		Model(&model.BlacklistEntry{}).
		Where("token = ?", token).
		Count(&n).
		Error
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist, %w", err)
	}

	return n > 0, nil
}
