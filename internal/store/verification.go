package store

import (
	"context"
	"fmt"

	"protofolio/backend/internal/model"

	"gorm.io/gorm/clause"
)

func (s *Store) VerificationByEmail(ctx context.Context, email string) (*model.VerificationRecord, error) {
	return first[model.VerificationRecord](ctx, s.db.Where("email = ?", email), "verification record")
}

// UpsertVerification replaces the pending code for rec.Email or inserts a new one
func (s *Store) UpsertVerification(ctx context.Context, rec *model.VerificationRecord) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at"}),
		}).
		Create(rec).
		Error
	if err != nil {
		return fmt.Errorf("failed to save verification record, %w", err)
	}

	return nil
}

func (s *Store) DeleteVerification(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&model.VerificationRecord{}).
		Error
	if err != nil {
		return fmt.Errorf("failed to delete verification record, %w", err)
	}

	return nil
}
