package store

import (
	"context"
	"fmt"

	"protofolio/backend/internal/model"
)

func (s *Store) DeletePasswordResets(ctx context.Context, email string) error {
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&model.PasswordReset{}).
		Error
	if err != nil {
		return fmt.Errorf("failed to delete password resets, %w", err)
	}

	return nil
}

func (s *Store) CreatePasswordReset(ctx context.Context, rec *model.PasswordReset) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create password reset, %w", err)
	}

	return nil
}

// PasswordReset only matches the exact (email, token) pair
func (s *Store) PasswordReset(ctx context.Context, email, token string) (*model.PasswordReset, error) {
	return first[model.PasswordReset](ctx, s.db.Where("email = ? AND token = ?", email, token), "password reset")
}

func (s *Store) MarkPasswordResetUsed(ctx context.Context, email, token string) error {
	err := s.db.WithContext(ctx).
		Model(&model.PasswordReset{}).
		Where("email = ? AND token = ?", email, token).
		Update("used", true).
		Error
	if err != nil {
		return fmt.Errorf("failed to consume password reset, %w", err)
	}

	return nil
}
