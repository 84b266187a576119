package store

import (
	"context"
	"fmt"
	"time"

	"protofolio/backend/internal/model"

	"gorm.io/gorm"
)

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](ctx, s.db.Where("email = ?", email), "user")
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return first[model.User](ctx, s.db.Where("id = ?", id), "user")
}

// CreateUserWithCart inserts u and its empty cart in one transaction
func (s *Store) CreateUserWithCart(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Cart").Create(u).Error; err != nil {
			return fmt.Errorf("failed to create user, %w", err)
		}

		if err := tx.Create(&model.Cart{UserID: u.ID}).Error; err != nil {
			return fmt.Errorf("failed to create cart, %w", err)
		}

		return nil
	})
}

// UpdateUser applies fields to the user with the given email. A nil value
// in fields writes NULL.
func (s *Store) UpdateUser(ctx context.Context, email string, fields map[string]any) error {
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", email).
		Updates(fields).
		Error
	if err != nil {
		return fmt.Errorf("failed to update user, %w", err)
	}

	return nil
}

func (s *Store) UpdateUserByID(ctx context.Context, id string, fields map[string]any) error {
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields).
		Error
	if err != nil {
		return fmt.Errorf("failed to update user, %w", err)
	}

	return nil
}

// DeleteStaleAccounts removes local accounts that are still unverified and
// have no password, created at or before cutoff, together with their carts
func (s *Store) DeleteStaleAccounts(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stale := tx.Model(&model.User{}).
			Select("id").
			Where("verified = ? AND password_hash IS NULL AND provider = ? AND created_at <= ?", false, model.ProviderLocal, cutoff)

		if err := tx.Where("user_id IN (?)", stale).Delete(&model.Cart{}).Error; err != nil {
			return fmt.Errorf("failed to delete carts, %w", err)
		}

		res := tx.
			Where("verified = ? AND password_hash IS NULL AND provider = ? AND created_at <= ?", false, model.ProviderLocal, cutoff).
			Delete(&model.User{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete users, %w", res.Error)
		}

		n = res.RowsAffected
		return nil
	})

	return n, err
}

// Users returns a page of users, oldest first
func (s *Store) Users(ctx context.Context, take, skip int) ([]model.User, error) {
	out := make([]model.User, 0, take)

	err := s.db.WithContext(ctx).
		Order("created_at asc").
		Order("id asc").
		Limit(take).
		Offset(skip).
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users, %w", err)
	}

	return out, nil
}

// DeleteUser removes the user and its cart. It reports false when no user
// has that id.
func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	var deleted bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Cart{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart, %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete user, %w", res.Error)
		}

		deleted = res.RowsAffected > 0
		return nil
	})

	return deleted, err
}
