package model

import "time"

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"index:idx_password_reset_lookup;not null"`
	Token     string    `gorm:"uniqueIndex;index:idx_password_reset_lookup;size:64;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Used      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
}
