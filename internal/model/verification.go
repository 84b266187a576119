package model

import "time"

// VerificationRecord holds the one pending email verification code per address
type VerificationRecord struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Code      string    `gorm:"size:6;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time
}
