package model

import "time"

type AttemptType string

const (
	AttemptLogin        AttemptType = "login"
	AttemptVerification AttemptType = "verification"
)

// FailedAttempt counts consecutive failures for one (email, ip, type) key
type FailedAttempt struct {
	ID          uint        `gorm:"primaryKey;autoIncrement"`
	Email       string      `gorm:"uniqueIndex:idx_failed_attempt_key;index:idx_failed_attempt_email;not null"`
	IPAddress   string      `gorm:"uniqueIndex:idx_failed_attempt_key;index:idx_failed_attempt_ip;size:64;not null"`
	Type        AttemptType `gorm:"uniqueIndex:idx_failed_attempt_key;index:idx_failed_attempt_email;index:idx_failed_attempt_ip;size:16;not null"`
	Attempts    int         `gorm:"not null;default:0"`
	LastAttempt time.Time
	LockedUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
