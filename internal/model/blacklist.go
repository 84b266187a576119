package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlacklistEntry is a revoked refresh token. ExpiresAt mirrors the token's own
// expiry so the entry can be pruned once the token could no longer verify anyway.
type BlacklistEntry struct {
	ID            string    `gorm:"primaryKey;size:36"`
	Token         string    `gorm:"uniqueIndex;size:1024;not null"`
	UserID        *string   `gorm:"size:21"`
	ExpiresAt     time.Time `gorm:"index;not null"`
	BlacklistedAt time.Time `gorm:"autoCreateTime"`
}

func (BlacklistEntry) TableName() string {
	return "refresh_token_blacklist"
}

func (b *BlacklistEntry) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	return nil
}
