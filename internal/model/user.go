// Package model defines database models
package model

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

const idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type User struct {
	ID    string  `gorm:"primaryKey;size:21" json:"id"`
	Email string  `gorm:"uniqueIndex;not null" json:"email"`
	Name  *string `json:"name"`
	Photo *string `json:"photo"`
	// Nil until the account completes local registration
	PasswordHash *string `json:"-"`
	Provider     string  `gorm:"size:16;not null;default:local" json:"provider"`
	GoogleID     *string `gorm:"index" json:"-"`
	Role         string  `gorm:"size:16;not null;default:user" json:"role"`
	Verified     bool    `gorm:"not null;default:false" json:"verified"`
	// SHA-256 digest of the current refresh token, never the raw token
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Cart *Cart `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a nanoid to users created without an ID
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID != "" {
		return nil
	}

	id, err := gonanoid.Generate(idCharset, 21)
	if err != nil {
		return err
	}

	u.ID = id
	return nil
}
