package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is owned by the user domain. Auth only creates the empty cart
// alongside a new account.
type Cart struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"uniqueIndex;size:21;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	return nil
}
