package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Club struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string `gorm:"not null;uniqueIndex"`
	Description string
	Category    string `gorm:"index"`
	CreatedBy   string `gorm:"type:uuid"`
}

func (c *Club) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
