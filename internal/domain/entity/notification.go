package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeDay  NotificationType = "day"
	NotificationTypeHour NotificationType = "hour"
)

// EventNotification represents a reminder that has been sent to a participant
type EventNotification struct {
	ID        string           `gorm:"primaryKey;type:uuid"`
	EventID   string           `gorm:"not null;type:uuid;index"`
	UserID    string           `gorm:"not null;type:uuid"`
	Type      NotificationType `gorm:"not null"`
	CreatedAt time.Time        `gorm:"not null"`
}

func (n *EventNotification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
