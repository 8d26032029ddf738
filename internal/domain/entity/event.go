package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClubID      string         `gorm:"not null;type:uuid;index"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"not null"`
	Location    string         `gorm:"not null"`
	StartsAt    time.Time      `gorm:"not null;index"`
	Capacity    int            `gorm:"not null"`
	Status      ApprovalStatus `gorm:"not null;default:pending;index"`
	SubmittedBy string         `gorm:"type:uuid"`
	DecidedBy   *string        `gorm:"type:uuid"`
	DecidedAt   *time.Time
}

func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *Event) HasStarted(now time.Time) bool {
	return !now.Before(e.StartsAt)
}

// IsUpcoming reports whether the event counts towards the upcoming events of
// a dashboard: not in the past and not rejected.
func (e *Event) IsUpcoming(now time.Time) bool {
	return !e.StartsAt.Before(now) && e.Status != StatusRejected
}
