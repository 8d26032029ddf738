package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventParticipant struct {
	ID         string    `gorm:"primaryKey;type:uuid"`
	EventID    string    `gorm:"not null;type:uuid;uniqueIndex:idx_participant_event_user"`
	UserID     string    `gorm:"not null;type:uuid;uniqueIndex:idx_participant_event_user;index"`
	TicketCode string    `gorm:"not null;uniqueIndex"`
	Visited    bool      `gorm:"not null;default:false"`
	JoinedAt   time.Time `gorm:"autoCreateTime"`
}

func (p *EventParticipant) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TicketCode == "" {
		p.TicketCode = uuid.NewString()
	}
	return nil
}
