package dto

import (
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
)

// UserEvent is an event joined with the caller's registration
type UserEvent struct {
	ID          string
	ClubID      string
	Title       string
	Description string
	Location    string
	StartsAt    time.Time
	Capacity    int
	Status      entity.ApprovalStatus
	TicketCode  string
	Visited     bool
	JoinedAt    time.Time
}

func (e *UserEvent) IsOver(now time.Time) bool {
	return e.StartsAt.Before(now)
}
