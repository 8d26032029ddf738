package dto

import (
	"time"

	"github.com/Badsnus/campus-events/internal/domain/entity"
)

type Event struct {
	ID                string
	ClubID            string
	Title             string
	Description       string
	Location          string
	StartsAt          time.Time
	Capacity          int
	Status            entity.ApprovalStatus
	RegistrationCount int64
	IsRegistered      bool
}

func NewEventFromEntity(event entity.Event, registrationCount int64, isRegistered bool) Event {
	return Event{
		ID:                event.ID,
		ClubID:            event.ClubID,
		Title:             event.Title,
		Description:       event.Description,
		Location:          event.Location,
		StartsAt:          event.StartsAt,
		Capacity:          event.Capacity,
		Status:            event.Status,
		RegistrationCount: registrationCount,
		IsRegistered:      isRegistered,
	}
}

func (e Event) SeatsLeft() int {
	left := e.Capacity - int(e.RegistrationCount)
	if left < 0 {
		return 0
	}
	return left
}

// EventInput is the raw submission of a club admin. Date is YYYY-MM-DD and
// Time is HH:MM in the configured time zone.
type EventInput struct {
	Title       string
	Description string
	Date        string
	Time        string
	Location    string
	Capacity    int
}
