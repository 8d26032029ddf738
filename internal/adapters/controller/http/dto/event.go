package dto

import (
	"time"

	domain "github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
)

type SubmitEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
}

func (r SubmitEventRequest) ToInput() domain.EventInput {
	return domain.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Capacity:    r.Capacity,
	}
}

type EventResponse struct {
	ID                string    `json:"id"`
	ClubID            string    `json:"club_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	StartsAt          time.Time `json:"starts_at"`
	Capacity          int       `json:"capacity"`
	Status            string    `json:"status"`
	RegistrationCount int64     `json:"registration_count"`
	SeatsLeft         int       `json:"seats_left"`
	IsRegistered      bool      `json:"is_registered"`
}

func ToEventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:                e.ID,
		ClubID:            e.ClubID,
		Title:             e.Title,
		Description:       e.Description,
		Location:          e.Location,
		StartsAt:          e.StartsAt,
		Capacity:          e.Capacity,
		Status:            string(e.Status),
		RegistrationCount: e.RegistrationCount,
		SeatsLeft:         e.SeatsLeft(),
		IsRegistered:      e.IsRegistered,
	}
}

func ToEventResponses(events []domain.Event) []EventResponse {
	result := make([]EventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, ToEventResponse(event))
	}
	return result
}

// FromEntity renders a freshly written event, which has no registrations yet.
func FromEntity(e *entity.Event) EventResponse {
	return ToEventResponse(domain.NewEventFromEntity(*e, 0, false))
}

type UserEventResponse struct {
	ID         string    `json:"id"`
	ClubID     string    `json:"club_id"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	StartsAt   time.Time `json:"starts_at"`
	TicketCode string    `json:"ticket_code"`
	Visited    bool      `json:"visited"`
	IsOver     bool      `json:"is_over"`
}

func ToUserEventResponses(events []domain.UserEvent, now time.Time) []UserEventResponse {
	result := make([]UserEventResponse, 0, len(events))
	for _, e := range events {
		result = append(result, UserEventResponse{
			ID:         e.ID,
			ClubID:     e.ClubID,
			Title:      e.Title,
			Location:   e.Location,
			StartsAt:   e.StartsAt,
			TicketCode: e.TicketCode,
			Visited:    e.Visited,
			IsOver:     e.IsOver(now),
		})
	}
	return result
}

type RegistrationResponse struct {
	EventID    string    `json:"event_id"`
	UserID     string    `json:"user_id"`
	TicketCode string    `json:"ticket_code"`
	Visited    bool      `json:"visited"`
	JoinedAt   time.Time `json:"joined_at"`
}

func ToRegistrationResponse(p *entity.EventParticipant) *RegistrationResponse {
	return &RegistrationResponse{
		EventID:    p.EventID,
		UserID:     p.UserID,
		TicketCode: p.TicketCode,
		Visited:    p.Visited,
		JoinedAt:   p.JoinedAt,
	}
}

type CheckInRequest struct {
	Ticket string `json:"ticket" binding:"required"`
}

type ParticipantResponse struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Visited  bool      `json:"visited"`
	JoinedAt time.Time `json:"joined_at"`
}

func ToParticipantResponses(participants []domain.Participant) []ParticipantResponse {
	result := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		result = append(result, ParticipantResponse{
			UserID:   p.UserID,
			Name:     p.Name,
			Email:    p.Email,
			Visited:  p.Visited,
			JoinedAt: p.JoinedAt,
		})
	}
	return result
}
