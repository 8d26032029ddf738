package postgres

import (
	"context"

	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventParticipantStorage struct {
	db *gorm.DB
}

func NewEventParticipantStorage(db *gorm.DB) *EventParticipantStorage {
	return &EventParticipantStorage{
		db: db,
	}
}

// Register locks the event row, counts its participants, runs check and
// inserts the participant in a single transaction, so concurrent
// registrations cannot overshoot the capacity. An error from check aborts
// the registration and is returned as is.
func (s *EventParticipantStorage) Register(ctx context.Context, participant *entity.EventParticipant, check func(event *entity.Event, registered int64) error) (*entity.EventParticipant, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event entity.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", participant.EventID).
			First(&event).Error
		if err != nil {
			return err
		}

		var registered int64
		if err = tx.Model(&entity.EventParticipant{}).Where("event_id = ?", event.ID).Count(&registered).Error; err != nil {
			return err
		}

		if err = check(&event, registered); err != nil {
			return err
		}
		return tx.Create(participant).Error
	})
	return participant, err
}

func (s *EventParticipantStorage) Get(ctx context.Context, eventID, userID string) (*entity.EventParticipant, error) {
	var eventParticipant entity.EventParticipant
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&eventParticipant).Error
	return &eventParticipant, err
}

func (s *EventParticipantStorage) GetByTicket(ctx context.Context, eventID, ticketCode string) (*entity.EventParticipant, error) {
	var eventParticipant entity.EventParticipant
	err := s.db.WithContext(ctx).Where("event_id = ? AND ticket_code = ?", eventID, ticketCode).First(&eventParticipant).Error
	return &eventParticipant, err
}

func (s *EventParticipantStorage) MarkVisited(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&entity.EventParticipant{}).Where("id = ?", id).Update("visited", true).Error
}

func (s *EventParticipantStorage) Delete(ctx context.Context, eventID, userID string) error {
	res := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.EventParticipant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetParticipants returns the participants of an event joined with user data
// in registration order.
func (s *EventParticipantStorage) GetParticipants(ctx context.Context, eventID string) ([]dto.Participant, error) {
	var result []dto.Participant
	err := s.db.WithContext(ctx).
		Table("event_participants").
		Select("event_participants.user_id, users.name, users.email, users.telegram_id, event_participants.visited, event_participants.joined_at").
		Joins("JOIN users ON users.id = event_participants.user_id").
		Where("event_participants.event_id = ?", eventID).
		Order("event_participants.joined_at ASC").
		Scan(&result).Error
	return result, err
}

// GetUserEvents returns the events a user registered for, soonest first.
func (s *EventParticipantStorage) GetUserEvents(ctx context.Context, userID string) ([]dto.UserEvent, error) {
	var result []dto.UserEvent
	err := s.db.WithContext(ctx).
		Table("event_participants").
		Select("events.id, events.club_id, events.title, events.description, events.location, events.starts_at, " +
			"events.capacity, events.status, event_participants.ticket_code, event_participants.visited, event_participants.joined_at").
		Joins("JOIN events ON events.id = event_participants.event_id").
		Where("event_participants.user_id = ?", userID).
		Order("events.starts_at ASC").
		Scan(&result).Error
	return result, err
}

// GetRegisteredEventIDs returns which of eventIDs the user is registered for.
func (s *EventParticipantStorage) GetRegisteredEventIDs(ctx context.Context, userID string, eventIDs []string) (map[string]bool, error) {
	registered := make(map[string]bool)
	if userID == "" || len(eventIDs) == 0 {
		return registered, nil
	}
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&entity.EventParticipant{}).
		Where("user_id = ? AND event_id IN ?", userID, eventIDs).
		Pluck("event_id", &ids).Error
	for _, id := range ids {
		registered[id] = true
	}
	return registered, err
}
