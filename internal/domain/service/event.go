package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/validator"
	"github.com/Badsnus/campus-events/pkg/logger/types"
)

// Tabs of the club admin event table.
const (
	TabAll      = "all"
	TabUpcoming = "upcoming"
	TabPending  = "pending"
	TabPast     = "past"
)

type EventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	UpdateStatus(ctx context.Context, id string, status entity.ApprovalStatus, decidedBy string, decidedAt time.Time) (int64, error)
	GetByStatus(ctx context.Context, status entity.ApprovalStatus) ([]entity.Event, error)
	GetApproved(ctx context.Context, from time.Time, clubIDs []string, limit int) ([]entity.Event, error)
	GetByClubIDs(ctx context.Context, clubIDs []string) ([]entity.Event, error)
}

type eventClubStorage interface {
	Get(ctx context.Context, id string) (*entity.Club, error)
}

type eventMembershipStorage interface {
	GetAdministeredClubIDs(ctx context.Context, userID string) ([]string, error)
}

type eventRegistrationStorage interface {
	GetRegisteredEventIDs(ctx context.Context, userID string, eventIDs []string) (map[string]bool, error)
}

type registrationCounter interface {
	RegistrationCounts(ctx context.Context, eventIDs []string) (map[string]int64, error)
}

type eventNotifier interface {
	EventSubmitted(club entity.Club, event entity.Event)
	EventDecided(club entity.Club, event entity.Event)
}

type EventService struct {
	logger *types.Logger

	storage             EventStorage
	clubStorage         eventClubStorage
	membershipStorage   eventMembershipStorage
	registrationStorage eventRegistrationStorage
	counter             registrationCounter
	policy              *Policy
	notifier            eventNotifier
}

func NewEventService(
	logger *types.Logger,
	storage EventStorage,
	clubStorage eventClubStorage,
	membershipStorage eventMembershipStorage,
	registrationStorage eventRegistrationStorage,
	counter registrationCounter,
	policy *Policy,
	notifier eventNotifier,
) *EventService {
	return &EventService{
		logger:              logger,
		storage:             storage,
		clubStorage:         clubStorage,
		membershipStorage:   membershipStorage,
		registrationStorage: registrationStorage,
		counter:             counter,
		policy:              policy,
		notifier:            notifier,
	}
}

// Submit creates a pending event of the club. Only admins of the club and
// site admins may submit.
func (s *EventService) Submit(ctx context.Context, actor entity.Actor, clubID string, input dto.EventInput) (*entity.Event, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	club, err := s.clubStorage.Get(ctx, clubID)
	if err != nil {
		return nil, notFound(err, "club")
	}
	if err = s.policy.RequireClubAdmin(ctx, actor, clubID); err != nil {
		return nil, err
	}

	startsAt, err := validator.Event(input, time.Now())
	if err != nil {
		return nil, err
	}

	event, err := s.storage.Create(ctx, &entity.Event{
		ClubID:      clubID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    startsAt,
		Capacity:    input.Capacity,
		Status:      entity.StatusPending,
		SubmittedBy: actor.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.logger.Infof("Event submitted (event_id=%s, club_id=%s, by=%s)", event.ID, clubID, actor.UserID)
	s.notifier.EventSubmitted(*club, *event)
	return event, nil
}

// Decide approves or rejects a pending event. It follows the same rules as
// membership decisions and is reserved to site admins.
func (s *EventService) Decide(ctx context.Context, actor entity.Actor, eventID string, outcome string) (*entity.Event, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	status, ok := entity.ParseOutcome(outcome)
	if !ok {
		return nil, errorz.Validation("outcome")
	}

	event, err := s.storage.Get(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if !event.Status.CanTransition(status) {
		return decidedEvent(event, status)
	}

	now := time.Now().UTC()
	updated, err := s.storage.UpdateStatus(ctx, event.ID, status, actor.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if updated == 0 {
		current, err := s.storage.Get(ctx, event.ID)
		if err != nil {
			return nil, notFound(err, "event")
		}
		return decidedEvent(current, status)
	}

	event.Status = status
	event.DecidedBy = &actor.UserID
	event.DecidedAt = &now
	s.logger.Infof("Event %s (event_id=%s, by=%s)", status, event.ID, actor.UserID)

	if club, err := s.clubStorage.Get(ctx, event.ClubID); err == nil {
		s.notifier.EventDecided(*club, *event)
	} else {
		s.logger.Errorf("failed to get club %s for notification: %v", event.ClubID, err)
	}
	return event, nil
}

func decidedEvent(event *entity.Event, status entity.ApprovalStatus) (*entity.Event, error) {
	if event.Status == status {
		return event, nil
	}
	return nil, fmt.Errorf("event is %s: %w", event.Status, errorz.ErrInvalidTransition)
}

// Get returns an event with its registration count. Events that are not
// approved are only visible to admins of their club.
func (s *EventService) Get(ctx context.Context, actor entity.Actor, eventID string) (*dto.Event, error) {
	event, err := s.storage.Get(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if event.Status != entity.StatusApproved {
		if err = s.policy.RequireClubAdmin(ctx, actor, event.ClubID); err != nil {
			return nil, fmt.Errorf("event: %w", errorz.ErrNotFound)
		}
	}

	events, err := s.withCounts(ctx, actor, []entity.Event{*event})
	if err != nil {
		return nil, err
	}
	return &events[0], nil
}

// ListPending returns the events waiting for a site admin decision.
func (s *EventService) ListPending(ctx context.Context, actor entity.Actor) ([]dto.Event, error) {
	if err := s.policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	events, err := s.storage.GetByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("get pending events: %w", err)
	}
	return s.withCounts(ctx, actor, events)
}

// ListApproved returns approved events starting at or after from, soonest
// first. An empty clubID lists every club.
func (s *EventService) ListApproved(ctx context.Context, actor entity.Actor, from time.Time, clubID string, limit int) ([]dto.Event, error) {
	var clubIDs []string
	if clubID != "" {
		clubIDs = []string{clubID}
	}
	events, err := s.storage.GetApproved(ctx, from, clubIDs, limit)
	if err != nil {
		return nil, fmt.Errorf("get approved events: %w", err)
	}
	return s.withCounts(ctx, actor, events)
}

// ListForClubAdmin returns the events of the clubs the actor administers,
// newest first, filtered by tab.
func (s *EventService) ListForClubAdmin(ctx context.Context, actor entity.Actor, tab string) ([]dto.Event, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	if tab == "" {
		tab = TabAll
	}
	switch tab {
	case TabAll, TabUpcoming, TabPending, TabPast:
	default:
		return nil, errorz.Validation("tab")
	}

	clubIDs, err := s.membershipStorage.GetAdministeredClubIDs(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("get administered clubs: %w", err)
	}
	if len(clubIDs) == 0 && !actor.IsAdmin() {
		return nil, errorz.ErrForbidden
	}

	events, err := s.storage.GetByClubIDs(ctx, clubIDs)
	if err != nil {
		return nil, fmt.Errorf("get club events: %w", err)
	}

	now := time.Now()
	filtered := make([]entity.Event, 0, len(events))
	for _, event := range events {
		switch {
		case tab == TabUpcoming && !event.IsUpcoming(now):
		case tab == TabPending && event.Status != entity.StatusPending:
		case tab == TabPast && !event.StartsAt.Before(now):
		default:
			filtered = append(filtered, event)
		}
	}
	return s.withCounts(ctx, actor, filtered)
}

func (s *EventService) withCounts(ctx context.Context, actor entity.Actor, events []entity.Event) ([]dto.Event, error) {
	ids := make([]string, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	counts, err := s.counter.RegistrationCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	registered, err := s.registrationStorage.GetRegisteredEventIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("get registrations: %w", err)
	}

	result := make([]dto.Event, 0, len(events))
	for _, event := range events {
		result = append(result, dto.NewEventFromEntity(event, counts[event.ID], registered[event.ID]))
	}
	return result, nil
}
