package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/calendar"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type EventParticipantStorage interface {
	Register(ctx context.Context, participant *entity.EventParticipant, check func(event *entity.Event, registered int64) error) (*entity.EventParticipant, error)
	Get(ctx context.Context, eventID, userID string) (*entity.EventParticipant, error)
	GetByTicket(ctx context.Context, eventID, ticketCode string) (*entity.EventParticipant, error)
	MarkVisited(ctx context.Context, id string) error
	Delete(ctx context.Context, eventID, userID string) error
	GetParticipants(ctx context.Context, eventID string) ([]dto.Participant, error)
	GetUserEvents(ctx context.Context, userID string) ([]dto.UserEvent, error)
}

type participantEventStorage interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
}

type ticketRenderer interface {
	TicketQR(eventID, ticketCode string) ([]byte, error)
}

type EventParticipantService struct {
	logger *types.Logger

	storage      EventParticipantStorage
	eventStorage participantEventStorage
	policy       *Policy
	tickets      ticketRenderer
}

func NewEventParticipantService(
	logger *types.Logger,
	storage EventParticipantStorage,
	eventStorage participantEventStorage,
	policy *Policy,
	tickets ticketRenderer,
) *EventParticipantService {
	return &EventParticipantService{
		logger:       logger,
		storage:      storage,
		eventStorage: eventStorage,
		policy:       policy,
		tickets:      tickets,
	}
}

// registrationAllowed reports why a participant may not join the event, if
// anything prevents it.
func registrationAllowed(event *entity.Event, registered int64, now time.Time) error {
	if event.Status != entity.StatusApproved {
		return errorz.ErrEventNotApproved
	}
	if event.HasStarted(now) {
		return errorz.ErrEventFinished
	}
	if registered >= int64(event.Capacity) {
		return errorz.ErrCapacityExceeded
	}
	return nil
}

// Register adds the actor to an approved event that has not started yet.
// The capacity is a hard limit: the check and the insert run in one
// transaction that locks the event.
func (s *EventParticipantService) Register(ctx context.Context, actor entity.Actor, eventID string) (*entity.EventParticipant, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	now := time.Now()
	if err = registrationAllowed(event, 0, now); err != nil {
		return nil, err
	}

	_, err = s.storage.Get(ctx, eventID, actor.UserID)
	switch {
	case err == nil:
		return nil, errorz.ErrAlreadyRegistered
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get registration: %w", err)
	}

	participant, err := s.storage.Register(ctx, &entity.EventParticipant{
		EventID: eventID,
		UserID:  actor.UserID,
	}, func(locked *entity.Event, registered int64) error {
		return registrationAllowed(locked, registered, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, errorz.ErrAlreadyRegistered
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("event: %w", errorz.ErrNotFound)
		case errors.Is(err, errorz.ErrCapacityExceeded),
			errors.Is(err, errorz.ErrEventNotApproved),
			errors.Is(err, errorz.ErrEventFinished):
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.logger.Infof("User registered (event_id=%s, user_id=%s)", eventID, actor.UserID)
	return participant, nil
}

// Unregister removes the registration of the actor before the event starts.
func (s *EventParticipantService) Unregister(ctx context.Context, actor entity.Actor, eventID string) error {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return err
	}
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return notFound(err, "event")
	}
	if event.HasStarted(time.Now()) {
		return errorz.ErrEventFinished
	}
	if err = s.storage.Delete(ctx, eventID, actor.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorz.ErrNotRegistered
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	s.logger.Infof("User unregistered (event_id=%s, user_id=%s)", eventID, actor.UserID)
	return nil
}

func (s *EventParticipantService) registration(ctx context.Context, actor entity.Actor, eventID string) (*entity.EventParticipant, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	participant, err := s.storage.Get(ctx, eventID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrNotRegistered
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return participant, nil
}

// Ticket renders the registration ticket of the actor as a PNG QR code.
func (s *EventParticipantService) Ticket(ctx context.Context, actor entity.Actor, eventID string) ([]byte, error) {
	participant, err := s.registration(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	return s.tickets.TicketQR(eventID, participant.TicketCode)
}

// CheckIn marks the ticket holder as visited. The ticket is either the bare
// code or the scanned QR payload. Checking in twice is harmless.
func (s *EventParticipantService) CheckIn(ctx context.Context, actor entity.Actor, eventID, ticket string) (*entity.EventParticipant, error) {
	ticketCode := ticket
	if payloadEventID, code, ok := ParseTicketContent(ticket); ok {
		if payloadEventID != eventID {
			return nil, errorz.ErrInvalidTicket
		}
		ticketCode = code
	}

	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if err = s.policy.RequireClubAdmin(ctx, actor, event.ClubID); err != nil {
		return nil, err
	}

	participant, err := s.storage.GetByTicket(ctx, eventID, ticketCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorz.ErrInvalidTicket
		}
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if participant.Visited {
		return participant, nil
	}
	if err = s.storage.MarkVisited(ctx, participant.ID); err != nil {
		return nil, fmt.Errorf("mark visited: %w", err)
	}
	participant.Visited = true
	s.logger.Infof("Ticket checked in (event_id=%s, user_id=%s, by=%s)", eventID, participant.UserID, actor.UserID)
	return participant, nil
}

// Participants lists the registrations of an event for admins of its club.
func (s *EventParticipantService) Participants(ctx context.Context, actor entity.Actor, eventID string) ([]dto.Participant, error) {
	event, err := s.eventStorage.Get(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event")
	}
	if err = s.policy.RequireClubAdmin(ctx, actor, event.ClubID); err != nil {
		return nil, err
	}
	return s.storage.GetParticipants(ctx, eventID)
}

// ExportParticipants renders the participants of an event as an XLSX sheet.
func (s *EventParticipantService) ExportParticipants(ctx context.Context, actor entity.Actor, eventID string) (*bytes.Buffer, error) {
	participants, err := s.Participants(ctx, actor, eventID)
	if err != nil {
		return nil, err
	}
	return participantsToXLSX(participants)
}

func (s *EventParticipantService) MyEvents(ctx context.Context, actor entity.Actor) ([]dto.UserEvent, error) {
	if err := s.policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.storage.GetUserEvents(ctx, actor.UserID)
}

// MyCalendar exports the registrations of the actor as iCalendar.
func (s *EventParticipantService) MyCalendar(ctx context.Context, actor entity.Actor) ([]byte, error) {
	events, err := s.MyEvents(ctx, actor)
	if err != nil {
		return nil, err
	}
	return calendar.ExportEventsToICS(events, time.Now().UTC())
}

func participantsToXLSX(participants []dto.Participant) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	_ = f.SetCellValue(sheet, "A1", "Name")
	_ = f.SetCellValue(sheet, "B1", "Email")
	_ = f.SetCellValue(sheet, "C1", "Telegram")
	_ = f.SetCellValue(sheet, "D1", "Registered at")
	_ = f.SetCellValue(sheet, "E1", "Visited")
	for i, participant := range participants {
		row := strconv.Itoa(i + 2)
		_ = f.SetCellValue(sheet, "A"+row, participant.Name)
		_ = f.SetCellValue(sheet, "B"+row, participant.Email)
		if participant.TelegramID != nil {
			_ = f.SetCellValue(sheet, "C"+row, *participant.TelegramID)
		}
		_ = f.SetCellValue(sheet, "D"+row, participant.JoinedAt.In(location.Location()).Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sheet, "E"+row, participant.Visited)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &buf, nil
}
