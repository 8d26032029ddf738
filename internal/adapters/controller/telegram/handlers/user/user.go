package user

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

const eventLayout = "02 Jan 2006 15:04"

var TicketButton = tele.Btn{Unique: "ticket"}

type eventParticipantService interface {
	MyEvents(ctx context.Context, actor entity.Actor) ([]dto.UserEvent, error)
	Ticket(ctx context.Context, actor entity.Actor, eventID string) ([]byte, error)
}

type clubMembershipService interface {
	MyClubs(ctx context.Context, actor entity.Actor) ([]entity.Club, error)
}

type Handler struct {
	eventParticipantService eventParticipantService
	clubMembershipService   clubMembershipService

	logger *types.Logger
}

func New(b *bot.Bot, participants eventParticipantService, memberships clubMembershipService) *Handler {
	return &Handler{
		eventParticipantService: participants,
		clubMembershipService:   memberships,
		logger:                  b.Logger,
	}
}

// Events lists the upcoming events the user registered for, with a ticket
// button per event.
func (h Handler) Events(c tele.Context) error {
	events, err := h.eventParticipantService.MyEvents(context.Background(), middlewares.Actor(c))
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user events: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}

	upcoming := upcomingEvents(events, time.Now())
	h.logger.Infof("(user: %d) list events (%d upcoming)", c.Sender().ID, len(upcoming))
	if len(upcoming) == 0 {
		return c.Send("You have no upcoming events. Browse the calendar on the website to register.")
	}

	markup := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(upcoming))
	for _, event := range upcoming {
		btn := TicketButton
		btn.Text = "Ticket: " + event.Title
		btn.Data = event.ID
		rows = append(rows, markup.Row(btn))
	}
	markup.Inline(rows...)

	return c.Send(formatEvents(upcoming), markup)
}

// Ticket sends the QR ticket of the event in the callback data.
func (h Handler) Ticket(c tele.Context) error {
	eventID := c.Callback().Data
	png, err := h.eventParticipantService.Ticket(context.Background(), middlewares.Actor(c), eventID)
	if err != nil {
		if errors.Is(err, errorz.ErrNotRegistered) || errors.Is(err, errorz.ErrNotFound) {
			return c.Send("You are not registered for this event anymore.")
		}
		h.logger.Errorf("(user: %d) error while rendering ticket for event %s: %v", c.Sender().ID, eventID, err)
		return c.Send("Technical issues, please try again later.")
	}

	return c.Send(&tele.Photo{
		File:    tele.FromReader(bytes.NewReader(png)),
		Caption: "Show this code at the entrance.",
	})
}

func (h Handler) Clubs(c tele.Context) error {
	clubs, err := h.clubMembershipService.MyClubs(context.Background(), middlewares.Actor(c))
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting user clubs: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}
	if len(clubs) == 0 {
		return c.Send("You are not a member of any club yet.")
	}

	var sb strings.Builder
	sb.WriteString("Your clubs:\n")
	for _, club := range clubs {
		sb.WriteString("\n• " + club.Name)
	}
	return c.Send(sb.String())
}

func upcomingEvents(events []dto.UserEvent, now time.Time) []dto.UserEvent {
	upcoming := make([]dto.UserEvent, 0, len(events))
	for _, event := range events {
		if !event.IsOver(now) {
			upcoming = append(upcoming, event)
		}
	}
	return upcoming
}

func formatEvents(events []dto.UserEvent) string {
	var sb strings.Builder
	sb.WriteString("Your upcoming events:\n")
	for _, event := range events {
		sb.WriteString(fmt.Sprintf("\n%s\n%s, %s\n",
			event.Title,
			event.StartsAt.In(location.Location()).Format(eventLayout),
			event.Location,
		))
	}
	return sb.String()
}
