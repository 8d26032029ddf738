package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/internal/domain/utils/location"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

var (
	ApproveEventButton = tele.Btn{Unique: "event_approve", Text: "Approve"}
	RejectEventButton  = tele.Btn{Unique: "event_reject", Text: "Reject"}
)

type eventService interface {
	ListPending(ctx context.Context, actor entity.Actor) ([]dto.Event, error)
	Decide(ctx context.Context, actor entity.Actor, eventID string, outcome string) (*entity.Event, error)
}

type Handler struct {
	eventService eventService
	logger       *types.Logger
}

func New(b *bot.Bot, events eventService) *Handler {
	return &Handler{
		eventService: events,
		logger:       b.Logger,
	}
}

// AdminSetup registers the site admin commands on the group.
func (h Handler) AdminSetup(group *tele.Group) {
	group.Handle("/pending", h.PendingEvents)
	group.Handle(&ApproveEventButton, h.DecideEvent(entity.StatusApproved))
	group.Handle(&RejectEventButton, h.DecideEvent(entity.StatusRejected))
}

// PendingEvents sends every event waiting for review as its own message with
// approve and reject buttons.
func (h Handler) PendingEvents(c tele.Context) error {
	events, err := h.eventService.ListPending(context.Background(), middlewares.Actor(c))
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting pending events: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}
	if len(events) == 0 {
		return c.Send("No events are waiting for review.")
	}

	for _, event := range events {
		markup := &tele.ReplyMarkup{}
		approve, reject := ApproveEventButton, RejectEventButton
		approve.Data, reject.Data = event.ID, event.ID
		markup.Inline(markup.Row(approve, reject))

		if err = c.Send(eventText(event), markup); err != nil {
			return err
		}
	}
	return nil
}

func (h Handler) DecideEvent(outcome entity.ApprovalStatus) tele.HandlerFunc {
	return func(c tele.Context) error {
		eventID := c.Callback().Data
		event, err := h.eventService.Decide(context.Background(), middlewares.Actor(c), eventID, string(outcome))
		switch {
		case errors.Is(err, errorz.ErrInvalidTransition):
			return c.Edit(c.Message().Text + "\n\nAlready decided.")
		case errors.Is(err, errorz.ErrNotFound):
			return c.Edit("This event no longer exists.")
		case err != nil:
			h.logger.Errorf("(user: %d) error while deciding event %s: %v", c.Sender().ID, eventID, err)
			return c.Send("Technical issues, please try again later.")
		}

		h.logger.Infof("(user: %d) event %s %s", c.Sender().ID, event.ID, event.Status)
		return c.Edit(fmt.Sprintf("%s\n\nDecision: %s", c.Message().Text, event.Status))
	}
}

func eventText(event dto.Event) string {
	return fmt.Sprintf("%s\n%s, %s\nCapacity: %d\n\n%s",
		event.Title,
		event.StartsAt.In(location.Location()).Format("02 Jan 2006 15:04"),
		event.Location,
		event.Capacity,
		event.Description,
	)
}
