package clubowner

import (
	"context"
	"errors"
	"fmt"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/dto"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

var (
	ApproveMemberButton = tele.Btn{Unique: "member_approve", Text: "Approve"}
	RejectMemberButton  = tele.Btn{Unique: "member_reject", Text: "Reject"}
)

type clubMembershipService interface {
	AdministeredClubIDs(ctx context.Context, actor entity.Actor) ([]string, error)
	ListPending(ctx context.Context, actor entity.Actor, clubID string) ([]dto.ClubMember, error)
	Decide(ctx context.Context, actor entity.Actor, membershipID string, outcome string) (*entity.ClubMembership, error)
}

type clubService interface {
	Get(ctx context.Context, clubID string) (*dto.Club, error)
}

type Handler struct {
	clubMembershipService clubMembershipService
	clubService           clubService
	logger                *types.Logger
}

func New(b *bot.Bot, memberships clubMembershipService, clubs clubService) *Handler {
	return &Handler{
		clubMembershipService: memberships,
		clubService:           clubs,
		logger:                b.Logger,
	}
}

func (h Handler) ClubOwnerSetup(group *tele.Group) {
	group.Handle("/requests", h.Requests)
	group.Handle(&ApproveMemberButton, h.DecideMembership(entity.StatusApproved))
	group.Handle(&RejectMemberButton, h.DecideMembership(entity.StatusRejected))
}

// Requests sends the pending join requests of every club the user
// administers.
func (h Handler) Requests(c tele.Context) error {
	ctx := context.Background()
	actor := middlewares.Actor(c)

	clubIDs, err := h.clubMembershipService.AdministeredClubIDs(ctx, actor)
	if err != nil {
		h.logger.Errorf("(user: %d) error while getting administered clubs: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}

	sent := 0
	for _, clubID := range clubIDs {
		club, err := h.clubService.Get(ctx, clubID)
		if err != nil {
			h.logger.Errorf("(user: %d) error while getting club %s: %v", c.Sender().ID, clubID, err)
			continue
		}
		requests, err := h.clubMembershipService.ListPending(ctx, actor, clubID)
		if err != nil {
			h.logger.Errorf("(user: %d) error while getting requests of club %s: %v", c.Sender().ID, clubID, err)
			continue
		}

		for _, request := range requests {
			markup := &tele.ReplyMarkup{}
			approve, reject := ApproveMemberButton, RejectMemberButton
			approve.Data, reject.Data = request.MembershipID, request.MembershipID
			markup.Inline(markup.Row(approve, reject))

			text := fmt.Sprintf("%s wants to join %s\n%s", request.Name, club.Name, request.Email)
			if err = c.Send(text, markup); err != nil {
				return err
			}
			sent++
		}
	}

	if sent == 0 {
		return c.Send("No join requests are waiting.")
	}
	return nil
}

func (h Handler) DecideMembership(outcome entity.ApprovalStatus) tele.HandlerFunc {
	return func(c tele.Context) error {
		membershipID := c.Callback().Data
		membership, err := h.clubMembershipService.Decide(context.Background(), middlewares.Actor(c), membershipID, string(outcome))
		switch {
		case errors.Is(err, errorz.ErrInvalidTransition):
			return c.Edit(c.Message().Text + "\n\nAlready decided.")
		case errors.Is(err, errorz.ErrForbidden):
			return c.Edit(c.Message().Text + "\n\nYou no longer administer this club.")
		case err != nil:
			h.logger.Errorf("(user: %d) error while deciding membership %s: %v", c.Sender().ID, membershipID, err)
			return c.Send("Technical issues, please try again later.")
		}

		h.logger.Infof("(user: %d) membership %s %s", c.Sender().ID, membership.ID, membership.Status)
		return c.Edit(fmt.Sprintf("%s\n\nDecision: %s", c.Message().Text, membership.Status))
	}
}
