package middlewares

import (
	"context"
	"errors"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

const userKey = "user"

type userService interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error)
}

type Handler struct {
	logger      *types.Logger
	userService userService
}

func New(b *bot.Bot, users userService) *Handler {
	return &Handler{
		logger:      b.Logger,
		userService: users,
	}
}

// Authorized lets through chats linked to an account and stores the user in
// the context.
func (h Handler) Authorized(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		user, err := h.userService.GetByTelegramID(context.Background(), c.Sender().ID)
		if err != nil {
			if !errors.Is(err, errorz.ErrNotFound) {
				h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
				return c.Send("Technical issues, please try again later.")
			}
			return c.Send("This chat is not linked yet. Open your profile on the website and press \"Link Telegram\".")
		}

		c.Set(userKey, user)
		return next(c)
	}
}

// AdminOnly must run after Authorized.
func (h Handler) AdminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !Actor(c).IsAdmin() {
			h.logger.Warnf("(user: %d) tried to use an admin command", c.Sender().ID)
			return c.Send("This command is for site administrators.")
		}
		return next(c)
	}
}

func User(c tele.Context) *entity.User {
	user, _ := c.Get(userKey).(*entity.User)
	return user
}

// Actor returns the actor of the linked user, or the zero Actor.
func Actor(c tele.Context) entity.Actor {
	user := User(c)
	if user == nil {
		return entity.Actor{}
	}
	return entity.Actor{UserID: user.ID, Role: user.Role}
}
