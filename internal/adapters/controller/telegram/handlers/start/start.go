package start

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/menu"
	"github.com/Badsnus/campus-events/internal/domain/common/errorz"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

const linkPrefix = "link_"

type authService interface {
	LinkTelegram(ctx context.Context, code string, telegramID int64) (*entity.User, error)
}

type userService interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error)
}

type Handler struct {
	authService authService
	userService userService
	logger      *types.Logger
}

func New(b *bot.Bot, auth authService, users userService) *Handler {
	return &Handler{
		authService: auth,
		userService: users,
		logger:      b.Logger,
	}
}

// Start handles /start. A deep link carries the one-time code from the
// website, "/start link_12345678", which links the chat to the account.
func (h *Handler) Start(c tele.Context) error {
	h.logger.Infof("(user: %d) press start button", c.Sender().ID)

	if code := linkCode(c.Message().Payload); code != "" {
		return h.link(c, code)
	}

	user, err := h.userService.GetByTelegramID(context.Background(), c.Sender().ID)
	switch {
	case errors.Is(err, errorz.ErrNotFound):
		return c.Send("Welcome to Campus Events!\n\nTo get reminders here, open your profile on the website, press \"Link Telegram\" and send me the code.")
	case err != nil:
		h.logger.Errorf("(user: %d) error while getting user from db: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}

	return c.Send(fmt.Sprintf("Welcome back, %s!", user.Name), menu.Markup(user.Role))
}

// OnText accepts a link code typed without the deep link.
func (h *Handler) OnText(c tele.Context) error {
	code := linkCode(c.Text())
	if !isCode(code) {
		return c.Send("Send /menu to see what I can do.")
	}
	return h.link(c, code)
}

func (h *Handler) link(c tele.Context, code string) error {
	user, err := h.authService.LinkTelegram(context.Background(), code, c.Sender().ID)
	switch {
	case errors.Is(err, errorz.ErrInvalidCode):
		return c.Send("This code is invalid or expired. Request a new one on the website.")
	case errors.Is(err, errorz.ErrTelegramTaken):
		return c.Send("This Telegram account is already linked to another campus account.")
	case err != nil:
		h.logger.Errorf("(user: %d) failed to link telegram: %v", c.Sender().ID, err)
		return c.Send("Technical issues, please try again later.")
	}

	h.logger.Infow("telegram linked", "user_id", user.ID, "telegram_id", c.Sender().ID)
	return c.Send(
		fmt.Sprintf("Done, %s! Reminders and decisions will arrive here.", user.Name),
		menu.Markup(user.Role),
	)
}

func linkCode(payload string) string {
	return strings.TrimPrefix(strings.TrimSpace(payload), linkPrefix)
}

func isCode(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
