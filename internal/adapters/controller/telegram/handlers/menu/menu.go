package menu

import (
	"fmt"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/campus-events/internal/domain/entity"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

var (
	EventsButton   = tele.Btn{Unique: "menu_events", Text: "My events"}
	ClubsButton    = tele.Btn{Unique: "menu_clubs", Text: "My clubs"}
	PendingButton  = tele.Btn{Unique: "menu_pending", Text: "Pending events"}
	RequestsButton = tele.Btn{Unique: "menu_requests", Text: "Join requests"}
)

type Handler struct {
	logger *types.Logger
}

func New(b *bot.Bot) *Handler {
	return &Handler{
		logger: b.Logger,
	}
}

func (h Handler) SendMenu(c tele.Context) error {
	user := middlewares.User(c)
	h.logger.Infof("(user: %d) send main menu (role=%s)", c.Sender().ID, user.Role)
	return c.Send(menuText(user), Markup(user.Role))
}

func (h Handler) EditMenu(c tele.Context) error {
	user := middlewares.User(c)
	h.logger.Infof("(user: %d) edit main menu (role=%s)", c.Sender().ID, user.Role)
	return c.Edit(menuText(user), Markup(user.Role))
}

func menuText(user *entity.User) string {
	return fmt.Sprintf("Hi, %s! What would you like to see?", user.Name)
}

// Markup builds the main menu keyboard for the role.
func Markup(role entity.Role) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{markup.Row(EventsButton, ClubsButton)}
	switch role {
	case entity.RoleAdmin:
		rows = append(rows, markup.Row(PendingButton, RequestsButton))
	case entity.RoleClubAdmin:
		rows = append(rows, markup.Row(RequestsButton))
	}
	markup.Inline(rows...)
	return markup
}
