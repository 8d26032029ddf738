package setup

import (
	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/admin"
	clubowner "github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/clubOwner"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/menu"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/middlewares"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/start"
	"github.com/Badsnus/campus-events/internal/adapters/controller/telegram/handlers/user"
	"github.com/Badsnus/campus-events/internal/domain/service"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"
)

type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Clubs        *service.ClubService
	Memberships  *service.ClubMembershipService
	Events       *service.EventService
	Participants *service.EventParticipantService
}

func Setup(b *bot.Bot, services Services, debug bool) {
	// Pre-setup and global middlewares
	middle := middlewares.New(b, services.Users)
	startHandler := start.New(b, services.Auth, services.Users)
	menuHandler := menu.New(b)
	userHandler := user.New(b, services.Participants, services.Memberships)
	clubOwnerHandler := clubowner.New(b, services.Memberships, services.Clubs)
	adminHandler := admin.New(b, services.Events)

	if debug {
		b.Use(middleware.Logger())
	}
	b.Use(middleware.AutoRespond())

	// Linking works before the chat is authorized
	b.Handle("/start", startHandler.Start)
	b.Handle(tele.OnText, startHandler.OnText)

	//User:
	authorized := b.Group()
	authorized.Use(middle.Authorized)
	authorized.Handle("/menu", menuHandler.SendMenu)
	authorized.Handle("/events", userHandler.Events)
	authorized.Handle("/clubs", userHandler.Clubs)
	authorized.Handle(&menu.EventsButton, userHandler.Events)
	authorized.Handle(&menu.ClubsButton, userHandler.Clubs)
	authorized.Handle(&user.TicketButton, userHandler.Ticket)

	//Club admin:
	clubOwnerHandler.ClubOwnerSetup(authorized)
	authorized.Handle(&menu.RequestsButton, clubOwnerHandler.Requests)

	//Admin:
	admins := b.Group()
	admins.Use(middle.Authorized, middle.AdminOnly)
	adminHandler.AdminSetup(admins)
	admins.Handle(&menu.PendingButton, adminHandler.PendingEvents)
}
