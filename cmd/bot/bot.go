package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/Badsnus/campus-events/pkg/logger"
	"github.com/Badsnus/campus-events/pkg/logger/types"
	tele "gopkg.in/telebot.v3"
)

type Options struct {
	Token       string
	PollTimeout time.Duration
	Offline     bool // no polling and no API calls, for tests
}

type Bot struct {
	*tele.Bot
	Logger *types.Logger
}

var commands = []tele.Command{
	{Text: "start", Description: "Link this chat to your campus account"},
	{Text: "menu", Description: "Show what the bot can do"},
	{Text: "events", Description: "Your upcoming events"},
	{Text: "clubs", Description: "Your clubs"},
}

func New(opts Options) (*Bot, error) {
	botLogger := logger.Named("bot")

	if opts.PollTimeout == 0 {
		opts.PollTimeout = 10 * time.Second
	}
	settings := tele.Settings{
		Token:   opts.Token,
		Poller:  &tele.LongPoller{Timeout: opts.PollTimeout},
		Offline: opts.Offline,
		OnError: func(err error, ctx tele.Context) {
			if ctx == nil || ctx.Sender() == nil {
				botLogger.Errorf("Error: %v", err)
				return
			}
			if ctx.Callback() == nil {
				botLogger.Errorf("(user: %d) | Error: %v", ctx.Sender().ID, err)
			} else {
				botLogger.Errorf("(user: %d) | unique: %s | Error: %v", ctx.Sender().ID, ctx.Callback().Unique, err)
			}
		},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if !opts.Offline {
		if err = b.SetCommands(commands); err != nil {
			return nil, fmt.Errorf("failed to set bot commands: %w", err)
		}
	}

	return &Bot{
		Bot:    b,
		Logger: botLogger,
	}, nil
}

// Send delivers a plain text message to a chat. It satisfies the messenger
// the notify service sends reminders and log entries through.
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.Bot.Send(tele.ChatID(chatID), text, &tele.SendOptions{DisableWebPagePreview: true})
	return err
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.Bot.Stop()
	}()

	b.Logger.Info("Bot starting")
	b.Bot.Start()
	b.Logger.Info("Bot stopped")
}
