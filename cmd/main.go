package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Badsnus/campus-events/cmd/bot"
	"github.com/Badsnus/campus-events/internal/adapters/config"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/handler"
	"github.com/Badsnus/campus-events/internal/adapters/controller/http/router"
	setupBot "github.com/Badsnus/campus-events/internal/adapters/controller/telegram/setup"
	"github.com/Badsnus/campus-events/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-events/internal/domain/service"
	"github.com/Badsnus/campus-events/pkg/logger"
	qr "github.com/Badsnus/campus-events/pkg/qrcode"
	"github.com/gin-gonic/gin"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userStorage := postgres.NewUserStorage(cfg.Database)
	clubStorage := postgres.NewClubStorage(cfg.Database)
	membershipStorage := postgres.NewClubMembershipStorage(cfg.Database)
	eventStorage := postgres.NewEventStorage(cfg.Database)
	participantStorage := postgres.NewEventParticipantStorage(cfg.Database)
	notificationStorage := postgres.NewNotificationStorage(cfg.Database)
	statsStorage := postgres.NewStatsStorage(cfg.Database)

	var b *bot.Bot
	var messenger service.Messenger
	if cfg.Telegram.Enabled {
		var err error
		b, err = bot.New(bot.Options{Token: cfg.Telegram.Token})
		if err != nil {
			log.Panic(err)
		}
		messenger = b
	}
	var mailer service.Mailer
	if cfg.Mailer != nil {
		mailer = cfg.Mailer
	}

	notifyService := service.NewNotifyService(
		logger.Named("notify"),
		mailer,
		messenger,
		userStorage,
		membershipStorage,
		eventStorage,
		notificationStorage,
	)
	if messenger != nil && cfg.Telegram.LogToChannel {
		logHook, err := notifyService.LogHook(cfg.Telegram.LogChannelID, cfg.Telegram.LogChannelLevel)
		if err != nil {
			logger.Log.Errorf("Failed to create notify log hook: %v", err)
		} else {
			logger.SetLogHook(logHook)
		}
	}

	qrService, err := service.NewQrService(qr.Ticket, cfg.QRLogoPath)
	if err != nil {
		logger.Log.Panicf("Failed to create qr service: %v", err)
	}

	policy := service.NewPolicy(membershipStorage)
	authService := service.NewAuthService(
		logger.Named("auth"),
		userStorage,
		cfg.Redis.Sessions,
		cfg.Redis.Codes,
		cfg.Tokens,
		notifyService,
		cfg.EmailDomains,
	)
	userService := service.NewUserService(logger.Named("user"), userStorage, membershipStorage, policy)
	clubService := service.NewClubService(logger.Named("club"), clubStorage, statsStorage, policy)
	membershipService := service.NewClubMembershipService(
		logger.Named("membership"),
		membershipStorage,
		clubStorage,
		userStorage,
		policy,
		notifyService,
	)
	eventService := service.NewEventService(
		logger.Named("event"),
		eventStorage,
		clubStorage,
		membershipStorage,
		participantStorage,
		statsStorage,
		policy,
		notifyService,
	)
	participantService := service.NewEventParticipantService(
		logger.Named("participant"),
		participantStorage,
		eventStorage,
		policy,
		qrService,
	)
	statsService := service.NewStatsService(statsStorage, membershipStorage, eventService, policy)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	router.SetupRoutes(engine, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		Users: handler.NewUserHandler(userService, membershipService, participantService, statsService),
		Clubs: handler.NewClubHandler(clubService, membershipService),
		Event: handler.NewEventHandler(eventService, participantService),
		Stats: handler.NewStatsHandler(statsService),
	}, authService, logger.Named("http"))

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	notifyService.StartNotifyScheduler(ctx)

	var wg sync.WaitGroup
	if b != nil {
		setupBot.Setup(b, setupBot.Services{
			Auth:         authService,
			Users:        userService,
			Clubs:        clubService,
			Memberships:  membershipService,
			Events:       eventService,
			Participants: participantService,
		}, cfg.Debug)

		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Start(ctx)
		}()
	}

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("HTTP server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("HTTP server shutdown failed: %v", err)
	}

	wg.Wait()
	logger.SetLogHook(nil)
	notifyService.Close()

	if err := cfg.Redis.Close(); err != nil {
		logger.Log.Errorf("Failed to close redis: %v", err)
	}
	if sqlDB, err := cfg.Database.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
