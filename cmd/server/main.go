package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fahyen/ticket-exchange/internal/config"
	"github.com/fahyen/ticket-exchange/internal/database"
	"github.com/fahyen/ticket-exchange/internal/handler"
	"github.com/fahyen/ticket-exchange/internal/processor"
	"github.com/fahyen/ticket-exchange/internal/queue"
	"github.com/fahyen/ticket-exchange/internal/repository"
	"github.com/fahyen/ticket-exchange/internal/router"
	"github.com/fahyen/ticket-exchange/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env not found; using defaults/env")
	}

	cfg := config.Load()
	reaperCfg := service.ReaperConfig(config.LoadReaperConfig())
	rateLimitCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	redisCli := config.NewRedisClient()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBPoolMin, cfg.DBPoolMax)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ticketRepo := repository.NewTicketRepo(db)
	gameRepo := repository.NewGameRepo(db)
	eventRepo := repository.NewTicketEventRepo(db)
	paymentIntentRepo := repository.NewPaymentIntentRepo(db)

	lifecycle := &service.Lifecycle{
		Tickets:                ticketRepo,
		Games:                  gameRepo,
		Events:                 eventRepo,
		AMQPURL:                cfg.AMQPURL,
		TransferDeadline:       time.Duration(cfg.TransferDeadlineHours) * time.Hour,
		ReservationWindow:      cfg.ReservationWindow,
		MaxReservationsPerUser: cfg.MaxReservationsPerUser,
	}

	proc := processor.NewClient(cfg.StripeWebhookSecret, cfg.StripeSecretKey)
	gatekeeper := &service.Gatekeeper{
		Tickets:           ticketRepo,
		PaymentIntents:    paymentIntentRepo,
		Events:            eventRepo,
		Processor:         proc,
		AMQPURL:           cfg.AMQPURL,
		ReservationWindow: cfg.ReservationWindow,
	}

	reaper := &service.Reaper{Tickets: ticketRepo, Cfg: reaperCfg}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reaper.Start(ctx)

	go queue.StartLifecycleConsumer(cfg.AMQPURL)

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	router.RegisterRoutes(e, router.Deps{
		Ticket:         handler.NewTicketHandler(lifecycle),
		Reservation:    handler.NewReservationHandler(lifecycle),
		Verification:   handler.NewVerificationHandler(lifecycle),
		Admin:          handler.NewAdminHandler(lifecycle),
		Webhook:        handler.NewWebhookHandler(proc, gatekeeper),
		JWTSecret:      cfg.JWTSecret,
		AdminAPIKey:    cfg.AdminAPIKey,
		BotAPIKey:      cfg.BotAPIKey,
		RateLimit:      rateLimitCfg,
		BotConcurrency: cfg.BotConcurrencyLimit,
		Cache:          cacheCfg,
		RedisCli:       redisCli,
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	go func() {
		if err := e.Start(addr); err != nil {
			log.Info().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel()
}
