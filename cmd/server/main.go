package main // Entry point package

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/robfig/cron/v3"   // cron scheduler for the weekly passes
	"github.com/rs/zerolog"       // structured logging

	"github.com/iliyamo/training-session-scheduler/internal/config"
	"github.com/iliyamo/training-session-scheduler/internal/database"
	"github.com/iliyamo/training-session-scheduler/internal/handler"
	"github.com/iliyamo/training-session-scheduler/internal/queue"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
	"github.com/iliyamo/training-session-scheduler/internal/router"
	"github.com/iliyamo/training-session-scheduler/internal/scheduler"
)

func main() {
	// Local development reads variables from .env; deployed environments
	// provide them directly and the missing file is not an error.
	_ = godotenv.Load()

	cfg := config.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "scheduler").Logger()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; middleware degrades to no-ops

	prefRepo := repository.NewPreferenceRepo(db)
	hallRepo := repository.NewHallRepo(db)
	trainerRepo := repository.NewTrainerRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	assignmentRepo := repository.NewAssignmentRepo(db)

	orch := scheduler.NewOrchestrator(
		prefRepo, hallRepo, trainerRepo, sessionRepo, assignmentRepo,
		cfg.Scheduler.MinBucketSize, cfg.Scheduler.MinHallCapacity,
		scheduler.NewRand(cfg.Scheduler.RandomSeed),
		log.With().Str("component", "orchestrator").Logger(),
	)

	// Weekly triggers: the initial pass schedules the upcoming week, the
	// adjustment pass backfills it after the first wave of cancellations.
	cr := cron.New()
	if _, err := cr.AddFunc(cfg.Scheduler.GenerateCron, func() {
		week := scheduler.NextWeekStart(time.Now().UTC())
		summary, err := orch.Run(context.Background(), week, cfg.Scheduler.SystemActorID)
		if err != nil {
			log.Error().Err(err).Time("week_start", week).Msg("scheduled initial pass failed")
			return
		}
		log.Info().Str("week_start", summary.WeekStart).
			Int("slots_scheduled", summary.SlotsScheduled).
			Int("members_assigned", summary.MembersAssigned).
			Msg("scheduled initial pass completed")
	}); err != nil {
		log.Fatal().Err(err).Str("expr", cfg.Scheduler.GenerateCron).Msg("invalid generate cron expression")
	}
	if _, err := cr.AddFunc(cfg.Scheduler.AdjustCron, func() {
		week := scheduler.NextWeekStart(time.Now().UTC())
		summary, err := orch.Adjust(context.Background(), week)
		if err != nil {
			log.Error().Err(err).Time("week_start", week).Msg("scheduled adjustment pass failed")
			return
		}
		log.Info().Str("week_start", summary.WeekStart).
			Int("sessions_backfilled", summary.SessionsBackfilled).
			Int("assignments_added", summary.AssignmentsAdded).
			Msg("scheduled adjustment pass completed")
	}); err != nil {
		log.Fatal().Err(err).Str("expr", cfg.Scheduler.AdjustCron).Msg("invalid adjust cron expression")
	}
	cr.Start()
	defer cr.Stop()

	// Run-completed events are consumed in the background and appended to
	// logs/schedule.log; the consumer reconnects on broker failures.
	go func() {
		if err := queue.StartScheduleConsumer(); err != nil {
			log.Error().Err(err).Msg("schedule consumer stopped")
		}
	}()

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(sessionRepo, hallRepo), config.LoadCacheConfig(), rdb)
	router.RegisterMember(e, handler.NewMemberHandler(assignmentRepo), cfg.JWTSecret)
	router.RegisterAdmin(e,
		handler.NewScheduleHandler(orch, log.With().Str("component", "schedule_handler").Logger()),
		handler.NewAdminSessionHandler(sessionRepo, assignmentRepo),
		cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
