package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/zuro/agenda/internal/config"
	"github.com/zuro/agenda/internal/domain/affiliate"
	"github.com/zuro/agenda/internal/domain/diagnosis"
	"github.com/zuro/agenda/internal/domain/patient"
	"github.com/zuro/agenda/internal/platform/db"
	"github.com/zuro/agenda/internal/platform/events"
	"github.com/zuro/agenda/internal/platform/latency"
	"github.com/zuro/agenda/internal/platform/middleware"
	"github.com/zuro/agenda/internal/platform/scheduling"
)

const (
	version       = "0.1.0"
	storageSchema = "public"
	// sessionPruneInterval is how often idle view-state sessions are dropped.
	sessionPruneInterval = 15 * time.Minute
)

// newLogger writes JSON to stdout, or a console format in development.
// Debug events are dropped in production.
func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsProduction() {
		return logger.Level(zerolog.InfoLevel)
	}
	return logger
}

// newPublisher sends domain events to Kafka when brokers are configured.
// The returned close func is never nil.
func newPublisher(cfg *config.Config, logger zerolog.Logger) (events.Publisher, func() error) {
	if !cfg.EventsEnabled() {
		return events.Nop{}, func() error { return nil }
	}
	k := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
	logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")
	return events.NewLogged(k, logger), k.Close
}

// app holds the wired services behind the HTTP API.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	storage   *storage
	patients  *patient.Store
	sessions  *patient.Sessions
	analyst   *patient.Analyst
	history   *diagnosis.History
	generator *diagnosis.Generator
	affiliate *affiliate.Service
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, st *storage, pub events.Publisher) (*app, error) {
	var seed []patient.Patient
	if cfg.SeedDemoData {
		seed = patient.DemoPatients()
	}
	patients, err := patient.Open(ctx, st.kv, patient.Options{
		Seed:   seed,
		Events: pub,
		Logger: logger.With().Str("component", "patients").Logger(),
	})
	if err != nil {
		return nil, err
	}

	history, err := diagnosis.OpenHistory(ctx, st.kv, pub, logger.With().Str("component", "diagnoses").Logger())
	if err != nil {
		return nil, err
	}

	delay := latency.New(cfg.SimulatedLatency)
	return &app{
		cfg:       cfg,
		logger:    logger,
		storage:   st,
		patients:  patients,
		sessions:  patient.NewSessions(patients, cfg.SessionIdleTimeout),
		analyst:   patient.NewAnalyst(patients, delay),
		history:   history,
		generator: diagnosis.NewGenerator(history, delay),
		affiliate: affiliate.NewService(st.kv, cfg.AffiliateLink(), logger.With().Str("component", "affiliate").Logger()),
	}, nil
}

func (a *app) echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(a.logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(a.logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  a.cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader, patient.SessionHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, patient.SessionHeader},
	}))

	rateLimitCfg := middleware.DefaultRateLimitConfig()
	if a.cfg.RateLimitRPS > 0 {
		rateLimitCfg.RequestsPerSecond = a.cfg.RateLimitRPS
		rateLimitCfg.BurstSize = a.cfg.RateLimitBurst
	}

	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.BodyLimit(a.cfg.BodyLimit, a.cfg.UploadLimit))
	apiV1.Use(middleware.RequestTimeout(a.cfg.RequestTimeout))

	patient.NewHandler(a.patients, a.sessions, a.analyst, a.logger).RegisterRoutes(apiV1)
	diagnosis.NewHandler(a.history, a.generator, a.logger).RegisterRoutes(apiV1)
	affiliate.NewHandler(a.affiliate, a.logger).RegisterRoutes(apiV1)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"backend": a.storage.kv.Backend(),
		})
	})
	if a.storage.pool != nil {
		e.GET("/health/db", db.HealthHandler(a.storage.pool))
	} else {
		e.GET("/health/db", func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			code, report := db.Report(a.storage.kv.Backend(), a.storage.kv.Ping(ctx), nil)
			return c.JSON(code, report)
		})
	}
	return e
}

// jobs are the periodic maintenance tasks run alongside the server.
func (a *app) jobs() []scheduling.Job {
	var jobs []scheduling.Job
	if a.cfg.StatusSweepInterval > 0 {
		jobs = append(jobs, scheduling.Job{
			Name:     "patient-status-sweep",
			Interval: a.cfg.StatusSweepInterval,
			Run: func(ctx context.Context, now time.Time) error {
				changes, err := a.patients.Sweep(ctx, now)
				if err != nil {
					return err
				}
				if len(changes) > 0 {
					a.logger.Info().Int("inactivated", len(changes)).Msg("patient statuses updated")
				}
				return nil
			},
		})
	}
	if a.cfg.SessionIdleTimeout > 0 {
		jobs = append(jobs, scheduling.Job{
			Name:     "session-prune",
			Interval: sessionPruneInterval,
			Run: func(_ context.Context, now time.Time) error {
				if n := a.sessions.Prune(now); n > 0 {
					a.logger.Debug().Int("pruned", n).Msg("idle sessions dropped")
				}
				return nil
			},
		})
	}
	return jobs
}
