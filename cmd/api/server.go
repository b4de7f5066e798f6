package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"medtracker/docs"
	"medtracker/internal/config"
	"medtracker/internal/database"
	"medtracker/internal/database/migration"
	handlers "medtracker/internal/http/handler"
	"medtracker/internal/http/middleware"
	"medtracker/internal/logging"
	"medtracker/internal/otel"
	"medtracker/internal/repository/postgres"
	"medtracker/internal/service"
	"medtracker/internal/storage"
	"medtracker/internal/validation"
)

// bootstrap loads configuration, builds the logger and opens a migrated database.
func bootstrap(ctx context.Context) (*config.AppConfig, zerolog.Logger, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		Location: cfg.Location(),
	})

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logger.Error().Err(err).Str("event", "db_connect_failed").Msg("failed to connect to database")
		return nil, logger, nil, err
	}

	if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
		_ = db.Close()
		return nil, logger, nil, err
	}

	return cfg, logger, db, nil
}

func runMigrate(ctx context.Context) error {
	_, _, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize tracing")
		return err
	}

	svcs, err := buildServices(ctx, cfg, logger, db)
	if err != nil {
		return err
	}

	app, err := newApp(cfg, logger, db, svcs, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("event", "server_start").Str("addr", addr).Msg("listening")
		return app.Listen(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()

		logger.Info().Str("event", "server_shutdown").Msg("shutting down")
		err := app.ShutdownWithContext(shutdownCtx)
		if tErr := shutdownTracing(shutdownCtx); tErr != nil {
			logger.Warn().Err(tErr).Msg("tracing shutdown failed")
		}
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server stopped with error")
		return err
	}
	logger.Info().Str("event", "server_stopped").Msg("bye")
	return nil
}

func buildServices(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger, db *sql.DB) (handlers.Services, error) {
	patientRepo := postgres.NewPatientPostgres(db)
	medicationRepo := postgres.NewMedicationPostgres(db)
	assignmentRepo := postgres.NewAssignmentPostgres(db)
	tx := database.NewTransactor(db)

	patients := service.NewPatientService(patientRepo, assignmentRepo, tx)
	medications := service.NewMedicationService(medicationRepo, assignmentRepo, tx)
	assignments := service.NewAssignmentService(assignmentRepo, patients, medications, cfg.Location())

	svcs := handlers.Services{
		Patients:    patients,
		Medications: medications,
		Assignments: assignments,
	}

	if !cfg.MinIO.Enabled() {
		logger.Info().Str("event", "reports_disabled").Msg("MINIO_ENDPOINT not set, report routes are not mounted")
		return svcs, nil
	}

	store, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize object storage")
		return svcs, err
	}
	svcs.Reports = service.NewReportService(store, assignments, cfg.MinIO.URLExpiry())
	return svcs, nil
}

func newApp(cfg *config.AppConfig, logger zerolog.Logger, db *sql.DB, svcs handlers.Services, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:      "medtracker",
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(prom.Handler())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.Recover())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,PATCH",
	}))

	app.Get("/metrics", middleware.MetricsHandler(gatherer))

	// SwaggerInfo is package-global; it is only written here, before serving.
	docs.SwaggerInfo.Host = cfg.AppHost
	app.Get("/api-docs/*", swagger.HandlerDefault)

	handlers.RegisterRoutes(app, db, svcs, validation.New(cfg.Location()))
	return app, nil
}
