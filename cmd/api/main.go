package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-service/internal/config"
	"github.com/noah-isme/student-service/internal/database"
	"github.com/noah-isme/student-service/internal/handler"
	"github.com/noah-isme/student-service/internal/middleware"
	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/observability"
	"github.com/noah-isme/student-service/internal/query"
	"github.com/noah-isme/student-service/internal/repository"
	"github.com/noah-isme/student-service/internal/router"
	"github.com/noah-isme/student-service/internal/service"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	logger = logger.Level(level).With().Str("service", cfg.AppName).Str("env", cfg.AppEnv).Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(models.AutoMigrateTargets()...); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	healthDeps := []handler.HealthDependency{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, student cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
			healthDeps = append(healthDeps, handler.HealthDependency{
				Name:  "redis",
				Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
			})
		}
	}

	var publisher service.StudentEventPublisher
	if cfg.NATSURL != "" {
		var natsConn *nats.Conn
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, student events disabled")
		} else {
			defer natsConn.Drain()
			publisher = service.NewNATSStudentPublisher(natsConn, cfg.NATSSubjectPrefix)
		}
	}

	observability.RegisterMetrics()

	studentRepo := repository.NewStudentRepository(db)
	studentService := service.NewStudentService(studentRepo, service.StudentServiceOptions{
		Cache:     redisClient,
		CacheTTL:  cfg.CacheTTL,
		Publisher: publisher,
		Paginator: query.NewPaginator(cfg.PaginationDefault, cfg.PaginationMaxLimit),
	}, logger)
	studentHandler := handler.NewStudentHandler(studentService, handler.NewValidator(), logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler:     studentHandler,
		HealthDependencies: healthDeps,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("student service listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
