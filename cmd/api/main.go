package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ledger"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ports"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/request"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/returns"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/stockmovement"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/events"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/infrastructure/postgres"
	httpRouter "github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/interfaces/http"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/config"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	balanceRepo := postgres.NewBalanceRepository(pool)
	requestRepo := postgres.NewRequestRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled() {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Kafka producer")
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("event publishing enabled")
	} else {
		publisher = events.NewInMemoryPublisher()
		log.Warn().Msg("no Kafka brokers configured, events stay in memory")
	}

	inventoryLedger := ledger.NewLedger(balanceRepo, txRunner, log)
	engine := request.NewEngine(requestRepo, movementRepo, txRunner, publisher, log)
	recorder := stockmovement.NewRecorder(movementRepo, txRunner, publisher, log)
	returnsUC := returns.NewUseCase(engine, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Recorder:  recorder,
		Returns:   returnsUC,
		Ledger:    inventoryLedger,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
