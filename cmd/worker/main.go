package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/queue"
	"github.com/ronittamrakar/Xordon-sub011/internal/repository/postgres"
	"github.com/ronittamrakar/Xordon-sub011/internal/transport"
	"github.com/ronittamrakar/Xordon-sub011/internal/workers"
	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/database"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
	"github.com/ronittamrakar/Xordon-sub011/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting Followup Engine worker",
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	m := metrics.New()

	// Repositories
	automationRepo := postgres.NewAutomationRepository(db)
	executionRepo := postgres.NewExecutionRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)

	// Action execution stack
	mailer := transport.NewSMTPMailer(m, log)
	smsSender := transport.NewHTTPSMSSender(cfg.Delivery.SMSGatewayURL, cfg.Delivery.SMSAPIKey, m, log)
	executor := engine.NewActionExecutor(contactRepo, templateRepo, mailer, smsSender, log)

	// Queue consumer
	worker := workers.NewFollowupWorker(
		cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB,
		cfg.Queue.Concurrency,
		executionRepo,
		executor,
		m,
		log,
	)
	if err := worker.Start(); err != nil {
		return fmt.Errorf("failed to start followup worker: %w", err)
	}

	// Recovery sweep for executions the queue never delivered
	producer := queue.NewProducer(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, log)
	defer producer.Close()

	recovery := workers.NewRecoveryWorker(executionRepo, automationRepo, producer, log,
		cfg.Queue.RecoveryInterval, cfg.Queue.RecoveryGrace, cfg.Queue.RecoveryBatchSize)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recovery.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	log.Info("Shutdown signal received", logger.String("signal", sig.String()))

	recovery.Stop()
	worker.Stop()

	log.Info("Worker stopped gracefully")
	return nil
}
