package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ronittamrakar/Xordon-sub011/internal/analysis"
	"github.com/ronittamrakar/Xordon-sub011/internal/api/rest"
	"github.com/ronittamrakar/Xordon-sub011/internal/api/rest/handlers"
	"github.com/ronittamrakar/Xordon-sub011/internal/engine"
	"github.com/ronittamrakar/Xordon-sub011/internal/queue"
	"github.com/ronittamrakar/Xordon-sub011/internal/repository/postgres"
	"github.com/ronittamrakar/Xordon-sub011/internal/transport"
	"github.com/ronittamrakar/Xordon-sub011/pkg/auth"
	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/database"
	"github.com/ronittamrakar/Xordon-sub011/pkg/llm"
	"github.com/ronittamrakar/Xordon-sub011/pkg/llm/providers/anthropic"
	"github.com/ronittamrakar/Xordon-sub011/pkg/llm/providers/openai"
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

	log.Info("Starting Followup Engine API",
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	redis, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()

	m := metrics.New()

	// Repositories
	automationRepo := postgres.NewAutomationRepository(db)
	executionRepo := postgres.NewExecutionRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	templateRepo := postgres.NewTemplateRepository(db)

	// Classification stack: LLM-backed when a provider is configured,
	// lexicon fallback otherwise, with Redis memoization either way.
	sentiment, intent, llmClient, err := buildAnalyzers(cfg, redis, log)
	if err != nil {
		return fmt.Errorf("failed to initialize classifiers: %w", err)
	}
	if llmClient != nil {
		defer llmClient.Close()
	}
	semantic := analysis.NewCachedSemanticMatcher(analysis.NewRuleSemanticMatcher(), redis, analysis.DefaultCacheTTL, log)

	classifier := engine.NewClassifier(sentiment, intent, semantic, analysis.NewCombinedEvaluator(), log)

	// Engine components
	mailer := transport.NewSMTPMailer(m, log)
	smsSender := transport.NewHTTPSMSSender(cfg.Delivery.SMSGatewayURL, cfg.Delivery.SMSAPIKey, m, log)
	executor := engine.NewActionExecutor(contactRepo, templateRepo, mailer, smsSender, log)
	recorder := engine.NewExecutionRecorder(executionRepo)
	producer := queue.NewProducer(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, log)
	defer producer.Close()

	triggerRouter := engine.NewTriggerRouter(
		automationRepo,
		classifier,
		engine.NewScheduleCalculator(),
		recorder,
		executor,
		producer,
		m,
		log,
	)

	// JWT manager
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		if cfg.App.Environment == "production" {
			return fmt.Errorf("JWT_SECRET environment variable must be set in production")
		}
		jwtSecret = "default-secret-change-this-in-production"
		log.Warn("JWT_SECRET not set, using default (INSECURE - only for development)")
	}
	jwtManager := auth.NewJWTManagerWithTTL(jwtSecret, cfg.Auth.TokenExpiry, cfg.Auth.RefreshExpiry)

	// HTTP layer
	h := handlers.NewHandlers(
		log,
		triggerRouter,
		automationRepo,
		executionRepo,
		&handlers.HealthCheckers{
			DB:    db,
			Redis: redis,
		},
		cfg.App.Version,
	)

	router := rest.NewRouter(log, h, jwtManager, cfg.Auth, m)
	router.SetupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("API server listening", logger.String("address", addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// buildAnalyzers wires the sentiment and intent classifiers for the
// configured provider. The returned client is nil for the lexicon provider.
func buildAnalyzers(cfg *config.Config, redis *database.RedisClient, log *logger.Logger) (analysis.SentimentAnalyzer, analysis.IntentDetector, llm.Client, error) {
	var client llm.Client
	var err error

	switch cfg.LLM.Provider {
	case "anthropic":
		client, err = anthropic.NewClient(&llm.Config{
			APIKey:       cfg.LLM.APIKey,
			DefaultModel: cfg.LLM.Model,
			Timeout:      cfg.LLM.Timeout,
			MaxRetries:   2,
		})
	case "openai":
		client, err = openai.NewClient(&llm.Config{
			APIKey:       cfg.LLM.APIKey,
			DefaultModel: cfg.LLM.Model,
			Timeout:      cfg.LLM.Timeout,
			MaxRetries:   2,
		})
	}
	if err != nil {
		return nil, nil, nil, err
	}

	var sentiment analysis.SentimentAnalyzer
	var intent analysis.IntentDetector
	if client != nil {
		sentiment = analysis.NewLLMSentimentAnalyzer(client, cfg.LLM.Model, log)
		intent = analysis.NewLLMIntentDetector(client, cfg.LLM.Model, log)
	} else {
		sentiment = analysis.NewLexiconSentimentAnalyzer()
		intent = analysis.NewLexiconIntentDetector()
	}

	sentiment = analysis.NewCachedSentimentAnalyzer(sentiment, redis, analysis.DefaultCacheTTL, log)
	intent = analysis.NewCachedIntentDetector(intent, redis, analysis.DefaultCacheTTL, log)
	return sentiment, intent, client, nil
}
