package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Auth     AuthConfig
	Logger   LoggerConfig
	App      AppConfig
	Delivery DeliveryConfig
	LLM      LLMConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// QueueConfig holds the follow-up task queue configuration
type QueueConfig struct {
	Concurrency       int
	RecoveryInterval  time.Duration
	RecoveryGrace     time.Duration
	RecoveryBatchSize int
}

// AuthConfig holds authentication configuration. Besides user JWTs, a
// single service API key (stored as a bcrypt hash) lets internal systems
// call the API without a token flow; requests carrying it act as
// ServiceUserID.
type AuthConfig struct {
	JWTSecret         string
	TokenExpiry       time.Duration
	RefreshExpiry     time.Duration
	RateLimitRPS      float64
	RateLimitBurst    int
	ServiceAPIKeyHash string
	ServiceUserID     string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string
	Format string // json or text
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string
	Version     string
	Name        string
}

// DeliveryConfig holds outbound message delivery configuration. SMTP
// credentials live on sending accounts, so only the SMS gateway is
// process-level.
type DeliveryConfig struct {
	SMSGatewayURL string
	SMSAPIKey     string
}

// LLMConfig holds classifier provider configuration
type LLMConfig struct {
	Provider  string // anthropic, openai, or lexicon
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Database:        getEnv("DB_NAME", "followups"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Queue: QueueConfig{
			Concurrency:       getEnvAsInt("QUEUE_CONCURRENCY", 10),
			RecoveryInterval:  getEnvAsDuration("QUEUE_RECOVERY_INTERVAL", 5*time.Minute),
			RecoveryGrace:     getEnvAsDuration("QUEUE_RECOVERY_GRACE", 10*time.Minute),
			RecoveryBatchSize: getEnvAsInt("QUEUE_RECOVERY_BATCH_SIZE", 100),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("JWT_SECRET", ""),
			TokenExpiry:       getEnvAsDuration("JWT_TOKEN_EXPIRY", 1*time.Hour),
			RefreshExpiry:     getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			RateLimitRPS:      getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 40),
			ServiceAPIKeyHash: getEnv("SERVICE_API_KEY_HASH", ""),
			ServiceUserID:     getEnv("SERVICE_USER_ID", ""),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "0.1.0"),
			Name:        getEnv("APP_NAME", "followup-engine"),
		},
		Delivery: DeliveryConfig{
			SMSGatewayURL: getEnv("SMS_GATEWAY_URL", ""),
			SMSAPIKey:     getEnv("SMS_API_KEY", ""),
		},
		LLM: LLMConfig{
			Provider:  getEnv("LLM_PROVIDER", "lexicon"),
			APIKey:    getEnv("LLM_API_KEY", ""),
			Model:     getEnv("LLM_MODEL", ""),
			MaxTokens: getEnvAsInt("LLM_MAX_TOKENS", 512),
			Timeout:   getEnvAsDuration("LLM_TIMEOUT", 20*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}

	if c.App.Environment == "production" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required in production")
	}

	if c.Auth.ServiceAPIKeyHash != "" && c.Auth.ServiceUserID == "" {
		return fmt.Errorf("service user id is required when a service api key is configured")
	}

	switch c.LLM.Provider {
	case "anthropic", "openai":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("llm api key is required for provider %s", c.LLM.Provider)
		}
	case "lexicon", "":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
