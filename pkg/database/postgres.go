package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/ronittamrakar/Xordon-sub011/pkg/config"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// connectBackoff is the retry schedule for the initial connection
var connectBackoff = []time.Duration{
	1 * time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// PostgresDB wraps the connection pool with a circuit breaker. Repositories
// run their statements through Exec/Query/QueryRowContext so a failing
// database sheds load instead of piling up blocked requests.
type PostgresDB struct {
	DB      *sql.DB
	breaker *gobreaker.CircuitBreaker
	logger  *logger.Logger
}

// NewPostgresDB opens a PostgreSQL connection, retrying on a fixed backoff
// schedule before giving up
func NewPostgresDB(cfg *config.Config, log *logger.Logger) (*PostgresDB, error) {
	dsn := cfg.DatabaseDSN()

	var lastErr error
	for attempt := 0; attempt < len(connectBackoff); attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
			db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = db.PingContext(ctx)
			cancel()

			if err == nil {
				log.Info("PostgreSQL connection established",
					logger.String("host", cfg.Database.Host),
					logger.Int("port", cfg.Database.Port),
					logger.String("database", cfg.Database.Database),
					logger.Int("attempt", attempt+1),
				)
				return &PostgresDB{
					DB:      db,
					breaker: newBreaker(log),
					logger:  log,
				}, nil
			}
			db.Close()
		}

		lastErr = err
		log.Warnf("Database connection attempt %d/%d failed: %v", attempt+1, len(connectBackoff), err)
		if attempt < len(connectBackoff)-1 {
			time.Sleep(connectBackoff[attempt])
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", len(connectBackoff), lastErr)
}

func newBreaker(log *logger.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "postgres",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// Close closes the connection pool
func (p *PostgresDB) Close() error {
	return p.DB.Close()
}

// HealthCheck pings the database directly. Readiness probes must see the
// real state, so the breaker is bypassed here.
func (p *PostgresDB) HealthCheck(ctx context.Context) error {
	return p.DB.PingContext(ctx)
}

// Stats returns pool statistics
func (p *PostgresDB) Stats() sql.DBStats {
	return p.DB.Stats()
}

// ExecContext executes a statement through the circuit breaker
func (p *PostgresDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.DB.ExecContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(sql.Result), nil
}

// QueryContext executes a query through the circuit breaker
func (p *PostgresDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.DB.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, err
	}
	return result.(*sql.Rows), nil
}

// QueryRowContext executes a single-row query. sql.Row defers its error to
// Scan, so there is nothing for the breaker to observe here.
func (p *PostgresDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}
