package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	DSN string
}

// LoadDBConfig loads database configuration from environment variables.
// A full connection URL wins over the discrete DB_* variables.
func LoadDBConfig() (*DBConfig, error) {
	for _, key := range []string{"DATABASE_URL", "NEON_DATABASE_URL"} {
		if raw := strings.TrimSpace(os.Getenv(key)); raw != "" {
			return &DBConfig{DSN: normalizeDatabaseURL(raw)}, nil
		}
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	if dbHost == "" || dbPort == "" || dbUser == "" || dbName == "" {
		return nil, fmt.Errorf("database environment variables not set (DATABASE_URL or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME)")
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   dbHost + ":" + dbPort,
		User:   url.UserPassword(dbUser, dbPassword),
		Path:   dbName,
	}
	q := u.Query()
	q.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = q.Encode()

	return &DBConfig{DSN: u.String()}, nil
}

// normalizeDatabaseURL strips a pasted "psql '...'" wrapper and surrounding
// quotes, which hosted providers put in their copy buttons.
func normalizeDatabaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "psql ")
	s = strings.Trim(strings.TrimSpace(s), `'"`)
	return s
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg *DBConfig) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN)
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				slog.Info("Connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		slog.Warn("Failed to connect to database, retrying",
			"attempt", i+1, "max", maxRetries, "error", err, "retry_in", retryInterval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}
