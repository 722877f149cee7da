package db

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoDatabaseURL is returned when no connection string is configured.
var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

// NewPool opens a small pool sized for a quoting service: reads of a few
// rate documents and occasional scenario writes.
func NewPool(ctx context.Context, databaseURL, applicationName string) (*pgxpool.Pool, error) {
    if databaseURL == "" {
        return nil, ErrNoDatabaseURL
    }
    cfg, err := pgxpool.ParseConfig(databaseURL)
    if err != nil {
        return nil, fmt.Errorf("parse database url: %w", err)
    }
    cfg.MaxConns = 5
    cfg.MinConns = 0
    cfg.MaxConnLifetime = 30 * time.Minute
    cfg.MaxConnIdleTime = 5 * time.Minute
    cfg.HealthCheckPeriod = 30 * time.Second
    if applicationName == "" {
        applicationName = "parcelquote"
    }
    cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
    cfg.ConnConfig.RuntimeParams["search_path"] = "public"
    cfg.ConnConfig.RuntimeParams["client_encoding"] = "UTF8"
    cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"
    // server-side, may be ignored depending on configuration
    cfg.ConnConfig.RuntimeParams["statement_timeout"] = "5000"
    cfg.ConnConfig.RuntimeParams["idle_in_transaction_session_timeout"] = "5000"

    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil {
        return nil, fmt.Errorf("open pool: %w", err)
    }
    if err := pool.Ping(ctx); err != nil {
        pool.Close()
        return nil, fmt.Errorf("ping database: %w", err)
    }
    return pool, nil
}
