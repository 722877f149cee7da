package main

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/jackc/pgx/v5/pgxpool"
    "go.uber.org/zap"

    "parcelquote/internal/config"
    "parcelquote/internal/db"
    "parcelquote/internal/logging"
    "parcelquote/internal/rate"
    "parcelquote/internal/ratedata"
    "parcelquote/internal/server"
    "parcelquote/internal/store"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        fmt.Fprintln(os.Stderr, "config:", err)
        os.Exit(1)
    }
    logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
    if err != nil {
        fmt.Fprintln(os.Stderr, "logger:", err)
        os.Exit(1)
    }
    defer func() { _ = logger.Sync() }()
    zap.ReplaceGlobals(logger)

    if err := run(cfg, logger); err != nil {
        logger.Error("api stopped", zap.Error(err))
        os.Exit(1)
    }
}

func run(cfg config.Config, logger *zap.Logger) error {
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    var opts []server.Option
    var st *store.Store
    if cfg.DatabaseURL != "" {
        connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
        pool, err := db.NewPool(connCtx, cfg.DatabaseURL, "parcelquote-api")
        if err != nil {
            cancel()
            return fmt.Errorf("connect db: %w", err)
        }
        defer pool.Close()
        st, err = migrate(connCtx, pool)
        cancel()
        if err != nil {
            return err
        }
        opts = append(opts, server.WithScenarioStore(st))
    } else {
        logger.Warn("DATABASE_URL not set; scenario routes disabled")
    }

    tables, err := loadTables(ctx, cfg, st)
    if err != nil {
        return fmt.Errorf("load rate tables: %w", err)
    }
    for _, c := range rate.Carriers {
        logger.Info("rate tables loaded", zap.String("carrier", string(c)), zap.String("version", tables.Version(c)))
    }

    opts = append(opts, server.WithLogger(logger))
    srv := &http.Server{
        Addr:              ":" + cfg.Port,
        Handler:           server.New(tables, opts...),
        ReadTimeout:       10 * time.Second,
        ReadHeaderTimeout: 10 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    errc := make(chan error, 1)
    go func() {
        logger.Info("api listening", zap.String("addr", srv.Addr), zap.String("rate_source", cfg.RateSource))
        errc <- srv.ListenAndServe()
    }()

    select {
    case err := <-errc:
        if !errors.Is(err, http.ErrServerClosed) {
            return err
        }
        return nil
    case <-ctx.Done():
    }
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer cancel()
    logger.Info("shutting down")
    return srv.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, pool *pgxpool.Pool) (*store.Store, error) {
    st := store.New(pool)
    if err := st.Migrate(ctx); err != nil {
        return nil, err
    }
    return st, nil
}

func loadTables(ctx context.Context, cfg config.Config, st *store.Store) (rate.Tables, error) {
    switch cfg.RateSource {
    case config.SourceDir:
        return ratedata.LoadDir(cfg.RateDataDir)
    case config.SourceDB:
        if st == nil {
            return rate.Tables{}, db.ErrNoDatabaseURL
        }
        return st.RateTables(ctx)
    default:
        return ratedata.Default()
    }
}
