// Package store persists rate documents and saved quote scenarios in Postgres.
package store

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgconn"
    "github.com/jackc/pgx/v5/pgxpool"

    "parcelquote/internal/rate"
    "parcelquote/internal/ratedata"
)

var (
    ErrNotFound      = errors.New("not found")
    ErrVersionExists = errors.New("rate table version already stored")
)

const schema = `
CREATE TABLE IF NOT EXISTS rate_tables (
    carrier    text        NOT NULL,
    version    text        NOT NULL,
    document   jsonb       NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now(),
    PRIMARY KEY (carrier, version)
);
CREATE TABLE IF NOT EXISTS scenarios (
    id         uuid          PRIMARY KEY,
    name       text          NOT NULL,
    carrier    text          NOT NULL,
    items      jsonb         NOT NULL,
    settings   jsonb         NOT NULL,
    total      numeric(14,2) NOT NULL,
    currency   text          NOT NULL,
    created_at timestamptz   NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scenarios_created_at_idx ON scenarios (created_at DESC);
`

// Scenario is a saved quote: the inputs and the total they priced to.
type Scenario struct {
    ID        uuid.UUID       `json:"id"`
    Name      string          `json:"name"`
    Carrier   rate.Carrier    `json:"carrier"`
    Items     []rate.LineItem `json:"items"`
    Settings  rate.Settings   `json:"settings"`
    Total     float64         `json:"total"`
    Currency  string          `json:"currency"`
    CreatedAt time.Time       `json:"created_at"`
}

type Store struct {
    pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
    return &Store{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
    if _, err := s.pool.Exec(ctx, schema); err != nil {
        return fmt.Errorf("migrate: %w", err)
    }
    return nil
}

// RateTables returns the most recently stored document of every carrier.
func (s *Store) RateTables(ctx context.Context) (rate.Tables, error) {
    rows, err := s.pool.Query(ctx, `
        SELECT DISTINCT ON (carrier) carrier, document::text
        FROM rate_tables
        ORDER BY carrier, created_at DESC
    `)
    if err != nil {
        return rate.Tables{}, fmt.Errorf("query rate tables: %w", err)
    }
    defer rows.Close()

    var t rate.Tables
    for rows.Next() {
        var carrier, doc string
        if err := rows.Scan(&carrier, &doc); err != nil {
            return rate.Tables{}, fmt.Errorf("scan rate tables: %w", err)
        }
        c, err := rate.ParseCarrier(carrier)
        if err != nil {
            // rows for carriers this build does not know about
            continue
        }
        if err := ratedata.DecodeJSON(c, []byte(doc), &t); err != nil {
            return rate.Tables{}, err
        }
    }
    if err := rows.Err(); err != nil {
        return rate.Tables{}, fmt.Errorf("read rate tables: %w", err)
    }
    if err := ratedata.Validate(t); err != nil {
        return rate.Tables{}, err
    }
    return t, nil
}

// PutRateTables stores the document of every carrier in t under its version,
// all or nothing.
func (s *Store) PutRateTables(ctx context.Context, t rate.Tables) error {
    if err := ratedata.Validate(t); err != nil {
        return err
    }
    tx, err := s.pool.Begin(ctx)
    if err != nil {
        return err
    }
    defer func() { _ = tx.Rollback(ctx) }()

    for _, c := range rate.Carriers {
        doc, err := ratedata.EncodeJSON(c, t)
        if err != nil {
            return err
        }
        _, err = tx.Exec(ctx, `
            INSERT INTO rate_tables (carrier, version, document)
            VALUES ($1, $2, $3::jsonb)
        `, string(c), t.Version(c), string(doc))
        if err != nil {
            var pgErr *pgconn.PgError
            if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
                return fmt.Errorf("%w: %s %s", ErrVersionExists, c, t.Version(c))
            }
            return fmt.Errorf("insert %s tables: %w", c, err)
        }
    }
    return tx.Commit(ctx)
}

// SaveScenario assigns an id to sc and stores it.
func (s *Store) SaveScenario(ctx context.Context, sc Scenario) (Scenario, error) {
    items, err := json.Marshal(sc.Items)
    if err != nil {
        return Scenario{}, err
    }
    settings, err := json.Marshal(sc.Settings)
    if err != nil {
        return Scenario{}, err
    }
    sc.ID = uuid.New()
    sc.CreatedAt = time.Now().UTC()
    _, err = s.pool.Exec(ctx, `
        INSERT INTO scenarios (id, name, carrier, items, settings, total, currency, created_at)
        VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, $8)
    `, sc.ID, sc.Name, string(sc.Carrier), string(items), string(settings), sc.Total, sc.Currency, sc.CreatedAt)
    if err != nil {
        return Scenario{}, fmt.Errorf("insert scenario: %w", err)
    }
    return sc, nil
}

const scenarioColumns = `id, name, carrier, items::text, settings::text, total::float8, currency, created_at`

// Scenario loads a saved scenario by id.
func (s *Store) Scenario(ctx context.Context, id uuid.UUID) (Scenario, error) {
    row := s.pool.QueryRow(ctx, `SELECT `+scenarioColumns+` FROM scenarios WHERE id = $1`, id)
    sc, err := scanScenario(row)
    if errors.Is(err, pgx.ErrNoRows) {
        return Scenario{}, ErrNotFound
    }
    return sc, err
}

// Scenarios lists the newest saved scenarios first.
func (s *Store) Scenarios(ctx context.Context, limit int) ([]Scenario, error) {
    if limit <= 0 || limit > 100 {
        limit = 20
    }
    rows, err := s.pool.Query(ctx, `SELECT `+scenarioColumns+` FROM scenarios ORDER BY created_at DESC LIMIT $1`, limit)
    if err != nil {
        return nil, fmt.Errorf("query scenarios: %w", err)
    }
    defer rows.Close()

    out := []Scenario{}
    for rows.Next() {
        sc, err := scanScenario(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, sc)
    }
    return out, rows.Err()
}

func scanScenario(row pgx.Row) (Scenario, error) {
    var (
        sc       Scenario
        carrier  string
        items    string
        settings string
    )
    if err := row.Scan(&sc.ID, &sc.Name, &carrier, &items, &settings, &sc.Total, &sc.Currency, &sc.CreatedAt); err != nil {
        return Scenario{}, err
    }
    sc.Carrier = rate.Carrier(carrier)
    if err := json.Unmarshal([]byte(items), &sc.Items); err != nil {
        return Scenario{}, fmt.Errorf("decode scenario items: %w", err)
    }
    if err := json.Unmarshal([]byte(settings), &sc.Settings); err != nil {
        return Scenario{}, fmt.Errorf("decode scenario settings: %w", err)
    }
    return sc, nil
}
