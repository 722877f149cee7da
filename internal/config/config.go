package config

import (
    "fmt"
    "strings"

    "github.com/kelseyhightower/envconfig"
)

// Rate data sources.
const (
    SourceEmbedded = "embedded"
    SourceDir      = "dir"
    SourceDB       = "db"
)

type Config struct {
    Port        string `envconfig:"PORT" default:"8080"`
    DatabaseURL string `envconfig:"DATABASE_URL"`
    // RateSource selects where rate tables come from: embedded, dir or db.
    RateSource  string `envconfig:"RATE_SOURCE" default:"embedded"`
    RateDataDir string `envconfig:"RATE_DATA_DIR"`
    LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
    LogFormat   string `envconfig:"LOG_FORMAT" default:"console"`
}

func Load() (Config, error) {
    var cfg Config
    if err := envconfig.Process("", &cfg); err != nil {
        return Config{}, err
    }
    cfg.RateSource = strings.ToLower(strings.TrimSpace(cfg.RateSource))
    if err := cfg.validate(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

func (c Config) validate() error {
    switch c.RateSource {
    case SourceEmbedded:
    case SourceDir:
        if c.RateDataDir == "" {
            return fmt.Errorf("RATE_SOURCE=%s requires RATE_DATA_DIR", c.RateSource)
        }
    case SourceDB:
        if c.DatabaseURL == "" {
            return fmt.Errorf("RATE_SOURCE=%s requires DATABASE_URL", c.RateSource)
        }
    default:
        return fmt.Errorf("unknown RATE_SOURCE %q", c.RateSource)
    }
    return nil
}
