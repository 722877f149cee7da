package config

import (
    "os"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
    for _, k := range keys {
        t.Setenv(k, "")
        os.Unsetenv(k)
    }
}

func TestLoad_Defaults(t *testing.T) {
    unsetenv(t, "PORT", "RATE_SOURCE", "DATABASE_URL", "LOG_LEVEL", "LOG_FORMAT")

    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, SourceEmbedded, cfg.RateSource)
    assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_RateSource(t *testing.T) {
    t.Setenv("RATE_SOURCE", " DIR ")
    t.Setenv("RATE_DATA_DIR", "")
    _, err := Load()
    assert.ErrorContains(t, err, "RATE_DATA_DIR")

    t.Setenv("RATE_DATA_DIR", "/etc/parcelquote")
    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, SourceDir, cfg.RateSource)

    t.Setenv("RATE_SOURCE", "db")
    t.Setenv("DATABASE_URL", "")
    _, err = Load()
    assert.ErrorContains(t, err, "DATABASE_URL")

    t.Setenv("RATE_SOURCE", "s3")
    _, err = Load()
    assert.ErrorContains(t, err, "unknown RATE_SOURCE")
}
