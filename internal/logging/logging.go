package logging

import (
    "fmt"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// New builds a logger writing to stdout. format is "console" or "json".
func New(level, format string) (*zap.Logger, error) {
    lvl, err := zap.ParseAtomicLevel(level)
    if err != nil {
        return nil, fmt.Errorf("log level: %w", err)
    }
    switch format {
    case "", "console":
        format = "console"
    case "json":
    default:
        return nil, fmt.Errorf("unknown log format %q", format)
    }
    cfg := zap.Config{
        Level:    lvl,
        Encoding: format,
        EncoderConfig: zapcore.EncoderConfig{
            TimeKey:        "time",
            LevelKey:       "severity",
            NameKey:        "logger",
            CallerKey:      "caller",
            MessageKey:     "message",
            StacktraceKey:  "stacktrace",
            LineEnding:     zapcore.DefaultLineEnding,
            EncodeTime:     zapcore.RFC3339TimeEncoder,
            EncodeLevel:    zapcore.LowercaseLevelEncoder,
            EncodeDuration: zapcore.MillisDurationEncoder,
            EncodeCaller:   zapcore.ShortCallerEncoder,
        },
        OutputPaths:      []string{"stdout"},
        ErrorOutputPaths: []string{"stderr"},
    }
    return cfg.Build(zap.AddStacktrace(zap.DPanicLevel))
}
