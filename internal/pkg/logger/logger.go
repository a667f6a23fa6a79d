package logger

import (
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// Global logger instance
var Log *zap.Logger

// Sets up the global Zap logger with the given log level.
// Unknown levels fall back to info.
func InitLogger(logLevel string) error {
    level, err := zapcore.ParseLevel(strings.ToLower(logLevel))
    if err != nil {
        level = zapcore.InfoLevel
    }

    config := zap.Config{
        Level:            zap.NewAtomicLevelAt(level),
        Development:      false,
        Encoding:         "json", // structured JSON logs
        OutputPaths:      []string{"stdout"},
        ErrorOutputPaths: []string{"stderr"},
        EncoderConfig: zapcore.EncoderConfig{
            MessageKey:    "message",
            LevelKey:      "level",
            TimeKey:       "time",
            NameKey:       "logger",
            CallerKey:     "caller",
            StacktraceKey: "stacktrace",
            LineEnding:    zapcore.DefaultLineEnding,
            EncodeLevel:   zapcore.LowercaseLevelEncoder,
            EncodeTime:    zapcore.ISO8601TimeEncoder,
            EncodeCaller:  zapcore.ShortCallerEncoder,
        },
    }

    log, err := config.Build()
    if err != nil {
        return err
    }

    Log = log
    return nil
}
