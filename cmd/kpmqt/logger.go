package main

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type logConfig struct {
	Level  string
	Pretty bool
}

// newLogger writes to stderr so command output on stdout stays parseable.
func newLogger(cfg logConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stderr
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		}
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}
