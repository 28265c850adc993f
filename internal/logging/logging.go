// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the process logger. Logs go to stderr so command
// output on stdout stays pipeable.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// New creates the zerolog logger the whole process shares.
func New(cfg types.LoggingConfig) zerolog.Logger {
	var output io.Writer = os.Stderr
	if strings.ToLower(cfg.Format) == "console" {
		output = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).With().Timestamp().Logger().Level(parseLevel(cfg.Level))
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
