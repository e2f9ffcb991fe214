package app

import (
	"io"

	"accord/internal/observability"
)

// Version is reported in logs and by the CLI.
const Version = "0.1.0"

// NewLogger builds the structured logger for service at cfg's level.
func NewLogger(cfg Config, service string, out io.Writer) *observability.Logger {
	return observability.NewLogger(service, Version, cfg.LogLevel, out)
}
