package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"accord/internal/domain"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new structured logger writing JSON to output.
func NewLogger(service, version, level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("host", getHostname()).
		Logger()

	return &Logger{logger: logger}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{logger: zerolog.Nop()}
}

// WithUser adds user_id context to logger.
func (l *Logger) WithUser(user domain.UserID) *Logger {
	return &Logger{logger: l.logger.With().Str("user_id", user.String()).Logger()}
}

// WithComponent adds component context to logger.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{logger: l.logger.With().Str("component", name).Logger()}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// KeyPublished logs a public key write for user.
func (l *Logger) KeyPublished(user domain.UserID, fingerprint string, changed bool) {
	l.logger.Info().
		Str("user_id", user.String()).
		Str("key_fingerprint", fingerprint).
		Bool("changed", changed).
		Msg("encryption public key published")
}

// DecryptFailed logs a message that could not be decrypted.
func (l *Logger) DecryptFailed(msgID domain.MessageID, from, to domain.UserID, err error) {
	l.logger.Warn().
		Str("message_id", msgID.String()).
		Str("sender_id", from.String()).
		Str("recipient_id", to.String()).
		Err(err).
		Msg("message decryption failed")
}

// MigrationStarted logs the start of a key consistency run.
func (l *Logger) MigrationStarted(total int, dryRun bool, concurrency int) {
	l.logger.Info().
		Int("profiles", total).
		Bool("dry_run", dryRun).
		Int("concurrency", concurrency).
		Msg("key migration scanning")
}

// MigrationItem logs the classification of one profile.
func (l *Logger) MigrationItem(rec domain.MigrationRecord) {
	ev := l.logger.Debug()
	if rec.Status == domain.MigrationError {
		ev = l.logger.Warn()
	} else if rec.Status == domain.MigrationFixed {
		ev = l.logger.Info()
	}
	ev.Str("profile_id", rec.ProfileID.String()).
		Str("user_id", rec.UserID.String()).
		Str("status", string(rec.Status)).
		Str("error", rec.Error).
		Msg("key migration profile")
}

// MigrationCompleted logs the summary of a run.
func (l *Logger) MigrationCompleted(sum domain.MigrationSummary, elapsed time.Duration) {
	l.logger.Info().
		Int("total", sum.Total).
		Int("fixed", sum.Fixed).
		Int("already_correct", sum.AlreadyCorrect).
		Int("errors", sum.Errors).
		Bool("dry_run", sum.DryRun).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("key migration completed")
}

// Listening logs that a server accepts connections on addr.
func (l *Logger) Listening(addr string) {
	l.logger.Info().Str("addr", addr).Msg("listening")
}

// Request logs an HTTP request.
func (l *Logger) Request(method, path, remote string, status, bytes int, elapsed time.Duration) {
	l.logger.Info().
		Str("method", method).
		Str("path", path).
		Str("remote", remote).
		Int("status", status).
		Int("bytes", bytes).
		Dur("duration", elapsed).
		Msg("request")
}

func parseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// Helper function to get hostname.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
