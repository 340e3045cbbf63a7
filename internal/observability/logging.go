package observability

import (
	"context"
	"io"
	"log/slog"
)

const LevelFatal = slog.Level(12)

type CoreLoggerParams struct {
	// NoiseLimiter drops repeated Capture* messages. Nil lets everything
	// through.
	NoiseLimiter *NoiseLimiter
}

// CoreLogger is the logger used throughout the charting runtime.
//
// It wraps slog and adds Capture* helpers for messages that come from hot
// paths (per-event, per-frame) where an unbounded repeat rate would drown
// the host's log output.
type CoreLogger struct {
	*slog.Logger
	noise *NoiseLimiter
}

func NewCoreLogger(logger *slog.Logger, params *CoreLoggerParams) *CoreLogger {
	if params == nil {
		params = &CoreLoggerParams{}
	}

	return &CoreLogger{
		Logger: logger,
		noise:  params.NoiseLimiter,
	}
}

// With returns a derived logger that includes the given attrs in each message.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{
		Logger: cl.Logger.With(args...),
		noise:  cl.noise,
	}
}

// CaptureError logs an error, rate-limited per distinct message.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	if !cl.noise.Allow(err.Error()) {
		return
	}
	cl.Error(err.Error(), args...)
}

// CaptureWarn logs a warning, rate-limited per distinct message.
func (cl *CoreLogger) CaptureWarn(msg string, args ...any) {
	if !cl.noise.Allow(msg) {
		return
	}
	cl.Warn(msg, args...)
}

// CaptureFatal logs an error at the fatal level.
//
// Fatal messages are never rate-limited.
func (cl *CoreLogger) CaptureFatal(err error, args ...any) {
	cl.Log(context.Background(), LevelFatal, err.Error(), args...)
}

// NewNoOpLogger returns a logger that discards all messages.
//
// Used for testing.
func NewNoOpLogger() *CoreLogger {
	return NewCoreLogger(
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		nil,
	)
}
