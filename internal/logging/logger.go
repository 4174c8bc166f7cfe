// Package logging builds the slog logger used by sealnote and provides
// attribute helpers.
//
// Helpers return an empty slog.Attr for zero values, so calls such as
// log.Info("msg", logging.Error(err)) need no nil checks. There are
// deliberately no helpers for passwords, keys, plaintext or envelopes.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Option configures New
type Option func(*options)

type options struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// WithLevel sets the minimum level
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSON switches to the JSON handler
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithOutput sets the destination, stderr by default
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithAttr adds attributes to every record
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// New creates a logger. Text output at info level to stderr unless
// configured otherwise.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	hopts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.json {
		h = slog.NewJSONHandler(o.output, hopts)
	} else {
		h = slog.NewTextHandler(o.output, hopts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(h)
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// NoteID identifies a stored note.
func NoteID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("note_id", id)
}

// Reason records a failure kind for operators.
func Reason(reason string) slog.Attr {
	if reason == "" {
		return slog.Attr{}
	}
	return slog.String("reason", reason)
}

// Duration records how long an operation took.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed records the time since start.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}
