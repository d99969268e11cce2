// Package logging configures the process-wide logrus logger and carries
// per-request fields through contexts.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const requestIDKey ctxKey = "requestId"

// slowThreshold marks tracked calls that took long enough to warn about.
const slowThreshold = 2 * time.Second

// Setup points the standard logger at the file at path. The terminal belongs
// to the UI, so nothing is written to stderr. The returned closer releases
// the file.
func Setup(path, level string) (io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		Configure(io.Discard, level)
		return nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Configure(file, level)
	return file, nil
}

// Configure sets the standard logger's output, format, and level. Unknown
// levels fall back to info.
func Configure(w io.Writer, level string) {
	logrus.SetOutput(w)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	if err != nil && strings.TrimSpace(level) != "" {
		logrus.WithField("level", level).Warn("unknown log level, using info")
	}
}

// For returns an entry carrying the request id stored in ctx, if any.
func For(ctx context.Context) *logrus.Entry {
	if id := RequestID(ctx); id != "" {
		return logrus.WithField("request_id", id)
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// ContextWithID stores a request id in ctx.
func ContextWithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Track logs how long the surrounding call took. Use as
// defer logging.Track(ctx, "caps")().
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration", dur.String())
		if dur > slowThreshold {
			entry.Warnf("%s completed (slow)", msg)
			return
		}
		entry.Debugf("%s completed", msg)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
