// Package logging provides structured JSON logging with sanitization.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// sensitiveKeys are attribute keys whose values are redacted in logs.
var sensitiveKeys = []string{
	"password",
	"passphrase",
	"secret",
	"token",
	"key",
	"credential",
}

// SanitizingHandler wraps a slog.Handler to redact sensitive attributes.
type SanitizingHandler struct {
	handler  slog.Handler
	sanitize bool
}

// NewSanitizingHandler creates a new sanitizing handler.
func NewSanitizingHandler(handler slog.Handler, sanitize bool) *SanitizingHandler {
	return &SanitizingHandler{handler: handler, sanitize: sanitize}
}

// Enabled implements slog.Handler.
func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SanitizingHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.sanitize {
		return h.handler.Handle(ctx, r)
	}

	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.sanitizeAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clean)
}

// WithAttrs implements slog.Handler.
func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.sanitize {
		clean := make([]slog.Attr, len(attrs))
		for i, a := range attrs {
			clean[i] = h.sanitizeAttr(a)
		}
		attrs = clean
	}
	return &SanitizingHandler{handler: h.handler.WithAttrs(attrs), sanitize: h.sanitize}
}

// WithGroup implements slog.Handler.
func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{handler: h.handler.WithGroup(name), sanitize: h.sanitize}
}

func (h *SanitizingHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	lower := strings.ToLower(a.Key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lower, sensitive) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}

// Setup installs the default logger: JSON on stderr at the given level,
// sanitized unless disabled.
func Setup(level string, sanitize bool) {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(NewSanitizingHandler(jsonHandler, sanitize)))
}
