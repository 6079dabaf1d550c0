package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"
)

// sensitiveKeys contains attribute keys that are always masked.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"proxy-authorization": true,
	"password":            true,
	"passwd":              true,
	"secret":              true,
	"token":               true,
	"api_key":             true,
	"apikey":              true,
	"access_token":        true,
	"refresh_token":       true,
	"private_key":         true,
	"session":             true,
	"session_id":          true,
	"credential":          true,
	"credentials":         true,
}

// sensitiveKeywords mask any key that contains them. The bare word "key"
// is not listed; it would hit names such as "primary_key".
var sensitiveKeywords = []string{
	"password", "passwd", "secret", "token", "auth", "credential", "private",
}

// sensitivePatterns match values that are masked regardless of their key.
var sensitivePatterns = []*regexp.Regexp{
	// JWT
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)^basic\s+[A-Za-z0-9+/=]+$`),
	// AWS access key
	regexp.MustCompile(`^AKIA[0-9A-Z]{16}$`),
	regexp.MustCompile(`(?i)-----BEGIN.*(PRIVATE|SECRET).*KEY-----`),
}

// MaskValue replaces sensitive values.
const MaskValue = "***REDACTED***"

// MaxValueLength is the default number of runes kept from a string value.
const MaxValueLength = 256

// truncationSuffix is appended to values cut by the handler.
const truncationSuffix = "...(truncated)"

// Handler wraps an slog.Handler and sanitizes every attribute before the
// record is passed on.
type Handler struct {
	// handler receives the sanitized records.
	handler slog.Handler

	// maxLen is the rune limit for string values. Zero disables truncation.
	maxLen int
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxValueLength sets the rune limit for string values.
// Zero or a negative value disables truncation.
func WithMaxValueLength(n int) HandlerOption {
	return func(h *Handler) {
		h.maxLen = max(n, 0)
	}
}

// NewHandler creates a Handler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewHandler(handler slog.Handler, opts ...HandlerOption) *Handler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	h := &Handler{handler: handler, maxLen: MaxValueLength}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the underlying handler handles level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's attributes and passes it on.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new Handler with the sanitized attributes added.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitized[i] = h.sanitizeAttr(a)
	}
	return &Handler{handler: h.handler.WithAttrs(sanitized), maxLen: h.maxLen}
}

// WithGroup returns a new Handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *Handler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitized := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitized[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitized...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if isSensitiveValue(s) {
			return slog.String(a.Key, MaskValue)
		}
		return slog.String(a.Key, h.truncate(s))
	}

	return a
}

func (h *Handler) truncate(s string) string {
	if h.maxLen == 0 || utf8.RuneCountInString(s) <= h.maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:h.maxLen]) + truncationSuffix
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, keyword := range sensitiveKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(value) {
			return true
		}
	}
	return false
}

// NewLogger creates a text logger that sanitizes its output.
// verbose selects Debug level; otherwise only warnings and errors are
// written.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger is like NewLogger but writes JSON lines.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
