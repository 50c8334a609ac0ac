package logging

import (
	"context"
	"log/slog"
	"regexp"
	"slices"

	"github.com/m-mizutani/masq"
)

// Attribute keys whose values are always masked. Matching is exact; the
// prefixes below catch families such as secret_config.
var (
	redactedKeys = []string{
		"authorization", "cookie", "set-cookie", "session",
		"password", "token", "access_token", "accessToken",
		"api_key", "apiKey", "auth", "email",
		"otlp_headers", "privateKey", "secretKey",
	}

	redactedKeyPrefixes = []string{"secret", "private"}
)

// Values masked wherever they appear: JWTs, credentials in HTTP auth
// scheme form and email addresses such as author contacts.
var redactedValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
	regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[a-zA-Z]{2,}$`),
}

// DefaultRedactOptions returns the masq options every JSON and text handler
// is built with.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(redactedKeys)+len(redactedKeyPrefixes)+len(redactedValues))

	for _, k := range redactedKeys {
		opts = append(opts, masq.WithFieldName(k))
	}

	for _, p := range redactedKeyPrefixes {
		opts = append(opts, masq.WithFieldPrefix(p))
	}

	for _, re := range redactedValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr hook applying
// DefaultRedactOptions plus any extra options.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), extra...)...)
}

// RedactHandler runs replace over every attribute before handing records to
// next. It covers handlers, such as the charm pretty printer, that take no
// ReplaceAttr option.
type RedactHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func NewRedactHandler(next slog.Handler, replace func(groups []string, a slog.Attr) slog.Attr) *RedactHandler {
	return &RedactHandler{next: next, replace: replace}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redact(h.groups, a)
	}

	return &RedactHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &RedactHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(slices.Clip(h.groups), name),
	}
}

func (h *RedactHandler) redact(groups []string, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return h.replace(groups, a)
	}

	inner := a.Value.Group()
	sub := append(slices.Clip(groups), a.Key)

	out := make([]slog.Attr, len(inner))
	for i, ga := range inner {
		out[i] = h.redact(sub, ga)
	}

	return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
}
