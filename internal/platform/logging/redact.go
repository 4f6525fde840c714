package logging

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/m-mizutani/masq"
)

var (
	jwtPattern       = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern    = regexp.MustCompile(`(?i)^bearer\s+.+$`)
	basicAuthPattern = regexp.MustCompile(`(?i)^basic\s+.+$`)
)

// credentialFields never reach a log sink.
var credentialFields = []string{
	"password", "secret", "token", "apiKey", "accessToken", "refreshToken",
	"credential", "credentials", "authorization", "auth", "bearer", "cookie",
	"session", "privateKey", "secretKey",
}

// leadFields are the personal details a visitor types into a quote form.
// Names and addresses are kept so agents can follow up on a failed submission.
var leadFields = []string{
	"email", "phoneNumber", "dateOfBirth", "ssn", "licenseNumber",
	"medicareNumber", "driversLicense", "hullId",
}

// DefaultRedactOptions masks credentials and lead PII wherever they appear:
// as an attribute key, a struct field, a map key, or a token-shaped value.
// Each field name also matches its exported, lower and snake_case spellings.
func DefaultRedactOptions() []masq.Option {
	opts := []masq.Option{
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
		masq.WithRegex(basicAuthPattern),
	}

	for _, name := range slices.Concat(credentialFields, leadFields) {
		for _, v := range spellings(name) {
			opts = append(opts, masq.WithFieldName(v))
		}
	}

	return opts
}

// spellings returns name as written, exported, lowercased and snake_cased,
// without duplicates.
func spellings(name string) []string {
	var snake strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			snake.WriteByte('_')
		}

		snake.WriteRune(unicode.ToLower(r))
	}

	exported := strings.ToUpper(name[:1]) + name[1:]

	out := []string{name, exported, strings.ToLower(name), snake.String()}
	slices.Sort(out)

	return slices.Compact(out)
}

// NewReplaceAttr returns a slog ReplaceAttr that applies DefaultRedactOptions
// plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(slices.Concat(DefaultRedactOptions(), opts)...)
}

// redactingHandler applies a ReplaceAttr function in front of handlers that
// do not support one.
type redactingHandler struct {
	next    slog.Handler
	replace func(groups []string, a slog.Attr) slog.Attr
	groups  []string
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.next.Handle(ctx, out)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.replace(h.groups, a)
	}

	return &redactingHandler{next: h.next.WithAttrs(redacted), replace: h.replace, groups: h.groups}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{
		next:    h.next.WithGroup(name),
		replace: h.replace,
		groups:  append(slices.Clone(h.groups), name),
	}
}
