package app

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sampleValue returns a value that satisfies f's rules.
func sampleValue(f domain.FieldSpec) string {
	switch {
	case f.Kind == domain.KindSelect:
		return f.Options[0]
	case f.Kind == domain.KindEmail:
		return "ada@example.com"
	case f.Kind == domain.KindTel:
		return "555-123-4567"
	case f.Kind == domain.KindDate:
		return "1990-01-01"
	case f.Kind == domain.KindCheckbox:
		return "on"
	case f.Kind == domain.KindNumber && strings.Contains(f.Rules, "len=4"):
		return "2020"
	case f.Kind == domain.KindNumber:
		return "12"
	case f.Name == "firstName":
		return "Ada"
	case f.Name == "lastName":
		return "Lovelace"
	default:
		return "Sample"
	}
}

// validQuote builds a quote of t with every required field filled and
// consent given, the way the HTML form would post it.
func validQuote(t *testing.T, qt domain.QuoteType) *domain.Quote {
	t.Helper()

	schema, err := domain.ProductByType(qt)
	require.NoError(t, err)

	values := map[string]string{domain.ConsentField: "on"}

	for _, f := range schema.AllFields() {
		if f.Required() {
			values[f.InputName()] = sampleValue(f)
		}
	}

	return schema.NewQuote(values)
}

func healthQuote(t *testing.T) *domain.Quote {
	t.Helper()

	return validQuote(t, domain.QuoteTypeHealth)
}
