package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

const consentMessage = "you must agree to the privacy terms"

var fieldValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// ValidateQuote checks q against every field of schema and, when
// requireConsent is set, the consent flag. All failures are reported at once
// as a *domain.FieldErrors keyed by field path.
func ValidateQuote(schema *domain.ProductSchema, q *domain.Quote, requireConsent bool) error {
	if q == nil {
		return domain.NewValidationError("quote", "is required")
	}

	flat := q.Flatten()
	vehicle := firstRecord(q.Vehicles)
	driver := firstRecord(q.Drivers)

	errs := validateFields(schema.AllFields(), func(f domain.FieldSpec) any {
		switch f.Target {
		case domain.TargetVehicle:
			return vehicle[f.Name]
		case domain.TargetDriver:
			return driver[f.Name]
		default:
			return flat[f.Name]
		}
	})

	if requireConsent && !q.InformationSecure {
		errs[domain.ConsentField] = consentMessage
	}

	return domain.NewFieldErrors(schema.Title, errs)
}

// ValidateRecord checks one sub-form's data, e.g. a wizard slot.
func ValidateRecord(form domain.SubForm, data map[string]any) error {
	errs := validateFields(form.Fields, func(f domain.FieldSpec) any {
		return data[f.Name]
	})

	return domain.NewFieldErrors(form.Title, errs)
}

// NormalizeRecord keeps only the fields declared by specs and converts raw
// form strings into payload values. Values that already have a JSON type
// are kept as-is.
func NormalizeRecord(specs []domain.FieldSpec, raw map[string]any) map[string]any {
	out := make(map[string]any, len(specs))

	for _, f := range specs {
		v, ok := raw[f.Name]
		if !ok {
			v, ok = raw[f.InputName()]
		}

		if !ok {
			if f.Kind == domain.KindCheckbox {
				out[f.Name] = false
			}

			continue
		}

		if s, isString := v.(string); isString {
			v = f.Convert(s)
		}

		out[f.Name] = v
	}

	return out
}

func validateFields(specs []domain.FieldSpec, lookup func(domain.FieldSpec) any) map[string]string {
	errs := make(map[string]string)

	for _, f := range specs {
		if msg := checkField(f, lookup(f)); msg != "" {
			errs[f.Path()] = msg
		}
	}

	return errs
}

func checkField(f domain.FieldSpec, value any) string {
	if f.Kind == domain.KindCheckbox {
		checked, _ := value.(bool)
		if f.Required() && !checked {
			return "must be checked"
		}

		return ""
	}

	s := stringValue(value)

	if f.Rules != "" {
		err := fieldValidator().Var(s, f.Rules)

		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ruleMessage(verrs[0].Tag(), verrs[0].Param())
		}
	}

	if f.Kind == domain.KindSelect && s != "" && !slices.Contains(f.Options, s) {
		return "must be one of: " + strings.Join(f.Options, ", ")
	}

	return ""
}

func stringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func ruleMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters", param)
	case "len":
		return fmt.Sprintf("must be exactly %s characters", param)
	case "numeric":
		return "must be a number"
	case "alphanum":
		return "must contain only letters and numbers"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	default:
		return "is invalid"
	}
}

// firstRecord returns the first sub-entity as a flat map, or nil.
func firstRecord[T any](records []T) map[string]any {
	if len(records) == 0 {
		return nil
	}

	data, err := json.Marshal(records[0])
	if err != nil {
		return nil
	}

	var m map[string]any
	_ = json.Unmarshal(data, &m)

	return m
}
