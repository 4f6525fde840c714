package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their koanf keys, so an error names the
// same path as the YAML file and the APP_ environment variable.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}

		return name
	})

	v.RegisterStructValidation(validateRetry, RetryConfig{})
	v.RegisterStructValidation(validateSite, SiteConfig{})

	return v
}

// validateRetry rejects a backoff that starts above its own ceiling.
func validateRetry(sl validator.StructLevel) {
	r, _ := sl.Current().Interface().(RetryConfig)
	if r.MaxInterval > 0 && r.InitialInterval > r.MaxInterval {
		sl.ReportError(r.MaxInterval, "max_interval", "MaxInterval", "gtefield", "initial_interval")
	}
}

// validateSite requires a phone number a visitor can dial from the footer.
func validateSite(sl validator.StructLevel) {
	s, _ := sl.Current().Interface().(SiteConfig)

	digits := 0
	for _, r := range s.Phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	if s.Phone != "" && digits < 7 {
		sl.ReportError(s.Phone, "phone", "Phone", "phone", "")
	}
}

// Validate checks the loaded configuration. Every violation is reported at
// once; the service refuses to start on any of them.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config validation: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &FieldError{Key: fieldKey(fe.Namespace()), Rule: fe.Tag(), Param: fe.Param()})
	}

	return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
}

// FieldError is one invalid configuration key.
type FieldError struct {
	Key   string // dotted koanf key, e.g. sessions.dir
	Rule  string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Rule {
	case "required":
		return e.Key + " is required"
	case "required_if":
		return fmt.Sprintf("%s is required when %s", e.Key, requiredIfCondition(e.Param))
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Key, e.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", e.Key, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Key, e.Param)
	case "url":
		return e.Key + " must be a valid URL"
	case "email":
		return e.Key + " must be a valid email address"
	case "gtefield":
		return fmt.Sprintf("%s must not be less than %s", e.Key, e.Param)
	case "phone":
		return e.Key + " must contain at least 7 digits"
	case "cidr|ip":
		return e.Key + " must be an IP address or CIDR range"
	default:
		return fmt.Sprintf("%s failed validation: %s", e.Key, e.Rule)
	}
}

// requiredIfCondition turns "InMemory false" into "in_memory is false".
func requiredIfCondition(param string) string {
	field, value, ok := strings.Cut(param, " ")
	if !ok {
		return param
	}

	if f, found := reflect.TypeFor[conditionFields]().FieldByName(field); found {
		field = f.Tag.Get("koanf")
	}

	return field + " is " + value
}

// conditionFields maps the Go names used in required_if params back to keys.
type conditionFields struct {
	Enabled  bool `koanf:"enabled"`
	InMemory bool `koanf:"in_memory"`
}

// fieldKey drops the root struct from "Config.sessions.dir".
func fieldKey(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return rest
}
