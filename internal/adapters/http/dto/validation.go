package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

var (
	// ErrValidation wraps struct-tag failures on a bound request.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps a body, query or path that could not be decoded at all.
	ErrBinding = errors.New("binding failed")
)

// Validator returns the request validator shared by every handler. Field
// names in its errors come from the json, form or uri tag, in that order.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	for tag, fn := range map[string]validator.Func{
		"ulid":     validateULID,
		"notempty": validateNotEmpty,
		"slot":     validateSlot,
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("dto: registering %q: %v", tag, err))
		}
	}

	return v
})

func wireName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}

	return fld.Name
}

// Validate checks v's struct tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and validates it.
func BindAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindJSON(v), v)
}

// BindQueryAndValidate decodes the query string into v and validates it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindQuery(v), v)
}

// BindURIAndValidate decodes route parameters into v and validates it.
func BindURIAndValidate(c *gin.Context, v any) error {
	return bindThenValidate(c.ShouldBindUri(v), v)
}

func bindThenValidate(bindErr error, v any) error {
	if bindErr != nil {
		return fmt.Errorf("%w: %w", ErrBinding, bindErr)
	}

	return Validate(v)
}

// ValidationErrors flattens a validator failure into field → message.
// Any other error yields an empty map.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
	}

	return fields
}

// IsValidationError reports whether err carries field-level failures.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"email":    "must be a valid email address",
	"ulid":     "must be a valid session identifier",
	"slot":     "must be a boat wizard step",
	"url":      "must be a valid URL",
	"notempty": "must not be empty",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"gt":       "must be greater than %s",
	"lt":       "must be less than %s",
	"oneof":    "must be one of: %s",
	"numeric":  "must be a number",
	"len":      "must be exactly %s characters",
}

func validationMessage(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()

	switch tag {
	case "min", "max":
		word := "at least"
		if tag == "max" {
			word = "at most"
		}

		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be %s %s characters", word, param)
		}

		return fmt.Sprintf("must be %s %s", word, param)
	}

	msg, ok := validationMessages[tag]
	if !ok {
		return "failed validation: " + tag
	}

	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, param)
	}

	return msg
}

// validateULID accepts empty strings; pair it with required when needed.
func validateULID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	_, err := ulid.ParseStrict(s)

	return err == nil
}

func validateNotEmpty(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateSlot(fl validator.FieldLevel) bool {
	_, err := domain.ParseSlotKind(fl.Field().String())
	return err == nil
}
