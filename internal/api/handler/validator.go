package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(form).
// Failures come back as *ValidationError carrying one message per field,
// keyed by the form input name, ready for sticky re-render.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New()
	// Report fields by their form input name so templates can match them.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &echoValidator{v: v}
}

// ValidationError aggregates per-field messages for one submitted form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, field+": "+msg)
	}
	return strings.Join(msgs, "; ")
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fieldError(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldMessages unpacks a validation failure; ok is false for any other error.
func fieldMessages(err error) (map[string]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields, true
	}
	return nil, false
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "A valid email is required."
	case "alpha":
		return "Letters only, no spaces or special characters."
	case "min":
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be %s or more.", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be %s or less.", fe.Param())
	default:
		return fmt.Sprintf("Failed validation (%s).", fe.Tag())
	}
}
