package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/storefront/internal/core/domain"
)

// Violation is one failed rule on one field.
type Violation struct {
	Field   string
	Tag     string
	Message string
}

// ValidationError lists every rule a form violated, in field order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return strings.Join(msgs, "; ")
}

// First returns the first violation, which is what forms show to the user.
func (e *ValidationError) First() string {
	if len(e.Violations) == 0 {
		return domain.ErrValidation.Error()
	}
	return e.Violations[0].Message
}

// Has reports whether field failed the given rule.
func (e *ValidationError) Has(field, tag string) bool {
	for _, v := range e.Violations {
		if v.Field == field && (tag == "" || v.Tag == tag) {
			return true
		}
	}
	return false
}

// HasTag reports whether any field failed the given rule.
func (e *ValidationError) HasTag(tag string) bool {
	for _, v := range e.Violations {
		if v.Tag == tag {
			return true
		}
	}
	return false
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }

// Validator wraps go-playground/validator. It satisfies echo.Validator so
// the sandbox shares the same rules and messages as the client forms.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns a *ValidationError for rule violations.
func (val *Validator) Validate(i any) error {
	if err := val.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &ValidationError{Violations: make([]Violation, 0, len(ve))}
			for _, fe := range ve {
				out.Violations = append(out.Violations, Violation{
					Field:   fe.Field(),
					Tag:     fe.Tag(),
					Message: fieldError(fe),
				})
			}
			return out
		}
		return err
	}
	return nil
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// validationMessage extracts the first user-facing message from err.
func validationMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.First()
	}
	return err.Error()
}
