package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Common validation tags constants
const (
	TagRequired = "required"
	TagEmail    = "email"
	TagIDPhone  = "id_phone"
	TagMin      = "min"
	TagMax      = "max"
)

// Indonesian mobile numbers: 08xx, 628xx or +628xx followed by 7 to 12 digits
var idPhonePattern = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,11}$`)

// Validator wraps the go-playground validator with custom rules
type Validator struct {
	validator *validator.Validate
}

// New creates a new validator instance with custom rules
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	registerCustomValidators(validate)

	// Use JSON field names (or query names) in validation error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{
		validator: validate,
	}
}

// Validate validates a struct and returns validation errors.
// It satisfies echo.Validator.
func (v *Validator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return NewValidationError(validationErrs)
		}
		return err
	}
	return nil
}

// ValidationError represents a validation error with user-friendly messages
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

// Error implements the error interface
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Summary())
}

// Prefixed returns a copy whose field keys and messages carry the given prefix
func (e ValidationError) Prefixed(prefix string) *ValidationError {
	messages := make(map[string]string, len(e.Errors))
	for field, message := range e.Errors {
		messages[prefix+"."+field] = prefix + ": " + message
	}
	return &ValidationError{Errors: messages}
}

// Summary joins the field messages in a stable order
func (e ValidationError) Summary() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, e.Errors[field])
	}
	return strings.Join(messages, ", ")
}

// NewValidationError creates a ValidationError from validator.ValidationErrors
func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	messages := make(map[string]string)

	for _, err := range errs {
		field := err.Field()

		switch err.Tag() {
		case TagRequired:
			messages[field] = fmt.Sprintf("%s is required", field)
		case TagEmail:
			messages[field] = fmt.Sprintf("%s must be a valid email address", field)
		case TagMin:
			if err.Kind() == reflect.String {
				messages[field] = fmt.Sprintf("%s must be at least %s characters long", field, err.Param())
			} else {
				messages[field] = fmt.Sprintf("%s must not be less than %s", field, err.Param())
			}
		case TagMax:
			if err.Kind() == reflect.String {
				messages[field] = fmt.Sprintf("%s must be at most %s characters long", field, err.Param())
			} else {
				messages[field] = fmt.Sprintf("%s must not be greater than %s", field, err.Param())
			}
		case TagIDPhone:
			messages[field] = "Format should be a valid Indonesian phone number (081234567890)"
		default:
			messages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return &ValidationError{Errors: messages}
}

// registerCustomValidators registers custom validation rules
func registerCustomValidators(validate *validator.Validate) {
	// Indonesian mobile phone number
	_ = validate.RegisterValidation(TagIDPhone, func(fl validator.FieldLevel) bool {
		return IsValidIndonesianPhone(fl.Field().String())
	})
}

// IsValidIndonesianPhone checks a phone number against the Indonesian mobile format
func IsValidIndonesianPhone(phone string) bool {
	return idPhonePattern.MatchString(phone)
}
