package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/blog-service/internal/domain"
)

var (
	// ErrValidation wraps every rejected request parameter.
	ErrValidation = errors.New("validation failed")

	// ErrBinding marks query strings that could not be decoded at all,
	// such as page=two.
	ErrBinding = errors.New("binding failed")
)

// paramChecks are the blog specific validator tags. Empty values pass so
// they compose with omitempty and required.
var paramChecks = map[string]func(string) bool{
	"date": func(s string) bool {
		_, err := domain.ParseDate(s)
		return err == nil
	},
	"slug": domain.IsValidSlug,
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the blog tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(paramName)

		for tag, check := range paramChecks {
			mustRegister(validate, tag, func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return s == "" || check(s)
			})
		}
	})

	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("dto: registering %q validation: %v", tag, err))
	}
}

// paramName reports a field by the query parameter it is bound from, falling
// back to its JSON name.
func paramName(fld reflect.StructField) string {
	for _, key := range []string{"form", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}

		if name != "" {
			return name
		}
	}

	return fld.Name
}

// Validate checks struct tags only.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// Validatable is implemented by requests with rules spanning several fields.
type Validatable interface {
	Validate() error
}

// ValidateAll checks struct tags and then, when v implements Validatable,
// its cross-field rules.
func ValidateAll(v any) error {
	if err := Validate(v); err != nil {
		return err
	}

	rules, ok := v.(Validatable)
	if !ok {
		return nil
	}

	if err := rules.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindQuery decodes the query string into v and runs ValidateAll.
func BindQuery(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return ValidateAll(v)
}

// ValidationErrors maps each failed parameter to a readable message. Errors
// that did not come from struct tags yield an empty map.
func ValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return fields
	}

	for _, fe := range failures {
		fields[fe.Field()] = validationMessage(fe)
	}

	return fields
}

var validationMessages = map[string]string{
	"required": "this field is required",
	"date":     "must be a date formatted as YYYY-MM-DD",
	"slug":     "must be lowercase letters, digits and hyphens",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		unit := ""
		if fe.Kind() == reflect.String {
			unit = " characters"
		}

		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}

		return fmt.Sprintf("must be %s %s%s", bound, fe.Param(), unit)
	}

	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "failed validation: " + fe.Tag()
	}

	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}

	return msg
}
