package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate names fields by their koanf keys, the names an operator edits in
// YAML or as APP_ variables.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("koanf"); name != "" && name != "-" {
			return name
		}

		return fld.Name
	})

	return v
}()

// ruleMessages phrase each failed rule after the key path. %s receives the
// rule parameter.
var ruleMessages = map[string]string{
	"required":    "is required",
	"required_if": "is required when %s",
	"min":         "must be at least %s",
	"max":         "must be at most %s",
	"oneof":       "must be one of: %s",
	"unique":      "must not repeat %s",
}

// Validate reports every invalid setting at once, one per line. The service
// and blogctl refuse to start on error.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var failures validator.ValidationErrors
	if !errors.As(err, &failures) {
		return err
	}

	lines := make([]string, len(failures))
	for i, fe := range failures {
		lines[i] = keyPath(fe.Namespace()) + " " + describeRule(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describeRule(fe validator.FieldError) string {
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "failed validation: " + fe.Tag()
	}

	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, strings.ToLower(fe.Param()))
	}

	return msg
}

// keyPath drops the root struct name: Config.blog.catalog_path becomes
// blog.catalog_path.
func keyPath(namespace string) string {
	if _, path, ok := strings.Cut(namespace, "."); ok {
		return path
	}

	return namespace
}
