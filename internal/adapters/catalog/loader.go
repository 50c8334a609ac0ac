// Package catalog loads the blog entry catalog from a YAML file.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/blog-service/internal/domain"
)

// File is the on-disk catalog layout.
type File struct {
	Entries []Record `yaml:"entries" validate:"dive"`
}

// Record is one catalog entry as written in the YAML file. Dates stay strings
// so that a bare 2016-12-26 scalar is parsed by the domain, not by yaml.
type Record struct {
	Title  string   `yaml:"title"  validate:"required"`
	Author string   `yaml:"author" validate:"required"`
	Date   string   `yaml:"date"   validate:"required,entrydate"`
	Tags   []string `yaml:"tags"   validate:"unique,dive,required"`
	Slug   string   `yaml:"slug"   validate:"required,slug"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return domain.IsValidSlug(fl.Field().String())
	})
	mustRegister(v, "entrydate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("catalog: registering %q validation: %v", tag, err))
	}
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*domain.Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	cat, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}

	return cat, nil
}

// Load decodes a catalog document from r. Unknown keys are rejected so that a
// misspelt field does not silently drop data.
func Load(r io.Reader) (*domain.Catalog, error) {
	var f File

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}

	if err := validate.Struct(&f); err != nil {
		return nil, recordError(err)
	}

	entries := make([]domain.Entry, 0, len(f.Entries))
	for _, rec := range f.Entries {
		entries = append(entries, rec.toEntry())
	}

	return domain.NewCatalog(entries)
}

func (r Record) toEntry() domain.Entry {
	// Validated above.
	date, _ := domain.ParseDate(r.Date)

	return domain.Entry{
		Title:  r.Title,
		Author: r.Author,
		Date:   date,
		Tags:   r.Tags,
		Slug:   r.Slug,
	}
}

// recordError reports the first invalid field as a domain validation error
// keyed by its YAML path, e.g. entries[2].slug.
func recordError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	field := yamlPath(fe.Namespace())

	var msg string

	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "slug":
		msg = "must contain only lowercase letters, digits and single hyphens"
	case "entrydate":
		msg = "must be a date formatted as " + domain.DateLayout
	case "unique":
		msg = "must not list a tag twice"
	default:
		msg = "failed " + fe.Tag() + " validation"
	}

	return domain.NewValidationErrorWithValue(field, msg, fmt.Sprint(fe.Value()))
}

// yamlPath turns "File.Entries[2].Slug" into "entries[2].slug".
func yamlPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		path = namespace
	}

	return strings.ToLower(path)
}
