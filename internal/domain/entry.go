package domain

import (
	"regexp"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in catalog files, query parameters
// and CLI flags.
const DateLayout = "2006-01-02"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Entry is one blog post record. Entries are immutable once placed in a Catalog.
type Entry struct {
	// Title is the display title of the post.
	Title string

	// Author identifies the team member who wrote the post.
	Author string

	// Date is the publication date at UTC midnight.
	Date time.Time

	// Tags are the labels attached to the post.
	Tags []string

	// Slug uniquely identifies the entry and names its content fragment.
	Slug string
}

// HasTag reports whether the entry carries the given tag.
func (e Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// clone returns a copy that shares no memory with e.
func (e Entry) clone() Entry {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// ParseDate parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, NewValidationErrorWithValue("date", "must be a YYYY-MM-DD date", s)
	}

	return d, nil
}

// IsValidSlug reports whether s is a lowercase, hyphen separated slug.
// Slugs double as file names, so nothing else is accepted.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
