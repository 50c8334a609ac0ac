package domain

import (
	"slices"
	"time"
)

// Filter selects entries by date range and tag. The zero value matches everything.
type Filter struct {
	// MinDate is the inclusive lower bound. Zero means unbounded.
	MinDate time.Time

	// MaxDate is the inclusive upper bound. Zero means unbounded.
	MaxDate time.Time

	// Tag must be present on the entry. Empty means no tag constraint.
	Tag string
}

// Match reports whether e satisfies every constraint set on f.
func (f Filter) Match(e Entry) bool {
	if !f.MinDate.IsZero() && e.Date.Before(f.MinDate) {
		return false
	}

	if !f.MaxDate.IsZero() && e.Date.After(f.MaxDate) {
		return false
	}

	if f.Tag != "" && !e.HasTag(f.Tag) {
		return false
	}

	return true
}

// Apply returns the matching entries in their original order.
func (f Filter) Apply(entries []Entry) []Entry {
	matched := make([]Entry, 0, len(entries))

	for _, e := range entries {
		if f.Match(e) {
			matched = append(matched, e)
		}
	}

	return matched
}

// Paginate returns entries[page*pageSize : (page+1)*pageSize], clipped to the
// available length. Out of range pages, negative pages and non-positive page
// sizes yield an empty, non-nil slice.
func Paginate(entries []Entry, page, pageSize int) []Entry {
	if page < 0 || pageSize <= 0 || page > len(entries)/pageSize {
		return []Entry{}
	}

	start := page * pageSize
	if start >= len(entries) {
		return []Entry{}
	}

	end := min(start+pageSize, len(entries))

	return slices.Clone(entries[start:end])
}

// FilterPage applies f to entries and returns the requested page of the result.
// The returned slice never holds more than pageSize entries and keeps the
// relative order of entries.
func FilterPage(entries []Entry, page, pageSize int, f Filter) []Entry {
	return Paginate(f.Apply(entries), page, pageSize)
}

// FindBySlug returns the first entry whose slug equals slug.
func FindBySlug(entries []Entry, slug string) (Entry, bool) {
	for _, e := range entries {
		if e.Slug == slug {
			return e, true
		}
	}

	return Entry{}, false
}
