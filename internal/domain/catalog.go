package domain

import (
	"cmp"
	"slices"
)

// Catalog is the read-only, ordered collection of blog entries.
// It is built once at startup and shared without locking.
type Catalog struct {
	entries []Entry
	bySlug  map[string]int
}

// PageQuery describes one page of a filtered listing.
type PageQuery struct {
	Page     int
	PageSize int
	Filter   Filter
}

// Page is one slice of a filtered listing.
type Page struct {
	// Entries holds at most PageSize entries in catalog order.
	Entries []Entry

	// Page is the zero-based page index.
	Page int

	// PageSize is the requested page size.
	PageSize int

	// Total is the number of entries that matched the filter.
	Total int

	// HasMore reports whether a later page holds further matches.
	HasMore bool
}

// TagCount pairs a tag with the number of entries carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// NewCatalog copies entries into a Catalog, preserving order.
// It fails with a ValidationError for an empty or malformed slug and with a
// ConflictError when two entries share a slug.
func NewCatalog(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		bySlug:  make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if !IsValidSlug(e.Slug) {
			return nil, NewValidationErrorWithValue("slug", "must be lowercase letters, digits and hyphens", e.Slug)
		}

		if _, dup := c.bySlug[e.Slug]; dup {
			return nil, NewConflictError("entry", "duplicate slug", e.Slug)
		}

		c.bySlug[e.Slug] = len(c.entries)
		c.entries = append(c.entries, e.clone())
	}

	return c, nil
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}

	return out
}

// FindBySlug returns the entry with the given slug.
func (c *Catalog) FindBySlug(slug string) (Entry, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Entry{}, false
	}

	return c.entries[i].clone(), true
}

// FilterPage runs q against the catalog.
func (c *Catalog) FilterPage(q PageQuery) Page {
	matched := q.Filter.Apply(c.entries)
	entries := Paginate(matched, q.Page, q.PageSize)

	for i := range entries {
		entries[i] = entries[i].clone()
	}

	hasMore := false
	if q.Page >= 0 && q.PageSize > 0 && len(matched) > 0 {
		hasMore = q.Page < (len(matched)-1)/q.PageSize
	}

	return Page{
		Entries:  entries,
		Page:     q.Page,
		PageSize: q.PageSize,
		Total:    len(matched),
		HasMore:  hasMore,
	}
}

// Tags returns every distinct tag with the number of entries carrying it,
// sorted by tag.
func (c *Catalog) Tags() []TagCount {
	counts := make(map[string]int)
	for _, e := range c.entries {
		seen := make(map[string]bool, len(e.Tags))
		for _, t := range e.Tags {
			if !seen[t] {
				seen[t] = true
				counts[t]++
			}
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for t, n := range counts {
		tags = append(tags, TagCount{Tag: t, Count: n})
	}

	slices.SortFunc(tags, func(a, b TagCount) int {
		return cmp.Compare(a.Tag, b.Tag)
	})

	return tags
}
