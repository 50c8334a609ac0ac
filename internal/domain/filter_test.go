package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t testing.TB, s string) time.Time {
	t.Helper()

	d, err := ParseDate(s)
	require.NoError(t, err)

	return d
}

// twoEntries is the two-post catalog used throughout the filter tests.
func twoEntries(t testing.TB) []Entry {
	t.Helper()

	return []Entry{
		{Title: "A", Author: "geoff", Slug: "a", Date: date(t, "2016-01-01"), Tags: []string{"x"}},
		{Title: "B", Author: "geoff", Slug: "b", Date: date(t, "2016-02-01"), Tags: []string{"y"}},
	}
}

func slugs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Slug)
	}

	return out
}

func TestFilterPage_TwoEntryCatalog(t *testing.T) {
	catalog := twoEntries(t)

	tests := []struct {
		name     string
		page     int
		pageSize int
		filter   Filter
		want     []string
	}{
		{name: "tag filter", page: 0, pageSize: 1, filter: Filter{Tag: "y"}, want: []string{"b"}},
		{name: "second page", page: 1, pageSize: 1, want: []string{"b"}},
		{name: "past the end", page: 2, pageSize: 1, want: []string{}},
		{name: "whole catalog", page: 0, pageSize: 5, want: []string{"a", "b"}},
		{name: "empty tag means no filter", page: 0, pageSize: 5, filter: Filter{Tag: ""}, want: []string{"a", "b"}},
		{name: "unknown tag", page: 0, pageSize: 5, filter: Filter{Tag: "z"}, want: []string{}},
		{
			name: "min date inclusive", page: 0, pageSize: 5,
			filter: Filter{MinDate: date(t, "2016-02-01")}, want: []string{"b"},
		},
		{
			name: "max date inclusive", page: 0, pageSize: 5,
			filter: Filter{MaxDate: date(t, "2016-01-01")}, want: []string{"a"},
		},
		{
			name: "date range excluding both", page: 0, pageSize: 5,
			filter: Filter{MinDate: date(t, "2016-01-02"), MaxDate: date(t, "2016-01-31")}, want: []string{},
		},
		{
			name: "constraints are conjunctive", page: 0, pageSize: 5,
			filter: Filter{MinDate: date(t, "2016-01-01"), Tag: "x", MaxDate: date(t, "2016-01-15")},
			want:   []string{"a"},
		},
		{
			name: "tag and date disagree", page: 0, pageSize: 5,
			filter: Filter{MinDate: date(t, "2016-01-15"), Tag: "x"}, want: []string{},
		},
		{name: "negative page", page: -1, pageSize: 1, want: []string{}},
		{name: "zero page size", page: 0, pageSize: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPage(catalog, tt.page, tt.pageSize, tt.filter)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, slugs(got))
		})
	}
}

func TestFilterPage_NeverExceedsPageSizeAndKeepsOrder(t *testing.T) {
	base := date(t, "2016-01-01")
	entries := make([]Entry, 0, 23)

	for i := range 23 {
		tags := []string{"all"}
		if i%3 == 0 {
			tags = append(tags, "third")
		}

		entries = append(entries, Entry{
			Slug: fmt.Sprintf("post-%d", i),
			Date: base.AddDate(0, 0, i),
			Tags: tags,
		})
	}

	filters := []Filter{
		{},
		{Tag: "third"},
		{MinDate: base.AddDate(0, 0, 5), MaxDate: base.AddDate(0, 0, 17)},
	}

	for _, f := range filters {
		matched := f.Apply(entries)

		for pageSize := 1; pageSize <= 7; pageSize++ {
			var collected []Entry

			for page := 0; page <= len(entries); page++ {
				got := FilterPage(entries, page, pageSize, f)
				assert.LessOrEqual(t, len(got), pageSize)

				for _, e := range got {
					assert.True(t, f.Match(e), "entry %s does not satisfy filter", e.Slug)
				}

				collected = append(collected, got...)
			}

			// Concatenating every page reproduces the filtered sequence in order.
			assert.Equal(t, slugs(matched), slugs(collected))
		}
	}
}

func TestFilterPage_DoesNotAliasInput(t *testing.T) {
	catalog := twoEntries(t)

	got := FilterPage(catalog, 0, 2, Filter{})
	got[0].Title = "changed"

	assert.Equal(t, "A", catalog[0].Title)
}

func TestPaginate_LargePageDoesNotOverflow(t *testing.T) {
	got := Paginate(twoEntries(t), int(^uint(0)>>1), 2)
	assert.Empty(t, got)
}

func TestFindBySlug(t *testing.T) {
	entries := []Entry{
		{Title: "First Post", Slug: "first-post"},
		{Title: "Second Post", Slug: "second-post"},
	}

	e, ok := FindBySlug(entries, "first-post")
	require.True(t, ok)
	assert.Equal(t, "First Post", e.Title)

	_, ok = FindBySlug(entries, "missing")
	assert.False(t, ok)

	_, ok = FindBySlug(nil, "first-post")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2016-12-26")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2016, time.December, 26, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("26/12/2016")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"first-post", "a", "post-2", "2016-recap"}
	invalid := []string{"", "First-Post", "../etc/passwd", "a--b", "-a", "a-", "a b", "a.html"}

	for _, s := range valid {
		assert.True(t, IsValidSlug(s), s)
	}

	for _, s := range invalid {
		assert.False(t, IsValidSlug(s), s)
	}
}

func BenchmarkFilterPage(b *testing.B) {
	base := date(b, "2016-01-01")
	entries := make([]Entry, 1000)

	for i := range entries {
		entries[i] = Entry{
			Slug: fmt.Sprintf("post-%d", i),
			Date: base.AddDate(0, 0, i),
			Tags: []string{"blog", fmt.Sprintf("tag-%d", i%10)},
		}
	}

	f := Filter{MinDate: base.AddDate(0, 0, 100), Tag: "tag-3"}

	b.ReportAllocs()

	for b.Loop() {
		_ = FilterPage(entries, 2, 5, f)
	}
}
