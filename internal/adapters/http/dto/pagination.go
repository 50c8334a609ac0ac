package dto

import (
	"fmt"

	"github.com/jsamuelsen/blog-service/internal/domain"
)

// PaginationRequest holds zero-based page parameters from the query string.
type PaginationRequest struct {
	// Page is the zero-based page index.
	Page int `form:"page" json:"page" validate:"gte=0"`

	// PageSize is the number of items per page (1-100). Zero leaves the
	// choice to the service's index page size.
	PageSize int `form:"page_size" json:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// PaginatedResponse is a generic page of results.
type PaginatedResponse[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"pageSize"`
	Total    int  `json:"total"`
	HasMore  bool `json:"hasMore"`

	// NextPage is the index of the following page, absent on the last page.
	NextPage *int `json:"nextPage,omitempty"`
}

// NewPaginatedResponse converts a domain page, mapping each entry with conv.
func NewPaginatedResponse[T any](p domain.Page, conv func(domain.Entry) T) *PaginatedResponse[T] {
	items := make([]T, 0, len(p.Entries))
	for _, e := range p.Entries {
		items = append(items, conv(e))
	}

	resp := &PaginatedResponse[T]{
		Items:    items,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		HasMore:  p.HasMore,
	}

	if p.HasMore {
		next := p.Page + 1
		resp.NextPage = &next
	}

	return resp
}

// EntryListRequest is the query string of an entry listing.
type EntryListRequest struct {
	PaginationRequest

	// MinDate and MaxDate bound the entry date, inclusive, as YYYY-MM-DD.
	MinDate string `form:"min_date" json:"min_date" validate:"omitempty,date"`
	MaxDate string `form:"max_date" json:"max_date" validate:"omitempty,date"`

	// Tag keeps only entries carrying this tag.
	Tag string `form:"tag" json:"tag" validate:"omitempty,max=64"`
}

// Validate checks rules that span fields.
func (r *EntryListRequest) Validate() error {
	if r.MinDate == "" || r.MaxDate == "" {
		return nil
	}

	lo, errLo := domain.ParseDate(r.MinDate)
	hi, errHi := domain.ParseDate(r.MaxDate)

	if errLo == nil && errHi == nil && lo.After(hi) {
		return domain.NewValidationError("min_date", "must not be after max_date")
	}

	return nil
}

// ToPageQuery converts the request into a catalog query.
func (r *EntryListRequest) ToPageQuery() (domain.PageQuery, error) {
	q := domain.PageQuery{
		Page:     r.Page,
		PageSize: r.PageSize,
		Filter:   domain.Filter{Tag: r.Tag},
	}

	if r.MinDate != "" {
		d, err := domain.ParseDate(r.MinDate)
		if err != nil {
			return q, fmt.Errorf("min_date: %w", err)
		}

		q.Filter.MinDate = d
	}

	if r.MaxDate != "" {
		d, err := domain.ParseDate(r.MaxDate)
		if err != nil {
			return q, fmt.Errorf("max_date: %w", err)
		}

		q.Filter.MaxDate = d
	}

	return q, nil
}

// EntryResponse is the JSON form of a catalog entry.
type EntryResponse struct {
	Slug   string   `json:"slug"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Date   string   `json:"date"`
	Tags   []string `json:"tags"`
}

// ToEntryResponse converts a domain entry.
func ToEntryResponse(e domain.Entry) EntryResponse {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	return EntryResponse{
		Slug:   e.Slug,
		Title:  e.Title,
		Author: e.Author,
		Date:   e.Date.Format(domain.DateLayout),
		Tags:   tags,
	}
}

// TagResponse is one tag with the number of entries carrying it.
type TagResponse struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ToTagResponses converts tag counts.
func ToTagResponses(tags []domain.TagCount) []TagResponse {
	out := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagResponse{Tag: t.Tag, Count: t.Count})
	}

	return out
}

// NavRequest is the query string of the navigation bar endpoint.
type NavRequest struct {
	Page       string `form:"page" json:"page" validate:"omitempty,max=64"`
	LinkToSelf bool   `form:"link_to_self" json:"link_to_self"`
}
