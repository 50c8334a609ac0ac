// Package ports defines the interfaces the blog service depends on.
// Adapters implement them; the application layer consumes them.
package ports

import (
	"context"
	"html/template"

	"github.com/jsamuelsen/blog-service/internal/domain"
)

// FragmentStore serves the HTML body of an entry, stored apart from the catalog
// under the entry's slug.
type FragmentStore interface {
	// Get returns the fragment for slug.
	// Returns domain.ErrNotFound if no fragment exists for the slug and
	// domain.ErrValidation if the slug is malformed.
	Get(ctx context.Context, slug string) (template.HTML, error)

	// Markdown returns the fragment for slug converted to Markdown.
	Markdown(ctx context.Context, slug string) (string, error)
}

// EntryView is one entry ready to be rendered.
type EntryView struct {
	Entry domain.Entry

	// Fragment is the entry body. Empty when the body could not be found.
	Fragment template.HTML

	// LinkToSingle links the title to the single entry page.
	LinkToSingle bool
}

// PageView is a complete blog page.
type PageView struct {
	// Title is the document title.
	Title string

	// Current names the navigation item marked active.
	Current string

	// LinkToSelf keeps the real URL on the active navigation item.
	LinkToSelf bool

	Entries []EntryView

	// PrevHref and NextHref link to neighbouring listing pages. Empty hides the link.
	PrevHref string
	NextHref string
}

// Renderer turns views into HTML.
type Renderer interface {
	// NavBar renders the navigation bar with current marked active.
	NavBar(current string, linkToSelf bool) (template.HTML, error)

	// Entry renders one entry.
	Entry(view EntryView) (template.HTML, error)

	// Entries renders a sequence of entries.
	Entries(views []EntryView) (template.HTML, error)

	// Page renders a full HTML document.
	Page(view PageView) (template.HTML, error)
}
