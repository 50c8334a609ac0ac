// Package render turns blog views into HTML with html/template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/jsamuelsen/blog-service/internal/domain"
	"github.com/jsamuelsen/blog-service/internal/ports"
)

// LongDateLayout is how entry dates are shown to readers.
const LongDateLayout = "January 2, 2006"

//go:embed templates/*.gohtml
var templateFS embed.FS

// Config holds the links and navigation the renderer needs.
type Config struct {
	// EntryURL is the single entry page; the slug goes in ?entry=.
	EntryURL string

	// TeamURL is the team page; the author goes in ?member=.
	TeamURL string

	// SiteTitle is appended to every page title.
	SiteTitle string

	// Nav lists the navigation bar items in display order.
	Nav []domain.NavPage
}

// Renderer implements ports.Renderer. It is safe for concurrent use.
type Renderer struct {
	cfg  Config
	tmpl *template.Template
}

var _ ports.Renderer = (*Renderer)(nil)

type navItem struct {
	Name   string
	Href   string
	Active bool
}

type pageData struct {
	Title    string
	Nav      template.HTML
	Body     template.HTML
	PrevHref string
	NextHref string
}

// New parses the embedded templates.
func New(cfg Config) (*Renderer, error) {
	if len(cfg.Nav) == 0 {
		cfg.Nav = domain.DefaultNavPages()
	}

	funcs := template.FuncMap{
		"longDate":   func(t time.Time) string { return t.Format(LongDateLayout) },
		"entryHref":  func(slug string) string { return withQuery(cfg.EntryURL, "entry", slug) },
		"memberHref": func(author string) string { return withQuery(cfg.TeamURL, "member", author) },
	}

	tmpl, err := template.New("blog").Funcs(funcs).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Renderer{cfg: cfg, tmpl: tmpl}, nil
}

// Entry renders a single entry.
func (r *Renderer) Entry(view ports.EntryView) (template.HTML, error) {
	return r.execute("entry", view)
}

// Entries renders entries one after another in the given order.
func (r *Renderer) Entries(views []ports.EntryView) (template.HTML, error) {
	return r.execute("entries", views)
}

// NavBar renders the navigation bar. The item named current is marked active
// and links to "#" unless linkToSelf is set.
func (r *Renderer) NavBar(current string, linkToSelf bool) (template.HTML, error) {
	return r.execute("nav", r.navItems(current, linkToSelf))
}

// Page renders a complete document around the view's entries.
func (r *Renderer) Page(view ports.PageView) (template.HTML, error) {
	nav, err := r.NavBar(view.Current, view.LinkToSelf)
	if err != nil {
		return "", err
	}

	body, err := r.Entries(view.Entries)
	if err != nil {
		return "", err
	}

	title := r.cfg.SiteTitle
	if view.Title != "" && view.Title != title {
		title = view.Title + " - " + r.cfg.SiteTitle
	}

	return r.execute("page", pageData{
		Title:    title,
		Nav:      nav,
		Body:     body,
		PrevHref: view.PrevHref,
		NextHref: view.NextHref,
	})
}

func (r *Renderer) navItems(current string, linkToSelf bool) []navItem {
	items := make([]navItem, 0, len(r.cfg.Nav))

	for _, p := range r.cfg.Nav {
		item := navItem{Name: p.Name, Href: p.URL, Active: p.Name == current}
		if item.Active && !linkToSelf {
			item.Href = "#"
		}

		items = append(items, item)
	}

	return items
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer

	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
}

// withQuery appends key=value to base, keeping any query base already has.
func withQuery(base, key, value string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + url.Values{key: {value}}.Encode()
	}

	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	return u.String()
}
