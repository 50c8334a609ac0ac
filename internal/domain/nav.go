package domain

// NavPage is one link in the site navigation bar.
type NavPage struct {
	Name string
	URL  string
}

// DefaultNavPages returns the site's standard navigation links.
func DefaultNavPages() []NavPage {
	return []NavPage{
		{Name: "Home", URL: "index.html"},
		{Name: "Blog", URL: "blog.html"},
		{Name: "Media", URL: "media.html"},
		{Name: "Press", URL: "press/index.php"},
	}
}
