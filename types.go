package blogfront

import "time"

// Category is the fixed editorial taxonomy of the blog. The CMS may carry
// arbitrary category terms; anything that does not exactly match one of
// these four collapses to CategoryMisc during normalization.
type Category string

const (
	CategoryAnnouncements Category = "إعلانات"
	CategoryFilms         Category = "أفلام"
	CategoryReflections   Category = "تأملات"
	CategoryMisc          Category = "منوعات"

	// CategoryAll is the listing-filter sentinel, not a real category.
	CategoryAll Category = "الكل"
)

// Categories lists the four real categories in display order.
var Categories = []Category{
	CategoryAnnouncements,
	CategoryFilms,
	CategoryReflections,
	CategoryMisc,
}

// Post is the canonical internal representation of a blog post. Every Post
// handed to a view or template has already passed through the normalizer:
// category mapped, date formatted, excerpt truncated, image host rewritten.
// Raw CMS payloads never cross that boundary.
type Post struct {
	ID       string // string form of the CMS numeric id, kept for legacy URLs
	Slug     string // canonical routing identifier
	Title    string
	Excerpt  string
	Content  string // rendered HTML from the CMS
	Category Category
	Date     string // localized display string
	ImageURL string
	Link     string // original CMS permalink, fallback/debugging only
	ReadTime string

	// PublishedAt backs the newest-first sort. Zero when the CMS date
	// failed to parse; such posts sort last.
	PublishedAt time.Time

	// Modified is the CMS modification date (YYYY-MM-DD), used as
	// sitemap lastmod.
	Modified string
}
