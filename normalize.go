package blogfront

import "strconv"

// ListingExcerptLen is the excerpt budget on listing cards; the
// prerenderer uses the longer PrerenderExcerptLen for meta descriptions.
const (
	ListingExcerptLen   = 110
	PrerenderExcerptLen = 160
)

// Normalizer converts raw CMS post records into the internal Post model.
// It is a pure mapping: no I/O, no mutation of its input, and it never
// fails — every malformed field degrades to a documented default.
type Normalizer struct {
	ExcerptLen       int
	LegacyAssetHost  string
	AssetHost        string
	PlaceholderImage string
}

// NewNormalizer builds a Normalizer with the listing excerpt budget.
func NewNormalizer(cfg SiteConfig) Normalizer {
	return Normalizer{
		ExcerptLen:       ListingExcerptLen,
		LegacyAssetHost:  cfg.LegacyAssetHost,
		AssetHost:        cfg.AssetHost,
		PlaceholderImage: cfg.PlaceholderImage,
	}
}

// Normalize maps one raw CMS record to a Post.
func (n Normalizer) Normalize(raw rawPost) Post {
	p := Post{
		ID:       strconv.Itoa(raw.ID),
		Slug:     raw.Slug,
		Title:    StripTags(raw.Title.Rendered),
		Excerpt:  Truncate(StripTags(raw.Excerpt.Rendered), n.ExcerptLen),
		Content:  raw.Content.Rendered,
		Category: n.category(raw),
		Link:     raw.Link,
		ReadTime: ReadTime(raw.Content.Rendered),
		Modified: firstDatePart(raw.Modified),
	}

	if t, ok := ParseCMSDate(raw.Date); ok {
		p.Date = FormatArabicDate(t)
		p.PublishedAt = t
	} else {
		// Never fail on a bad date: show whatever the CMS sent.
		p.Date = raw.Date
	}

	p.ImageURL = n.image(raw)
	return p
}

// category returns the first embedded term name that exactly matches one
// of the four fixed categories. Exact string equality only — no fuzzy or
// partial matching — so an unexpected term can never land outside the
// closed set.
func (n Normalizer) category(raw rawPost) Category {
	// The first wp:term group holds category terms; later groups are tags
	// and post formats, which must not influence the mapping.
	if len(raw.Embedded.Terms) == 0 {
		return CategoryMisc
	}
	for _, c := range Categories {
		for _, term := range raw.Embedded.Terms[0] {
			if term.Name == string(c) {
				return c
			}
		}
	}
	return CategoryMisc
}

func (n Normalizer) image(raw rawPost) string {
	if len(raw.Embedded.FeaturedMedia) == 0 || raw.Embedded.FeaturedMedia[0].SourceURL == "" {
		return n.PlaceholderImage
	}
	return RewriteAssetHost(raw.Embedded.FeaturedMedia[0].SourceURL, n.LegacyAssetHost, n.AssetHost)
}

// firstDatePart trims a timestamp like "2024-01-15T10:30:00" to its date
// component for sitemap lastmod.
func firstDatePart(s string) string {
	for i, r := range s {
		if r == 'T' {
			return s[:i]
		}
	}
	return s
}
