package blogfront

import (
	"regexp"
	"sort"
	"strings"
)

// MetaTag is one document-head tag. Attr is "property" for OpenGraph tags
// and "name" for everything else.
type MetaTag struct {
	Attr    string
	Key     string
	Content string
}

// Head is the complete document-head state for a view: title, canonical
// link, and social-sharing meta tags. It is a plain value, so building it
// twice from the same input yields the same head.
type Head struct {
	Title     string
	Canonical string
	Tags      []MetaTag
}

// DocumentHead abstracts the mutable document head so the synchronizer can
// be exercised against an in-memory implementation in tests and against
// templates or prerendered HTML in production.
type DocumentHead interface {
	// Reset clears managed head state before a new view is applied. Post
	// views carry tags (og:image, twitter:*) the listing head does not, so
	// setting keys alone would leave them stale after leaving a post.
	Reset()
	SetTitle(title string)
	SetCanonical(href string)
	SetMeta(attr, key, content string)
}

// Synchronizer reflects the resolved view into a DocumentHead. Applying
// the same input repeatedly is idempotent: tags are keyed, never appended
// blindly, and leaving a post view restores the site defaults.
type Synchronizer struct {
	cfg SiteConfig
	doc DocumentHead
}

// NewSynchronizer builds a Synchronizer targeting doc.
func NewSynchronizer(cfg SiteConfig, doc DocumentHead) *Synchronizer {
	return &Synchronizer{cfg: cfg, doc: doc}
}

// Apply sets the head for post, or the site defaults when post is nil.
func (s *Synchronizer) Apply(post *Post) {
	s.applyHead(HeadFor(post, s.cfg))
}

func (s *Synchronizer) applyHead(h Head) {
	s.doc.Reset()
	s.doc.SetTitle(h.Title)
	s.doc.SetCanonical(h.Canonical)
	for _, t := range h.Tags {
		s.doc.SetMeta(t.Attr, t.Key, t.Content)
	}
}

// HeadFor builds the head for a post view, or the default head when post
// is nil.
func HeadFor(post *Post, cfg SiteConfig) Head {
	if post == nil {
		return defaultHead(cfg)
	}
	u := BuildURL(cfg.URL, "post", post.Slug)
	desc := Truncate(post.Excerpt, PrerenderExcerptLen)
	h := Head{
		Title:     post.Title + " | " + cfg.Name,
		Canonical: u,
		Tags: []MetaTag{
			{Attr: "name", Key: "description", Content: desc},
			{Attr: "property", Key: "og:title", Content: post.Title},
			{Attr: "property", Key: "og:description", Content: desc},
			{Attr: "property", Key: "og:image", Content: post.ImageURL},
			{Attr: "property", Key: "og:url", Content: u},
			{Attr: "property", Key: "og:type", Content: "article"},
			{Attr: "name", Key: "twitter:card", Content: "summary_large_image"},
			{Attr: "name", Key: "twitter:title", Content: post.Title},
			{Attr: "name", Key: "twitter:description", Content: desc},
			{Attr: "name", Key: "twitter:image", Content: post.ImageURL},
		},
	}
	if cfg.Author != "" {
		h.Tags = append(h.Tags, MetaTag{Attr: "name", Key: "author", Content: cfg.Author})
	}
	return h
}

func defaultHead(cfg SiteConfig) Head {
	return Head{
		Title:     cfg.Name,
		Canonical: cfg.URL,
		Tags: []MetaTag{
			{Attr: "name", Key: "description", Content: cfg.Description},
			{Attr: "property", Key: "og:title", Content: cfg.Name},
			{Attr: "property", Key: "og:description", Content: cfg.Description},
			{Attr: "property", Key: "og:url", Content: cfg.URL},
			{Attr: "property", Key: "og:type", Content: "website"},
			{Attr: "name", Key: "twitter:card", Content: "summary"},
		},
	}
}

// MemoryHead is the in-memory DocumentHead used by tests and by the
// HTML renderer, which serializes it into the page template.
type MemoryHead struct {
	Title     string
	Canonical string
	Meta      map[string]string // "attr|key" -> content
}

// NewMemoryHead returns an empty MemoryHead.
func NewMemoryHead() *MemoryHead {
	return &MemoryHead{Meta: make(map[string]string)}
}

// Reset drops all head state so the next Apply starts clean.
func (m *MemoryHead) Reset() {
	m.Title = ""
	m.Canonical = ""
	m.Meta = make(map[string]string)
}

func (m *MemoryHead) SetTitle(title string)   { m.Title = title }
func (m *MemoryHead) SetCanonical(href string) { m.Canonical = href }

func (m *MemoryHead) SetMeta(attr, key, content string) {
	m.Meta[attr+"|"+key] = content
}

// Render serializes the head as deterministic HTML (tags sorted by key),
// suitable for direct inclusion in a page template head.
func (m *MemoryHead) Render() string {
	var b strings.Builder
	b.WriteString("<title>" + escapeAttr(m.Title) + "</title>")
	if m.Canonical != "" {
		b.WriteString(`<link rel="canonical" href="` + escapeAttr(m.Canonical) + `">`)
	}
	keys := make([]string, 0, len(m.Meta))
	for k := range m.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attr, name, _ := strings.Cut(k, "|")
		b.WriteString(`<meta ` + attr + `="` + escapeAttr(name) + `" content="` + escapeAttr(m.Meta[k]) + `">`)
	}
	return b.String()
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;")
	return r.Replace(s)
}

var (
	titlePattern     = regexp.MustCompile(`<title>.*?</title>`)
	canonicalPattern = regexp.MustCompile(`<link rel="canonical"[^>]*>`)
	metaPattern      = regexp.MustCompile(`<meta (?:name|property)="(?:description|author|og:[a-z:]+|twitter:[a-z:]+)"[^>]*>`)
)

// InjectHead rewrites the head of an already-rendered HTML document:
// previously injected SEO tags are stripped and the title element is
// replaced with the serialized head. Injecting the same head twice yields
// byte-identical output, which is what lets the prerenderer re-run over
// its own output.
func InjectHead(html string, head Head) string {
	m := NewMemoryHead()
	m.SetTitle(head.Title)
	m.SetCanonical(head.Canonical)
	for _, t := range head.Tags {
		m.SetMeta(t.Attr, t.Key, t.Content)
	}
	html = metaPattern.ReplaceAllString(html, "")
	html = canonicalPattern.ReplaceAllString(html, "")
	return titlePattern.ReplaceAllString(html, m.Render())
}
