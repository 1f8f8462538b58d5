package blogfront

import (
	"fmt"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes all markup tags and decodes HTML entities. This is a
// simple single-pass strip, not an HTML sanitizer; it is only used on text
// destined for plain-text contexts (excerpts, titles in meta tags).
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
}

// Truncate cuts s to at most max runes and appends an ellipsis when
// anything was cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	return u.String()
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// wpDateLayouts covers the timestamp shapes WordPress emits: bare local
// time in the REST payload, and RFC3339 when the site is configured with
// a timezone offset.
var wpDateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseCMSDate parses a WordPress timestamp. ok is false when no known
// layout matched.
func ParseCMSDate(s string) (time.Time, bool) {
	for _, layout := range wpDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatArabicDate renders t as an Arabic Gregorian calendar string,
// e.g. "15 يناير 2024".
func FormatArabicDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), arabicMonths[t.Month()-1], t.Year())
}

// ReadTime estimates reading time for rendered HTML content at 180 words
// per minute, matching the listing badge shown next to each post.
func ReadTime(content string) string {
	words := len(strings.Fields(StripTags(content)))
	minutes := (words + 179) / 180
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d دقائق قراءة", minutes)
}

// RewriteAssetHost replaces the legacy content domain in rawURL with the
// canonical asset domain. Unparseable URLs fall back to plain string
// replacement.
func RewriteAssetHost(rawURL, legacyHost, assetHost string) string {
	if rawURL == "" || legacyHost == "" || legacyHost == assetHost {
		return rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.Replace(rawURL, "//"+legacyHost, "//"+assetHost, 1)
	}
	if u.Host == legacyHost {
		u.Host = assetHost
		return u.String()
	}
	return rawURL
}
