package blogfront

import (
	"encoding/xml"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

func buildSitemap(base string, posts []Post) sitemapURLSet {
	urls := []sitemapURL{
		{Loc: base + "/", Priority: "1.0"},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:      BuildURL(base, "post", p.Slug),
			LastMod:  p.Modified,
			Priority: "0.8",
		})
	}
	return sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
}

// WriteSitemap emits the sitemap XML for posts to w. Shared between the
// live /sitemap.xml handler and the prerenderer.
func WriteSitemap(w io.Writer, base string, posts []Post) error {
	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(buildSitemap(base, posts))
}

func (a *App) renderSitemap(c echo.Context, posts []Post) error {
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return WriteSitemap(c.Response(), a.Config.URL, posts)
}

// RobotsTxt returns the robots.txt body: allow everything, point crawlers
// at the sitemap.
func RobotsTxt(base string) string {
	return "User-agent: *\nAllow: /\nSitemap: " + base + "/sitemap.xml\n"
}
