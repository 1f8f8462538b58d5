package blogfront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asmari/blogfront/ai"
)

func newTestApp(t *testing.T, posts []Post) *App {
	t.Helper()
	cfg := SiteConfig{SessionSecret: "test-secret"}
	cfg.setDefaults()

	a := New(cfg)
	renderer, err := NewRenderer()
	require.NoError(t, err)
	a.Renderer = renderer
	a.Cache = NewPostCache(&fakeSource{posts: posts}, time.Hour)
	a.AI = ai.NewClient(context.Background(), "", "")
	a.aiLimiter = NewRateLimiter(100, time.Minute)
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

func handlerTestPosts() []Post {
	return []Post{
		{
			ID: "42", Slug: "my-post", Title: "X",
			Excerpt: "مقتطف", Content: "<p>المحتوى</p>",
			Category: CategoryFilms, Date: "15 يناير 2024",
			ImageURL:    "https://cms.asmari.me/pic.jpg",
			PublishedAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Modified:    "2024-02-01",
		},
		{
			ID: "7", Slug: "second", Title: "مقال ثانٍ",
			Excerpt: "مقتطف آخر", Category: CategoryReflections,
			PublishedAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}

func doGet(a *App, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func TestHomeListsAllPosts(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "X")
	assert.Contains(t, body, "مقال ثانٍ")
	assert.Contains(t, body, "الكل")
}

func TestHomeCategoryFilter(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/?cat="+url.QueryEscape("أفلام"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-id="42"`)
	assert.NotContains(t, body, `data-id="7"`)
}

func TestPostDetailSetsHead(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/post/my-post")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>X | "+a.Config.Name+"</title>")
	assert.Contains(t, body, `<meta property="og:type" content="article">`)
	assert.Contains(t, body, `rel="canonical" href="`+a.Config.URL+`/post/my-post"`)
}

func TestUnknownSlugFallsThroughToListing(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/post/unknown-slug")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestShortLinkPermanentRedirect(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/p/42")

	require.Equal(t, http.StatusMovedPermanently, rec.Code,
		"canonicalization is a replace, so the redirect must be permanent")
	assert.Equal(t, "/post/my-post", rec.Header().Get("Location"))
}

func TestShortLinkUnknownIDGoesHome(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/p/999")

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestLegacyQueryRedirects(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/?p=42")

	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/post/my-post", rec.Header().Get("Location"))
}

func TestSitemap(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/sitemap.xml")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>"+a.Config.URL+"/post/my-post</loc>")
	assert.Contains(t, body, "<lastmod>2024-02-01</lastmod>")
}

func TestRobots(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/robots.txt")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: "+a.Config.URL+"/sitemap.xml")
}

func TestFeed(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/feed.xml")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<rss")
	assert.Contains(t, rec.Body.String(), "/post/my-post")
}

func TestGreetingDegradesToDefault(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/api/greeting?category="+url.QueryEscape("أفلام"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ai.DefaultGreeting)
}

func TestSearchDegradesToEmptySet(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/api/search?q=whatever")

	require.Equal(t, http.StatusOK, rec.Code, "AI failures must never surface as error statuses")
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSearchRateLimited(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	a.aiLimiter = NewRateLimiter(1, time.Minute)

	doGet(a, "/api/search?q=one")
	rec := doGet(a, "/api/search?q=two")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestEmptyCMSShowsNotice(t *testing.T) {
	a := newTestApp(t, nil)
	rec := doGet(a, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "تعذّر الوصول إلى المدونة")
}

func TestSavePrefsRoundTrip(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())

	form := strings.NewReader("theme=light&favorite=" + url.QueryEscape("أفلام"))
	req := httptest.NewRequest(http.MethodPost, "/prefs", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), `data-theme="light"`)
}

func TestSummaryDegradesToEmpty(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/api/summary?id=42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"summary":""`)
}

func TestSummaryUnknownPost(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())
	rec := doGet(a, "/api/summary?id=999")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"summary":""`)
}

func TestFavoriteCategoryDoesNotFilterBareListing(t *testing.T) {
	a := newTestApp(t, handlerTestPosts())

	form := strings.NewReader("favorite=" + url.QueryEscape("أفلام"))
	req := httptest.NewRequest(http.MethodPost, "/prefs", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)

	body := rec.Body.String()
	// A bare / shows every post even for a returning visitor with a
	// favorite; the favorite only marks its chip.
	assert.Contains(t, body, `data-id="42"`)
	assert.Contains(t, body, `data-id="7"`)
	assert.Contains(t, body, `class="favorite"`)
}
