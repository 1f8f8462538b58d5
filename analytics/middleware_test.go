package analytics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackedEcho(t *testing.T, s *Store) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(Middleware(s))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }
	e.GET("/", ok)
	e.GET("/post/:slug", ok)
	e.GET("/feed.xml", ok)
	e.GET("/missing", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/")
	})
	e.POST("/prefs", func(c echo.Context) error {
		return c.NoContent(http.StatusSeeOther)
	})
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareRecordsPageViews(t *testing.T) {
	s := newTestStore(t)
	e := newTrackedEcho(t, s)

	serve(e, http.MethodGet, "/")
	serve(e, http.MethodGet, "/post/my-post")
	serve(e, http.MethodGet, "/post/my-post")

	top, err := s.TopPages(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, PageCount{Path: "/post/my-post", Count: 2}, top[0])
	assert.Equal(t, PageCount{Path: "/", Count: 1}, top[1])
}

func TestMiddlewareSkipsUntrackedTraffic(t *testing.T) {
	s := newTestStore(t)
	e := newTrackedEcho(t, s)

	serve(e, http.MethodGet, "/feed.xml")
	serve(e, http.MethodGet, "/missing") // redirect, not a page view
	serve(e, http.MethodPost, "/prefs")

	n, err := s.Total()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatsHandler(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordView("/post/a"))

	e := echo.New()
	e.GET("/api/stats", NewHandler(s).Stats)

	rec := serve(e, http.MethodGet, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)
	assert.Contains(t, rec.Body.String(), `"/post/a"`)
}
