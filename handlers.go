package blogfront

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/asmari/blogfront/ai"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()

	// Legacy query form ?p={id}: canonicalize with a permanent redirect so
	// the visible address is replaced, not pushed.
	if c.QueryParam("p") != "" {
		res := Resolve("/", c.Request().URL.Query(), a.Cache.Index(ctx))
		if res.Kind == KindPostDetail {
			return c.Redirect(http.StatusMovedPermanently, res.Path)
		}
		return c.Redirect(http.StatusFound, "/")
	}

	posts := a.Cache.Posts(ctx)
	prefs := ReadPreferences(c)

	state := NewViewState()
	state.ReplacePosts(posts)

	// A bare / always shows everything; the favorite category only marks
	// its chip in the nav, it never filters on the reader's behalf.
	active := CategoryAll
	if cat := Category(c.QueryParam("cat")); cat != "" {
		// Unknown category names leave the filter off.
		for _, known := range Categories {
			if cat == known {
				active = cat
			}
		}
	}
	state.SetCategory(active)

	order := ParseSortOrder(c.QueryParam("sort"))
	state.SetSort(order)

	query := c.QueryParam("q")
	state.BeginSearch(query)

	notice := ""
	if len(posts) == 0 {
		notice = "تعذّر الوصول إلى المدونة حالياً."
	}

	return a.Renderer.Render(c, http.StatusOK, "home.html", Page{
		Site:       a.Config,
		Head:       a.headFor(nil),
		Categories: Categories,
		Active:     active,
		Sort:       order,
		Query:      query,
		Greeting:   ai.DefaultGreeting,
		Posts:      state.Visible(),
		Prefs:      prefs,
		Notice:     notice,
	})
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	ix := a.Cache.Index(ctx)

	res := Resolve("/post/"+c.Param("slug"), nil, ix)
	if res.Kind != KindPostDetail {
		// Unknown slug falls through to the listing.
		return c.Redirect(http.StatusFound, "/")
	}

	return a.Renderer.Render(c, http.StatusOK, "post.html", Page{
		Site:       a.Config,
		Head:       a.headFor(res.Post),
		Categories: Categories,
		Active:     res.Post.Category,
		Post:       res.Post,
		Prefs:      ReadPreferences(c),
	})
}

// handleShortLink serves the historical /p/{id} form. A resolvable id is
// permanently redirected to the canonical /post/{slug}; anything else
// falls through to the listing.
func (a *App) handleShortLink(c echo.Context) error {
	ix := a.Cache.Index(c.Request().Context())
	res := Resolve("/p/"+c.Param("id"), nil, ix)
	if res.Action == ActionReplace {
		return c.Redirect(http.StatusMovedPermanently, res.Path)
	}
	return c.Redirect(http.StatusFound, "/")
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Cache.Posts(c.Request().Context()))
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Cache.Posts(c.Request().Context()))
}

func (a *App) handleRobots(c echo.Context) error {
	return c.String(http.StatusOK, RobotsTxt(a.Config.URL))
}

// handleGreeting returns the AI greeting for a category as JSON. The
// client refreshes the greeting card on category switches without a full
// page load.
func (a *App) handleGreeting(c echo.Context) error {
	if !a.aiLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}
	cat := Category(c.QueryParam("category"))
	greeting := a.AI.Greeting(c.Request().Context(), string(categoryOrDefault(cat)))
	return c.JSON(http.StatusOK, map[string]string{"greeting": greeting})
}

// handleSearch runs the semantic search and returns the ranked matches.
// Failures surface as an empty result set, never as an error status.
func (a *App) handleSearch(c echo.Context) error {
	if !a.aiLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}
	query := c.QueryParam("q")
	posts := a.Cache.Posts(c.Request().Context())

	docs := make([]ai.Document, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, ai.Document{
			ID:       p.ID,
			Title:    p.Title,
			Excerpt:  p.Excerpt,
			Category: string(p.Category),
		})
	}

	matches := a.AI.Search(c.Request().Context(), query, docs)
	if matches == nil {
		matches = []ai.Match{}
	}
	return c.JSON(http.StatusOK, matches)
}

// handleSummary condenses one post into a single sentence. An empty
// summary means the model is unavailable; the client keeps the excerpt.
func (a *App) handleSummary(c echo.Context) error {
	if !a.aiLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
	}
	ix := a.Cache.Index(c.Request().Context())
	post := ix.ByID(c.QueryParam("id"))
	if post == nil {
		return c.JSON(http.StatusOK, map[string]string{"summary": ""})
	}
	summary := a.AI.Summarize(c.Request().Context(), StripTags(post.Content))
	return c.JSON(http.StatusOK, map[string]string{"summary": summary})
}

func (a *App) handleSavePrefs(c echo.Context) error {
	prefs := ReadPreferences(c)
	if theme := c.FormValue("theme"); theme == "light" || theme == "dark" {
		prefs.Theme = theme
	}
	if cat := Category(c.FormValue("favorite")); cat != "" {
		for _, known := range Categories {
			if cat == known {
				prefs.FavoriteCategory = cat
			}
		}
		if cat == CategoryAll {
			prefs.FavoriteCategory = CategoryAll
		}
	}
	if err := SavePreferences(c, prefs); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// categoryOrDefault maps the الكل sentinel to a concrete category the
// greeting prompt can use.
func categoryOrDefault(c Category) Category {
	if c == "" || c == CategoryAll {
		return CategoryReflections
	}
	return c
}

func (a *App) headFor(post *Post) *MemoryHead {
	head := NewMemoryHead()
	NewSynchronizer(a.Config, head).Apply(post)
	return head
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
	}
	if code == http.StatusNotFound {
		// Unknown URLs are not an error surface; show the listing.
		_ = c.Redirect(http.StatusFound, "/")
		return
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	a.Renderer.RenderError(c, code, Page{
		Site: a.Config,
		Head: a.headFor(nil),
	})
}
