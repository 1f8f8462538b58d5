// Package blogfront is the web front-end for a personal blog whose
// content lives in a headless WordPress instance. It renders listing and
// post views server-side, keeps three generations of post URL schemes
// resolvable, augments the experience with AI greetings and semantic
// search, and ships a build-time prerenderer for SEO.
package blogfront

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/asmari/blogfront/ai"
	"github.com/asmari/blogfront/analytics"
)

// App wires together the CMS client, post cache, AI client, analytics,
// renderer, and HTTP routes.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Client   *Client
	Cache    *PostCache
	AI       *ai.Client
	Renderer *Renderer

	aiLimiter      *RateLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	staticDir      string
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the CMS client, cache, AI client, analytics,
// middleware, and routes, then starts the server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("blogfront: SessionSecret is required")
	}

	renderer, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("blogfront: init renderer: %w", err)
	}
	a.Renderer = renderer

	if a.Client == nil {
		a.Client = NewClient(a.Config)
	}
	a.Cache = NewPostCache(a.Client, a.Config.PostCacheTTL)
	a.AI = ai.NewClient(context.Background(), a.Config.GeminiAPIKey, a.Config.GeminiModel)
	a.aiLimiter = NewRateLimiter(20, time.Minute)

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("blogfront: init analytics: %w", err)
		}
		a.analyticsStore = store
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Warm the cache before accepting traffic so an inbound /p/{id} or
	// /post/{slug} deep link on the very first request resolves instead
	// of falling through to the listing.
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a.Cache.Warm(warmCtx)
	cancel()

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	if a.analyticsStore != nil {
		e.Use(analytics.Middleware(a.analyticsStore))
	}

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/post/:slug", a.handlePost)
	e.GET("/p/:id", a.handleShortLink)

	e.POST("/prefs", a.handleSavePrefs)

	e.GET("/api/greeting", a.handleGreeting)
	e.GET("/api/search", a.handleSearch)
	e.GET("/api/summary", a.handleSummary)

	if a.analyticsStore != nil {
		e.GET("/api/stats", analytics.NewHandler(a.analyticsStore).Stats)
	}
}

// Close cleans up resources. Call when the app is shutting down.
func (a *App) Close() error {
	if a.analyticsStore != nil {
		return a.analyticsStore.Close()
	}
	return nil
}
