package blogfront

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// SiteConfig holds all configuration for the blog front-end.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "مسودّة سلمان الأسمري")
	URL         string `yaml:"url"`         // Canonical public URL
	Description string `yaml:"description"` // Site description for feeds and meta tags
	Author      string `yaml:"author"`      // Author name for the feed and the author meta tag

	Addr string `yaml:"addr"` // Listen address (default ":3000")

	APIBase          string `yaml:"api_base"`          // Headless WordPress origin
	LegacyAssetHost  string `yaml:"legacy_asset_host"` // Old content domain, rewritten in image URLs
	AssetHost        string `yaml:"asset_host"`        // Current canonical asset domain
	PlaceholderImage string `yaml:"placeholder_image"` // Used when a post has no featured media
	PerPage          int    `yaml:"per_page"`          // Listing page size

	GeminiAPIKey string `yaml:"-"` // From env only, never from the yaml file
	GeminiModel  string `yaml:"gemini_model"`

	SessionSecret string `yaml:"-"` // Cookie session encryption secret, env only
	CookieSecure  bool   `yaml:"cookie_secure"`

	AnalyticsEnabled      bool   `yaml:"analytics_enabled"`
	AnalyticsDatabasePath string `yaml:"analytics_database_path"`

	OutputDir string `yaml:"output_dir"` // Prerender output (default "dist")

	PostCacheTTL time.Duration `yaml:"post_cache_ttl"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "مسودّة سلمان الأسمري"
	}
	if c.URL == "" {
		c.URL = "https://blog.asmari.me"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.APIBase == "" {
		c.APIBase = "https://cms.asmari.me"
	}
	if c.AssetHost == "" {
		c.AssetHost = "cms.asmari.me"
	}
	if c.LegacyAssetHost == "" {
		c.LegacyAssetHost = "asmari.me"
	}
	if c.PlaceholderImage == "" {
		c.PlaceholderImage = "https://images.unsplash.com/photo-1499750310107-5fef28a66643?q=80&w=800&auto=format&fit=crop"
	}
	if c.PerPage == 0 {
		c.PerPage = 12
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-3-flash-preview"
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// LoadConfig builds a SiteConfig from an optional yaml file overlaid with
// environment variables. A missing file is not an error: everything has a
// default or an env override.
func LoadConfig(path string) (SiteConfig, error) {
	var cfg SiteConfig

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, err
			}
		} else if !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Println("blogfront: no .env file, using process environment")
	}

	cfg.Name = EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = EnvOr("SITE_URL", cfg.URL)
	cfg.Description = EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Addr = EnvOr("ADDR", cfg.Addr)
	cfg.APIBase = EnvOr("WP_API_BASE", cfg.APIBase)
	cfg.GeminiAPIKey = EnvOr("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.SessionSecret = EnvOr("SESSION_SECRET", cfg.SessionSecret)
	if v := os.Getenv("ANALYTICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AnalyticsEnabled = b
		}
	}

	cfg.setDefaults()
	return cfg, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("blogfront: required environment variable %s is not set", key)
	}
	return v
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
