package blogfront

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	mirrorMaxWidth  = 800
	mirrorQuality   = 80
	mirrorAssetsDir = "assets"
)

// Prerenderer emits the crawler-facing static site: one HTML document per
// slug under post/{slug}/index.html with embedded SEO tags, a sitemap,
// and a robots.txt referencing it. It runs at build time, independent of
// the live server, against the same normalizer and templates.
type Prerenderer struct {
	cfg      SiteConfig
	client   *Client
	renderer *Renderer
	httpc    *http.Client

	// MirrorImages downloads each featured image into the output dir,
	// resized to the card width, and points the prerendered pages at the
	// local copy.
	MirrorImages bool
}

// NewPrerenderer builds a Prerenderer for cfg.
func NewPrerenderer(cfg SiteConfig) (*Prerenderer, error) {
	cfg.setDefaults()
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	client := NewClient(cfg)
	// Prerender meta descriptions get the longer excerpt budget.
	client.norm.ExcerptLen = PrerenderExcerptLen
	return &Prerenderer{
		cfg:      cfg,
		client:   client,
		renderer: renderer,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run fetches every post and writes the static site into cfg.OutputDir.
func (p *Prerenderer) Run(ctx context.Context) error {
	posts, err := p.client.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("prerender: %w", err)
	}
	log.Printf("prerender: %d posts fetched", len(posts))

	out := p.cfg.OutputDir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	if p.MirrorImages {
		for i := range posts {
			local, err := p.mirrorImage(ctx, posts[i])
			if err != nil {
				log.Printf("prerender: mirror image for %s: %v (keeping remote URL)", posts[i].Slug, err)
				continue
			}
			posts[i].ImageURL = local
		}
	}

	if err := p.writeListing(posts); err != nil {
		return err
	}

	for _, post := range posts {
		if err := p.writePost(post, posts); err != nil {
			return fmt.Errorf("prerender %s: %w", post.Slug, err)
		}
		log.Printf("prerender: %s", post.Slug)
	}

	if err := p.writeSitemap(posts); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, "robots.txt"), []byte(RobotsTxt(p.cfg.URL)), 0o644); err != nil {
		return err
	}
	log.Printf("prerender: done, output in %s", out)
	return nil
}

func (p *Prerenderer) writeListing(posts []Post) error {
	state := NewViewState()
	state.ReplacePosts(posts)

	var buf bytes.Buffer
	err := p.renderer.RenderPage(&buf, "home.html", Page{
		Site:       p.cfg,
		Head:       p.headFor(nil),
		Categories: Categories,
		Active:     CategoryAll,
		Sort:       SortNewest,
		Posts:      state.Visible(),
		Greeting:   "أهلاً بك في مدونتي.",
		Prefs:      DefaultPreferences,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(p.cfg.OutputDir, "index.html"), buf.Bytes(), 0o644)
}

func (p *Prerenderer) writePost(post Post, all []Post) error {
	var buf bytes.Buffer
	err := p.renderer.RenderPage(&buf, "post.html", Page{
		Site:       p.cfg,
		Head:       p.headFor(nil),
		Categories: Categories,
		Active:     post.Category,
		Post:       &post,
		Prefs:      DefaultPreferences,
	})
	if err != nil {
		return err
	}

	// The shell renders with the default head; the post-specific SEO tags
	// are injected afterwards so re-running the build over existing output
	// is byte-stable.
	html := InjectHead(buf.String(), HeadFor(&post, p.cfg))

	dir := filepath.Join(p.cfg.OutputDir, "post", post.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "index.html"), []byte(html), 0o644)
}

func (p *Prerenderer) writeSitemap(posts []Post) error {
	f, err := os.Create(filepath.Join(p.cfg.OutputDir, "sitemap.xml"))
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteSitemap(f, p.cfg.URL, posts)
}

func (p *Prerenderer) headFor(post *Post) *MemoryHead {
	head := NewMemoryHead()
	NewSynchronizer(p.cfg, head).Apply(post)
	return head
}

// mirrorImage downloads a post's featured image, scales it down to the
// card width, and writes it as JPEG under assets/. Returns the site-local
// URL of the copy.
func (p *Prerenderer) mirrorImage(ctx context.Context, post Post) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, post.ImageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > mirrorMaxWidth {
		newH := h * mirrorMaxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, mirrorMaxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: mirrorQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	dir := filepath.Join(p.cfg.OutputDir, mirrorAssetsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := post.Slug + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return "/" + mirrorAssetsDir + "/" + name, nil
}
