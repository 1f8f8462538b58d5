package blogfront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// rawPost mirrors the WordPress REST post object, with _embed inlining
// featured media and taxonomy terms. This type never leaves the
// normalization boundary.
type rawPost struct {
	ID       int      `json:"id"`
	Slug     string   `json:"slug"`
	Date     string   `json:"date"`
	Modified string   `json:"modified"`
	Link     string   `json:"link"`
	Title    rendered `json:"title"`
	Excerpt  rendered `json:"excerpt"`
	Content  rendered `json:"content"`
	Embedded struct {
		Terms [][]struct {
			Name string `json:"name"`
		} `json:"wp:term"`
		FeaturedMedia []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
	} `json:"_embedded"`
}

type rendered struct {
	Rendered string `json:"rendered"`
}

const totalPagesHeader = "X-WP-TotalPages"

// Client fetches posts from the headless WordPress instance. Two endpoint
// shapes are tried in order: the conventional REST path and the
// query-string-routed path some hosts require when pretty permalinks are
// off. There is no retry or backoff beyond that fixed list.
type Client struct {
	endpoints []string
	httpc     *http.Client
	norm      Normalizer
	perPage   int
}

// NewClient builds a Client for the configured CMS origin.
func NewClient(cfg SiteConfig) *Client {
	return &Client{
		endpoints: []string{
			cfg.APIBase + "/wp-json/wp/v2/posts",
			cfg.APIBase + "/?rest_route=/wp/v2/posts",
		},
		httpc:   &http.Client{Timeout: 15 * time.Second},
		norm:    NewNormalizer(cfg),
		perPage: cfg.PerPage,
	}
}

// SetHTTPClient overrides the underlying HTTP client. Tests use this to
// point at a local server.
func (c *Client) SetHTTPClient(h *http.Client) { c.httpc = h }

// FetchPage fetches one page of posts. totalPages comes from the
// X-WP-TotalPages response header (1 when absent). An error is returned
// only when every endpoint shape failed.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (posts []Post, totalPages int, err error) {
	var lastErr error
	for _, endpoint := range c.endpoints {
		raw, total, err := c.fetchRaw(ctx, endpoint, page, perPage)
		if err != nil {
			lastErr = err
			continue
		}
		posts := make([]Post, 0, len(raw))
		for _, r := range raw {
			posts = append(posts, c.norm.Normalize(r))
		}
		return posts, total, nil
	}
	return nil, 0, fmt.Errorf("fetch posts page %d: %w", page, lastErr)
}

// FetchPosts fetches the first listing page. It never returns an error:
// on total failure the result is an empty slice and the caller decides
// how to present the absence of content.
func (c *Client) FetchPosts(ctx context.Context) []Post {
	posts, _, err := c.FetchPage(ctx, 1, c.perPage)
	if err != nil {
		return nil
	}
	return posts
}

// FetchAll loops pages until the collection is exhausted, accumulating
// results. Used by the prerenderer, which needs every post.
func (c *Client) FetchAll(ctx context.Context) ([]Post, error) {
	const perPage = 100
	var all []Post
	for page := 1; ; page++ {
		posts, totalPages, err := c.FetchPage(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		all = append(all, posts...)
		if page >= totalPages || len(posts) == 0 {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchRaw(ctx context.Context, endpoint string, page, perPage int) ([]rawPost, int, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, 0, err
	}
	q := u.Query()
	q.Set("_embed", "1")
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, 0, fmt.Errorf("cms returned %s", resp.Status)
	}

	var raw []rawPost
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, 0, fmt.Errorf("decode cms response: %w", err)
	}

	totalPages := 1
	if v := resp.Header.Get(totalPagesHeader); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			totalPages = n
		}
	}
	return raw, totalPages, nil
}
