package blogfront

import (
	"context"
	"testing"
	"time"
)

type fakeSource struct {
	posts []Post
	calls int
}

func (f *fakeSource) FetchPosts(ctx context.Context) []Post {
	f.calls++
	return f.posts
}

func TestCacheServesWithinTTL(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "1", Slug: "a"}}}
	c := NewPostCache(src, time.Minute)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if got := c.Posts(ctx); len(got) != 1 {
			t.Fatalf("Posts() = %d posts, want 1", len(got))
		}
	}
	if src.calls != 1 {
		t.Errorf("source fetched %d times within TTL, want 1", src.calls)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "1", Slug: "a"}}}
	c := NewPostCache(src, 30*time.Millisecond)

	ctx := context.Background()
	c.Posts(ctx)
	src.posts = []Post{{ID: "1", Slug: "a"}, {ID: "2", Slug: "b"}}
	time.Sleep(50 * time.Millisecond)

	if got := c.Posts(ctx); len(got) != 2 {
		t.Errorf("Posts() = %d posts after TTL, want refreshed list of 2", len(got))
	}
	if src.calls != 2 {
		t.Errorf("source fetched %d times, want 2", src.calls)
	}
}

func TestCacheKeepsStaleOverEmpty(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "1", Slug: "a"}}}
	c := NewPostCache(src, 30*time.Millisecond)

	ctx := context.Background()
	c.Posts(ctx)

	// CMS outage: the refresh comes back empty.
	src.posts = nil
	time.Sleep(50 * time.Millisecond)

	if got := c.Posts(ctx); len(got) != 1 {
		t.Errorf("Posts() = %d posts during outage, want the previous list kept", len(got))
	}
}

func TestCacheIndexResolves(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "42", Slug: "my-post"}}}
	c := NewPostCache(src, time.Minute)

	ix := c.Index(context.Background())
	if p := ix.ByID("42"); p == nil || p.Slug != "my-post" {
		t.Fatalf("ByID(42) = %+v", p)
	}
	if p := ix.BySlug("my-post"); p == nil || p.ID != "42" {
		t.Fatalf("BySlug(my-post) = %+v", p)
	}
}

func TestCacheInvalidate(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "1", Slug: "a"}}}
	c := NewPostCache(src, time.Hour)

	ctx := context.Background()
	c.Posts(ctx)
	c.Invalidate()
	c.Posts(ctx)

	if src.calls != 2 {
		t.Errorf("source fetched %d times, want 2 after Invalidate", src.calls)
	}
}

func TestCacheWarm(t *testing.T) {
	src := &fakeSource{posts: []Post{{ID: "1", Slug: "a"}}}
	c := NewPostCache(src, time.Hour)

	c.Warm(context.Background())
	if src.calls != 1 {
		t.Fatalf("Warm did not fetch")
	}
	c.Posts(context.Background())
	if src.calls != 1 {
		t.Errorf("Posts refetched after Warm, want the warmed list served")
	}
}
