package blogfront

import (
	"net/url"
	"strings"
)

// ViewKind tags the resolved view.
type ViewKind int

const (
	KindListing ViewKind = iota
	KindPostDetail
)

// HistoryAction says what must happen to the visible address once a view
// is resolved. Canonicalizing an inbound legacy link is always a replace
// (no new back-stack entry); explicit navigation is always a push. Getting
// this backwards breaks back/forward, so the distinction is part of the
// Resolution contract rather than a call-site choice.
type HistoryAction int

const (
	ActionNone HistoryAction = iota
	ActionReplace
	ActionPush
)

// Resolution is the outcome of mapping a location to a view.
type Resolution struct {
	Kind   ViewKind
	Post   *Post         // non-nil iff Kind == KindPostDetail
	Path   string        // canonical path for the resolved view
	Action HistoryAction // how the address must be reconciled
}

// PostIndex is a read-only lookup over the current post collection.
type PostIndex struct {
	byID   map[string]*Post
	bySlug map[string]*Post
	posts  []Post
}

// NewPostIndex builds an index over posts. The slice is copied; the index
// stays valid if the caller's slice is replaced wholesale later.
func NewPostIndex(posts []Post) *PostIndex {
	ix := &PostIndex{
		byID:   make(map[string]*Post, len(posts)),
		bySlug: make(map[string]*Post, len(posts)),
		posts:  make([]Post, len(posts)),
	}
	copy(ix.posts, posts)
	for i := range ix.posts {
		p := &ix.posts[i]
		ix.byID[p.ID] = p
		ix.bySlug[p.Slug] = p
	}
	return ix
}

// ByID returns the post with the given CMS id, or nil.
func (ix *PostIndex) ByID(id string) *Post { return ix.byID[id] }

// BySlug returns the post with the given slug, or nil.
func (ix *PostIndex) BySlug(slug string) *Post { return ix.bySlug[slug] }

// Len returns the number of indexed posts.
func (ix *PostIndex) Len() int { return len(ix.posts) }

// Resolve maps a location (path and query) to a view. The product went
// through three linking schemes, so resolution order matters and old links
// must keep working:
//
//  1. short path /p/{id}        -> by id, replace address with /post/{slug}
//  2. legacy query ?p={id}      -> by id, same canonicalizing replace
//  3. canonical /post/{slug}    -> by slug directly
//  4. anything else, or no match in any form -> listing
//
// With an empty index every form falls through to the listing; callers
// mitigate that by fetching eagerly before routing.
func Resolve(rawPath string, query url.Values, ix *PostIndex) Resolution {
	listing := Resolution{Kind: KindListing, Path: "/", Action: ActionNone}
	if ix == nil {
		return listing
	}

	cleaned := strings.TrimSuffix(rawPath, "/")

	if id, ok := strings.CutPrefix(cleaned, "/p/"); ok {
		if p := ix.ByID(id); p != nil {
			return Resolution{Kind: KindPostDetail, Post: p, Path: CanonicalPath(p), Action: ActionReplace}
		}
		return listing
	}

	if id := query.Get("p"); id != "" {
		if p := ix.ByID(id); p != nil {
			return Resolution{Kind: KindPostDetail, Post: p, Path: CanonicalPath(p), Action: ActionReplace}
		}
		return listing
	}

	if slug, ok := strings.CutPrefix(cleaned, "/post/"); ok {
		// Arabic slugs arrive percent-encoded.
		if dec, err := url.PathUnescape(slug); err == nil {
			slug = dec
		}
		if p := ix.BySlug(slug); p != nil {
			return Resolution{Kind: KindPostDetail, Post: p, Path: CanonicalPath(p), Action: ActionNone}
		}
		return listing
	}

	return listing
}

// NavigateTo is the forward-navigation counterpart of Resolve: the user
// picked a post, so the canonical address is pushed, never replaced.
func NavigateTo(p *Post) Resolution {
	return Resolution{Kind: KindPostDetail, Post: p, Path: CanonicalPath(p), Action: ActionPush}
}

// BackToListing returns to the root listing as an explicit navigation.
func BackToListing() Resolution {
	return Resolution{Kind: KindListing, Path: "/", Action: ActionPush}
}

// CanonicalPath returns the authoritative path for a post. Slug is the
// external identifier; the numeric id only survives in legacy links.
func CanonicalPath(p *Post) string {
	return "/post/" + url.PathEscape(p.Slug)
}
