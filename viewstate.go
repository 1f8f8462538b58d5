package blogfront

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// SortOrder selects the listing sort.
type SortOrder string

const (
	// SortNewest orders by descending publish date.
	SortNewest SortOrder = "newest"
	// SortRecommended orders by descending title length. The heuristic is
	// deterministic but semantically arbitrary; it is kept because the
	// listing has always behaved this way.
	SortRecommended SortOrder = "recommended"
)

// ParseSortOrder maps a query-param value to a SortOrder, defaulting to
// newest.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortRecommended {
		return SortRecommended
	}
	return SortNewest
}

// AIMatch is one entry of the AI-search overlay: a post id and the
// model's stated reason for ranking it.
type AIMatch struct {
	ID     string
	Reason string
}

// ViewState holds the in-memory post list and the active listing filters:
// category (with the الكل sentinel), sort order, free-text query, and the
// AI-search result overlay. The post list is replaced wholesale on fetch
// and read-only between fetches.
//
// AI search responses arrive asynchronously and are not cancelled when
// superseded, so every search is tagged with a generation number; a
// response carrying a stale generation is dropped instead of overwriting
// newer results.
type ViewState struct {
	mu       sync.Mutex
	posts    []Post
	category Category
	order    SortOrder
	query    string
	aiMatch  map[string]string // post id -> relevance reason
	gen      uint64
}

// NewViewState returns a ViewState showing all posts, newest first.
func NewViewState() *ViewState {
	return &ViewState{category: CategoryAll, order: SortNewest}
}

// ReplacePosts swaps in a freshly fetched post list.
func (s *ViewState) ReplacePosts(posts []Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = make([]Post, len(posts))
	copy(s.posts, posts)
}

// SetCategory sets the active category filter. CategoryAll disables it.
func (s *ViewState) SetCategory(c Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = c
}

// Category returns the active category filter.
func (s *ViewState) Category() Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// SetSort sets the active sort order.
func (s *ViewState) SetSort(o SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = o
}

// BeginSearch records a new query and invalidates any pending AI results
// for earlier queries. The returned generation must accompany the matching
// ApplyAIResults call. An empty query clears the search entirely.
func (s *ViewState) BeginSearch(query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.query = strings.TrimSpace(query)
	s.aiMatch = nil
	return s.gen
}

// ApplyAIResults installs an AI result set if gen still identifies the
// latest search. It reports whether the overlay was applied.
func (s *ViewState) ApplyAIResults(gen uint64, matches []AIMatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.query == "" {
		return false
	}
	s.aiMatch = make(map[string]string, len(matches))
	for _, m := range matches {
		s.aiMatch[m.ID] = m.Reason
	}
	return true
}

// ClearSearch drops the query and any AI overlay, and cancels the
// association with in-flight searches.
func (s *ViewState) ClearSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.query = ""
	s.aiMatch = nil
}

// Reason returns the AI relevance reason recorded for a post id, if any.
func (s *ViewState) Reason(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.aiMatch[id]
	return r, ok
}

// Visible applies the filter/sort precedence and returns the posts to
// render, in order:
//
//  1. a present AI result set with a non-empty query restricts the list to
//     posts whose id is in the set — AI ranking wins outright over the
//     category and text filters;
//  2. otherwise the category filter applies (skipped for الكل);
//  3. then a case-insensitive substring filter over title and excerpt;
//  4. finally the sort order.
func (s *ViewState) Visible() []Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Post
	if s.query != "" && s.aiMatch != nil {
		for _, p := range s.posts {
			if _, ok := s.aiMatch[p.ID]; ok {
				out = append(out, p)
			}
		}
	} else {
		needle := strings.ToLower(s.query)
		for _, p := range s.posts {
			if s.category != CategoryAll && p.Category != s.category {
				continue
			}
			if needle != "" &&
				!strings.Contains(strings.ToLower(p.Title), needle) &&
				!strings.Contains(strings.ToLower(p.Excerpt), needle) {
				continue
			}
			out = append(out, p)
		}
	}

	sortPosts(out, s.order)
	return out
}

func sortPosts(posts []Post, order SortOrder) {
	switch order {
	case SortRecommended:
		sort.SliceStable(posts, func(i, j int) bool {
			return utf8.RuneCountInString(posts[i].Title) > utf8.RuneCountInString(posts[j].Title)
		})
	default:
		sort.SliceStable(posts, func(i, j int) bool {
			return posts[i].PublishedAt.After(posts[j].PublishedAt)
		})
	}
}
