package blogfront

import (
	"testing"
	"time"
)

func samplePosts() []Post {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return []Post{
		{ID: "A", Slug: "a", Title: "عشرة أحرف.", Excerpt: "عن السينما", Category: CategoryFilms, PublishedAt: day(1)},
		{ID: "B", Slug: "b", Title: "عنوان أطول بكثير من سابقه", Excerpt: "تأمل هادئ", Category: CategoryReflections, PublishedAt: day(3)},
		{ID: "C", Slug: "c", Title: "قصير", Excerpt: "إعلان مهم", Category: CategoryAnnouncements, PublishedAt: day(2)},
	}
}

func newState() *ViewState {
	s := NewViewState()
	s.ReplacePosts(samplePosts())
	return s
}

func ids(posts []Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestVisibleDefaultNewestFirst(t *testing.T) {
	s := newState()
	got := ids(s.Visible())
	if !equalIDs(got, "B", "C", "A") {
		t.Errorf("Visible() = %v, want [B C A]", got)
	}
}

func TestVisibleCategoryFilter(t *testing.T) {
	s := newState()
	s.SetCategory(CategoryFilms)
	got := ids(s.Visible())
	if !equalIDs(got, "A") {
		t.Errorf("Visible() = %v, want [A]", got)
	}
}

func TestVisibleSubstringFilterCaseInsensitive(t *testing.T) {
	s := newState()
	s.ReplacePosts([]Post{
		{ID: "X", Title: "Review: Dune", Excerpt: "film notes", Category: CategoryFilms},
		{ID: "Y", Title: "شيء آخر", Excerpt: "بلا علاقة", Category: CategoryMisc},
	})
	s.BeginSearch("dune")
	got := ids(s.Visible())
	if !equalIDs(got, "X") {
		t.Errorf("Visible() = %v, want [X]", got)
	}
}

func TestVisibleTextFilterCombinesWithCategory(t *testing.T) {
	s := newState()
	s.SetCategory(CategoryReflections)
	s.BeginSearch("السينما") // matches A's excerpt, but A is Films
	if got := ids(s.Visible()); len(got) != 0 {
		t.Errorf("Visible() = %v, want empty", got)
	}
}

func TestVisibleAIOverlayWinsOverCategory(t *testing.T) {
	s := newState()
	s.SetCategory(CategoryReflections) // would exclude A
	gen := s.BeginSearch("أفلام الخيال")
	if !s.ApplyAIResults(gen, []AIMatch{{ID: "A", Reason: "سينما"}}) {
		t.Fatal("ApplyAIResults rejected the current generation")
	}

	got := ids(s.Visible())
	if !equalIDs(got, "A") {
		t.Errorf("Visible() = %v, want exactly [A]: AI overlay overrides the category filter", got)
	}
}

func TestStaleAIResultsDropped(t *testing.T) {
	s := newState()
	oldGen := s.BeginSearch("استعلام قديم")
	newGen := s.BeginSearch("استعلام جديد")

	if s.ApplyAIResults(oldGen, []AIMatch{{ID: "A"}}) {
		t.Error("stale generation must not be applied")
	}
	if !s.ApplyAIResults(newGen, []AIMatch{{ID: "B"}}) {
		t.Error("current generation should be applied")
	}
	got := ids(s.Visible())
	if !equalIDs(got, "B") {
		t.Errorf("Visible() = %v, want [B] from the newer search", got)
	}
}

func TestClearSearchCancelsInFlight(t *testing.T) {
	s := newState()
	gen := s.BeginSearch("استعلام")
	s.ClearSearch()

	if s.ApplyAIResults(gen, []AIMatch{{ID: "A"}}) {
		t.Error("results arriving after ClearSearch must be dropped")
	}
	if got := ids(s.Visible()); !equalIDs(got, "B", "C", "A") {
		t.Errorf("Visible() = %v, want the full list", got)
	}
}

func TestEmptyQueryIgnoresOverlay(t *testing.T) {
	s := newState()
	gen := s.BeginSearch("استعلام")
	s.ApplyAIResults(gen, []AIMatch{{ID: "A"}})
	s.BeginSearch("") // user erased the query

	if got := ids(s.Visible()); !equalIDs(got, "B", "C", "A") {
		t.Errorf("Visible() = %v, want the full list after the query was erased", got)
	}
}

func TestRecommendedSortByTitleLength(t *testing.T) {
	s := newState()
	s.ReplacePosts([]Post{
		{ID: "short", Title: "عنوان من 10"},            // 10 runes
		{ID: "long", Title: "عنوان أطول يبلغ عشرين حر"}, // 24 runes
	})
	s.SetSort(SortRecommended)

	got := ids(s.Visible())
	if !equalIDs(got, "long", "short") {
		t.Errorf("Visible() = %v, want the longer title first", got)
	}
}

func TestRecommendedSortDeterministic(t *testing.T) {
	s := newState()
	s.SetSort(SortRecommended)
	first := ids(s.Visible())
	for i := 0; i < 5; i++ {
		if got := ids(s.Visible()); !equalIDs(got, first...) {
			t.Fatalf("order changed between calls: %v vs %v", first, got)
		}
	}
}

func TestReplacePostsIsWholesale(t *testing.T) {
	s := newState()
	s.ReplacePosts([]Post{{ID: "Z", Title: "جديد"}})
	got := ids(s.Visible())
	if !equalIDs(got, "Z") {
		t.Errorf("Visible() = %v, want only the replacement list", got)
	}
}

func TestParseSortOrder(t *testing.T) {
	if ParseSortOrder("recommended") != SortRecommended {
		t.Error("recommended not recognized")
	}
	if ParseSortOrder("") != SortNewest {
		t.Error("empty should default to newest")
	}
	if ParseSortOrder("garbage") != SortNewest {
		t.Error("unknown should default to newest")
	}
}
