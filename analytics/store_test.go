package analytics

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndTotal(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordView("/"))
	require.NoError(t, s.RecordView("/post/a"))
	require.NoError(t, s.RecordView("/post/a"))

	n, err := s.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestTopPagesOrdersByCount(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.RecordView("/post/popular"))
	}
	require.NoError(t, s.RecordView("/post/quiet"))
	require.NoError(t, s.RecordView("/"))

	top, err := s.TopPages(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, PageCount{Path: "/post/popular", Count: 3}, top[0])
	// Ties break alphabetically so the output is deterministic.
	assert.Equal(t, PageCount{Path: "/", Count: 1}, top[1])
}

func TestTopPagesEmptyStore(t *testing.T) {
	s := newTestStore(t)

	top, err := s.TopPages(10)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestPruneDropsOldViews(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordView("/post/a"))
	// Backdate the row past the retention window.
	_, err := s.db.Exec(
		`UPDATE page_views SET viewed_at = ?`,
		time.Now().UTC().Add(-48*time.Hour),
	)
	require.NoError(t, err)
	require.NoError(t, s.RecordView("/post/b"))

	require.NoError(t, s.Prune(24*time.Hour))

	n, err := s.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	top, err := s.TopPages(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "/post/b", top[0].Path)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.db")

	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordView("/"))
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
