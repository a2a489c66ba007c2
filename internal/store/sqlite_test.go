package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-hunter/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "seen.db")
	s, err := NewSQLiteStore(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testJob(id string) types.DiscoveredJob {
	return types.DiscoveredJob{ID: id, URL: "https://acme.com/jobs/" + id, Title: "Engineer", Company: "Acme"}
}

func TestMarkSeenThenSeen(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seen, err := s.Seen(ctx, "abc123def456")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, s.MarkSeen(ctx, testJob("abc123def456"), types.OutcomeApplied))

	seen, err = s.Seen(ctx, "abc123def456")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMarkSeenKeepsFirstSeenAndUpdatesOutcome(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return first }

	require.NoError(t, s.MarkSeen(ctx, testJob("j1"), types.OutcomeFailed))
	s.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, s.MarkSeen(ctx, testJob("j1"), types.OutcomeApplied))

	row, err := s.Get(ctx, "j1")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, types.OutcomeApplied, row.Outcome)
	assert.Equal(t, first.Unix(), row.SeenAt.Unix())
	assert.Equal(t, "Acme", row.Company)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetUnknown(t *testing.T) {
	row, err := newTestStore(t).Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, s.MarkSeen(ctx, testJob("old"), types.OutcomeSkipped))
	s.now = func() time.Time { return now }
	require.NoError(t, s.MarkSeen(ctx, testJob("fresh"), types.OutcomeApplied))

	removed, err := s.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	seen, err := s.Seen(ctx, "old")
	require.NoError(t, err)
	assert.False(t, seen)
	seen, err = s.Seen(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seen.db")

	s, err := NewSQLiteStore(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, s.MarkSeen(ctx, testJob("j1"), types.OutcomeApplied))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(ctx, dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	seen, err := reopened.Seen(ctx, "j1")
	require.NoError(t, err)
	assert.True(t, seen)
}
