package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgorzelic/skyforge/internal/selector"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertSourceInsertAndUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	src := &Source{
		Path:       "/footage/DJI_0001.MP4",
		Duration:   120.5,
		Width:      3840,
		Height:     2160,
		HasAudio:   true,
		AnalyzedAt: time.Now(),
	}

	id1, err := store.UpsertSource(ctx, src)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	// Re-analyzing the same path must keep the ID stable
	src.Duration = 121.0
	id2, err := store.UpsertSource(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, err := store.GetSourceByPath(ctx, src.Path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 121.0, got.Duration)
	assert.Equal(t, 3840, got.Width)
	assert.True(t, got.HasAudio)
}

func TestGetSourceByPathMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.GetSourceByPath(context.Background(), "/nowhere.mp4")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecordRunAndListRuns(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sourceID, err := store.UpsertSource(ctx, &Source{
		Path:       "/footage/DJI_0002.MP4",
		Duration:   60,
		Width:      1920,
		Height:     1080,
		AnalyzedAt: time.Now(),
	})
	require.NoError(t, err)

	result := &selector.SelectionResult{
		SourceFile:    "/footage/DJI_0002.MP4",
		TotalDuration: 60,
		Segments: []selector.Segment{
			{
				SourceFile: "/footage/DJI_0002.MP4",
				SegmentID:  1,
				StartTime:  5,
				EndTime:    20,
				Duration:   15,
				Confidence: 0.9,
				ReasonTags: []string{"slow_pan", "clear"},
				Notes:      "High quality segment",
			},
		},
		SelectedDuration: 15,
		RejectedDuration: 45,
	}

	runID, err := store.RecordRun(ctx, sourceID, result)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	runs, err := store.ListRuns(ctx, sourceID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, 1, runs[0].TotalSegments)
	assert.Equal(t, 15.0, runs[0].SelectedDuration)
	assert.Equal(t, 45.0, runs[0].RejectedDuration)
}

func TestListSources(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, path := range []string{"/a.mp4", "/b.mp4"} {
		_, err := store.UpsertSource(ctx, &Source{
			Path:       path,
			Duration:   10,
			Width:      1920,
			Height:     1080,
			AnalyzedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	sources, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}
