package catalog

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bgorzelic/skyforge/internal/selector"
)

// Source is a cataloged input video
type Source struct {
	ID         string
	Path       string
	Duration   float64
	Width      int
	Height     int
	HasAudio   bool
	AnalyzedAt time.Time
}

// Run records one selection pass over a source
type Run struct {
	ID               string
	SourceID         string
	TotalSegments    int
	SelectedDuration float64
	RejectedDuration float64
	CreatedAt        time.Time
}

// UpsertSource inserts or refreshes a source row keyed by path and
// returns its ID.
func (s *Store) UpsertSource(ctx context.Context, src *Source) (string, error) {
	existing, err := s.GetSourceByPath(ctx, src.Path)
	if err != nil {
		return "", err
	}
	if existing != nil {
		_, err := s.db.ExecContext(ctx, `
			UPDATE sources SET duration = ?, width = ?, height = ?, has_audio = ?, analyzed_at = ?
			WHERE id = ?
		`, src.Duration, src.Width, src.Height, boolToInt(src.HasAudio),
			src.AnalyzedAt.UTC().Format(time.RFC3339), existing.ID)
		return existing.ID, err
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sources (id, path, duration, width, height, has_audio, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, src.Path, src.Duration, src.Width, src.Height, boolToInt(src.HasAudio),
		src.AnalyzedAt.UTC().Format(time.RFC3339))
	return id, err
}

// GetSourceByPath returns the source for a video path, or nil if uncataloged
func (s *Store) GetSourceByPath(ctx context.Context, path string) (*Source, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, duration, width, height, has_audio, analyzed_at
		FROM sources WHERE path = ?
	`, path)
	return scanSource(row)
}

// ListSources returns all cataloged sources, newest first
func (s *Store) ListSources(ctx context.Context) ([]*Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, duration, width, height, has_audio, analyzed_at
		FROM sources ORDER BY analyzed_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []*Source
	for rows.Next() {
		var src Source
		var hasAudio int
		var analyzedAt string
		if err := rows.Scan(&src.ID, &src.Path, &src.Duration, &src.Width, &src.Height, &hasAudio, &analyzedAt); err != nil {
			return nil, err
		}
		src.HasAudio = hasAudio == 1
		src.AnalyzedAt, _ = time.Parse(time.RFC3339, analyzedAt)
		sources = append(sources, &src)
	}
	return sources, rows.Err()
}

// RecordRun stores a selection result against a cataloged source. The
// run and its segment rows are written in one transaction.
func (s *Store) RecordRun(ctx context.Context, sourceID string, result *selector.SelectionResult) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source_id, total_segments, selected_duration, rejected_duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, runID, sourceID, len(result.Segments), result.SelectedDuration, result.RejectedDuration,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}

	for _, seg := range result.Segments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO segments (run_id, segment_id, start_time, end_time, duration, confidence, reason_tags, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, seg.SegmentID, seg.StartTime, seg.EndTime, seg.Duration, seg.Confidence,
			strings.Join(seg.ReasonTags, ";"), seg.Notes)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// ListRuns returns runs for a source, newest first
func (s *Store) ListRuns(ctx context.Context, sourceID string) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, total_segments, selected_duration, rejected_duration, created_at
		FROM runs WHERE source_id = ? ORDER BY created_at DESC
	`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.ID, &r.SourceID, &r.TotalSegments, &r.SelectedDuration, &r.RejectedDuration, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

func scanSource(row *sql.Row) (*Source, error) {
	var src Source
	var hasAudio int
	var analyzedAt string
	err := row.Scan(&src.ID, &src.Path, &src.Duration, &src.Width, &src.Height, &hasAudio, &analyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	src.HasAudio = hasAudio == 1
	src.AnalyzedAt, _ = time.Parse(time.RFC3339, analyzedAt)
	return &src, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
