package selector

import (
	"testing"

	"github.com/bgorzelic/skyforge/internal/analysis"
)

func scoredAt(ts, score float64) ScoredFrame {
	return ScoredFrame{
		Metrics: analysis.FrameMetrics{Timestamp: ts},
		Score:   score,
	}
}

func TestGroupRunsContiguous(t *testing.T) {
	scored := []ScoredFrame{
		scoredAt(0, 0.9),
		scoredAt(1, 0.8),
		scoredAt(2, 0.9),
	}
	runs := groupRuns(scored, nil, 0.3)

	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].start != 0 || len(runs[0].frames) != 3 {
		t.Errorf("run = start %v with %d frames, want start 0 with 3 frames",
			runs[0].start, len(runs[0].frames))
	}
}

func TestGroupRunsLowScoreCloses(t *testing.T) {
	scored := []ScoredFrame{
		scoredAt(0, 0.9),
		scoredAt(1, 0.1),
		scoredAt(2, 0.9),
		scoredAt(3, 0.9),
	}
	runs := groupRuns(scored, nil, 0.3)

	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].start != 0 || len(runs[0].frames) != 1 {
		t.Errorf("first run = start %v, %d frames", runs[0].start, len(runs[0].frames))
	}
	if runs[1].start != 2 || len(runs[1].frames) != 2 {
		t.Errorf("second run = start %v, %d frames", runs[1].start, len(runs[1].frames))
	}
}

func TestGroupRunsBoundaryReopens(t *testing.T) {
	// A qualifying frame on a scene cut closes the run and immediately
	// opens a new one containing that frame.
	scored := []ScoredFrame{
		scoredAt(0, 0.9),
		scoredAt(1, 0.9),
		scoredAt(2, 0.9),
		scoredAt(3, 0.9),
	}
	boundaries := sceneBoundaries([]analysis.SceneChange{{Timestamp: 2.0}})
	runs := groupRuns(scored, boundaries, 0.3)

	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if len(runs[0].frames) != 2 {
		t.Errorf("first run frames = %d, want 2", len(runs[0].frames))
	}
	if runs[1].start != 2 || len(runs[1].frames) != 2 {
		t.Errorf("second run = start %v with %d frames, want start 2 with 2 frames",
			runs[1].start, len(runs[1].frames))
	}
}

func TestGroupRunsBoundaryWithLowScoreDropsFrame(t *testing.T) {
	scored := []ScoredFrame{
		scoredAt(0, 0.9),
		scoredAt(1, 0.9),
		scoredAt(2, 0.1),
		scoredAt(3, 0.9),
	}
	boundaries := sceneBoundaries([]analysis.SceneChange{{Timestamp: 2.0}})
	runs := groupRuns(scored, boundaries, 0.3)

	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[1].start != 3 {
		t.Errorf("second run start = %v, want 3", runs[1].start)
	}
}

func TestSceneBoundariesRounding(t *testing.T) {
	boundaries := sceneBoundaries([]analysis.SceneChange{{Timestamp: 2.04}})
	scored := []ScoredFrame{
		scoredAt(1.96, 0.9),
		scoredAt(2.04, 0.9),
	}
	runs := groupRuns(scored, boundaries, 0.3)

	// Both timestamps round to 2.0, so both frames land on the boundary
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	for i, r := range runs {
		if len(r.frames) != 1 {
			t.Errorf("run %d frames = %d, want 1", i, len(r.frames))
		}
	}
}

func TestSplitRunRejectsShortRun(t *testing.T) {
	r := run{start: 0, frames: []ScoredFrame{scoredAt(0, 0.9), scoredAt(1, 0.9)}}
	windows, rejected := splitRun(r, 100, DefaultOptions())

	if windows != nil {
		t.Errorf("windows = %v, want nil", windows)
	}
	if rejected != 2 {
		t.Errorf("rejected = %v, want 2", rejected)
	}
}

func TestSplitRunSkipsFramelessWindow(t *testing.T) {
	// Frames cluster at the front and back of a long run; the middle
	// window has no samples and produces no segment.
	var frames []ScoredFrame
	for ts := 0.0; ts < 20; ts++ {
		frames = append(frames, scoredAt(ts, 0.9))
	}
	for ts := 50.0; ts < 70; ts++ {
		frames = append(frames, scoredAt(ts, 0.9))
	}

	r := run{start: 0, frames: frames}
	windows, _ := splitRun(r, 100, DefaultOptions())

	for _, w := range windows {
		if len(w.frames) == 0 {
			t.Errorf("window [%v, %v] has no frames", w.start, w.end)
		}
	}
}
