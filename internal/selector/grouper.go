package selector

import (
	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/pkg/util"
)

// run is a candidate group of temporally-contiguous qualifying frames,
// before duration constraints are applied
type run struct {
	start  float64
	frames []ScoredFrame
}

// sceneBoundaries builds the cut lookup set. Timestamps are rounded to one
// decimal place; the same rounding is applied to frame timestamps before
// comparison, which decides exactly which frames land "on" a cut.
func sceneBoundaries(changes []analysis.SceneChange) map[float64]struct{} {
	times := make(map[float64]struct{}, len(changes))
	for _, sc := range changes {
		times[util.Round1(sc.Timestamp)] = struct{}{}
	}
	return times
}

// groupRuns walks the scored frames in timestamp order and groups
// consecutive qualifying frames, splitting at scene boundaries.
//
// A qualifying frame sitting exactly on a rounded scene-change timestamp
// closes the open run and starts a fresh one-frame run, even though it
// qualifies. TODO: evaluate whether the frame should instead extend the
// previous run when no real cut separates them; kept as is for output
// compatibility with existing selects files.
func groupRuns(scored []ScoredFrame, boundaries map[float64]struct{}, minConfidence float64) []run {
	var runs []run
	var current run
	open := false

	for _, sf := range scored {
		qualifies := sf.Score >= minConfidence
		_, atBoundary := boundaries[util.Round1(sf.Metrics.Timestamp)]

		if qualifies && !atBoundary {
			if !open {
				current = run{start: sf.Metrics.Timestamp}
				open = true
			}
			current.frames = append(current.frames, sf)
			continue
		}

		// Close out the open run, then reopen at this frame if it
		// qualifies on its own merits
		if open && len(current.frames) > 0 {
			runs = append(runs, current)
		}
		open = false

		if qualifies {
			current = run{start: sf.Metrics.Timestamp, frames: []ScoredFrame{sf}}
			open = true
		}
	}

	if open && len(current.frames) > 0 {
		runs = append(runs, current)
	}

	return runs
}
