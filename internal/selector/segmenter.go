package selector

import "math"

// window is a duration-constrained span carved out of a run, together with
// the frames it contains
type window struct {
	start  float64
	end    float64
	frames []ScoredFrame
}

// splitRun applies the duration constraints to a candidate run. The run end
// extends one second past the last sampled frame, clamped to the source
// duration. Runs shorter than MinSegment are rejected wholesale and their
// duration returned for the rejected accumulator. Longer runs are walked in
// MaxSegment steps; a trailing remainder shorter than MinSegment is dropped
// without being separately accumulated, and windows containing no sampled
// frame are skipped.
func splitRun(r run, totalDuration float64, opts Options) ([]window, float64) {
	end := r.frames[len(r.frames)-1].Metrics.Timestamp + 1.0
	end = math.Min(end, totalDuration)
	duration := end - r.start

	if duration < opts.MinSegment {
		return nil, duration
	}

	var windows []window
	segStart := r.start

	for segStart < end {
		segEnd := math.Min(segStart+opts.MaxSegment, end)
		segDur := segEnd - segStart

		if segDur < opts.MinSegment && segStart > r.start {
			break
		}

		var contained []ScoredFrame
		for _, sf := range r.frames {
			ts := sf.Metrics.Timestamp
			if ts >= segStart && ts < segEnd {
				contained = append(contained, sf)
			}
		}

		if len(contained) == 0 {
			segStart = segEnd
			continue
		}

		windows = append(windows, window{start: segStart, end: segEnd, frames: contained})
		segStart = segEnd
	}

	return windows, 0
}
