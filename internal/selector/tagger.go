package selector

import (
	"slices"
	"strings"

	"github.com/bgorzelic/skyforge/internal/analysis"
)

// tagSegment derives descriptive shot-classification tags from a window's
// aggregate stats and the source metadata
func tagSegment(frames []ScoredFrame, avgMotion, avgBlur, avgBrightness float64, a *analysis.VideoAnalysis) []string {
	var tags []string

	// Motion-based classification
	switch {
	case avgMotion < 1.0:
		tags = append(tags, "static_shot")
	case avgMotion < 5.0:
		tags = append(tags, "slow_pan")
	case avgMotion < 15.0:
		tags = append(tags, "moderate_motion")
	default:
		tags = append(tags, "fast_motion")
	}

	// Sharpness
	if avgBlur > 200 {
		tags = append(tags, "very_sharp")
	} else if avgBlur > 100 {
		tags = append(tags, "clear")
	}

	if avgBrightness > 80 && avgBrightness < 180 {
		tags = append(tags, "good_exposure")
	}

	if a.Width >= 3840 {
		tags = append(tags, "4k")
	}
	if a.Height > a.Width {
		tags = append(tags, "portrait")
	}
	if !a.HasAudio {
		tags = append(tags, "no_audio")
	}

	// Shot pattern guesses need enough samples to be meaningful
	if len(frames) > 10 {
		if opensStill(frames) && avgMotion > 3.0 {
			tags = append(tags, "reveal_shot")
		}
		if allBelow(frames, 1.5) {
			tags = append(tags, "establishing_shot")
		}
	}

	return tags
}

// opensStill reports whether the first three frames are near-motionless
func opensStill(frames []ScoredFrame) bool {
	for _, sf := range frames[:3] {
		if sf.Metrics.MotionScore >= 2.0 {
			return false
		}
	}
	return true
}

func allBelow(frames []ScoredFrame, limit float64) bool {
	for _, sf := range frames {
		if sf.Metrics.MotionScore >= limit {
			return false
		}
	}
	return true
}

// segmentNotes builds the one-line human-readable description for a segment
func segmentNotes(confidence float64, tags []string) string {
	var parts []string

	switch {
	case confidence > 0.8:
		parts = append(parts, "High quality segment")
	case confidence > 0.5:
		parts = append(parts, "Usable segment")
	default:
		parts = append(parts, "Marginal segment")
	}

	if slices.Contains(tags, "establishing_shot") {
		parts = append(parts, "— potential establishing shot")
	}
	if slices.Contains(tags, "fast_motion") {
		parts = append(parts, "— action/movement")
	}
	if slices.Contains(tags, "no_audio") {
		parts = append(parts, "(no audio)")
	}

	return strings.Join(parts, ". ")
}
