// Package quality rates individual sampled frames. Every code path that
// needs a per-frame quality opinion routes through Score so the rule set
// lives in exactly one place.
package quality

import (
	"math"

	"github.com/bgorzelic/skyforge/internal/analysis"
)

// frameRule is one entry in the ordered scoring table. Rules are applied
// top to bottom; each may adjust the running total and append one tag.
// Mutual exclusion within a category is encoded in the predicates.
type frameRule struct {
	tag     string
	delta   float64
	applies func(m analysis.FrameMetrics, blurThreshold float64) bool
}

var frameRules = []frameRule{
	{"blurry", -0.5, func(m analysis.FrameMetrics, t float64) bool {
		return m.IsBlurry
	}},
	{"sharp", 0, func(m analysis.FrameMetrics, t float64) bool {
		return !m.IsBlurry && m.BlurScore > t*3
	}},
	{"too_dark", -0.6, func(m analysis.FrameMetrics, t float64) bool {
		return m.IsDark
	}},
	{"dim", -0.2, func(m analysis.FrameMetrics, t float64) bool {
		return !m.IsDark && m.Brightness < 60
	}},
	{"overexposed", -0.4, func(m analysis.FrameMetrics, t float64) bool {
		return m.IsOverexposed
	}},
	{"low_contrast", -0.5, func(m analysis.FrameMetrics, t float64) bool {
		return m.Contrast < 15
	}},
	{"good_motion", 0.1, func(m analysis.FrameMetrics, t float64) bool {
		return moderateMotion(m)
	}},
	{"static", 0, func(m analysis.FrameMetrics, t float64) bool {
		return !moderateMotion(m) && m.MotionScore < 0.5
	}},
	{"shaky", -0.2, func(m analysis.FrameMetrics, t float64) bool {
		return !moderateMotion(m) && m.MotionScore >= 0.5 && m.MotionScore > 30.0
	}},
	{"well_exposed", 0.1, func(m analysis.FrameMetrics, t float64) bool {
		return m.Brightness > 80 && m.Brightness < 180 && m.Contrast > 30
	}},
}

func moderateMotion(m analysis.FrameMetrics) bool {
	return m.MotionScore > 2.0 && m.MotionScore < 20.0
}

// Score rates a single frame 0-1 and returns its reason tags in rule order.
// darkThreshold is accepted for symmetry with the sampling step but the
// pre-computed flags are authoritative, so it is not re-applied here.
func Score(m analysis.FrameMetrics, blurThreshold, darkThreshold float64) (float64, []string) {
	_ = darkThreshold

	score := 1.0
	var tags []string

	for _, r := range frameRules {
		if r.applies(m, blurThreshold) {
			score += r.delta
			tags = append(tags, r.tag)
		}
	}

	return math.Max(0.0, math.Min(1.0, score)), tags
}
