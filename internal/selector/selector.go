// Package selector turns a scored frame sequence into non-overlapping,
// duration-constrained segments with confidence scores and reason tags.
package selector

import (
	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/quality"
	"github.com/bgorzelic/skyforge/pkg/util"
)

// Options holds the selection knobs
type Options struct {
	MinSegment    float64
	MaxSegment    float64
	MinConfidence float64
	BlurThreshold float64
	DarkThreshold float64
}

// DefaultOptions returns the standard selection settings
func DefaultOptions() Options {
	return Options{
		MinSegment:    5.0,
		MaxSegment:    25.0,
		MinConfidence: 0.3,
		BlurThreshold: 80.0,
		DarkThreshold: 40.0,
	}
}

// Segment is a selected video span with quality scoring
type Segment struct {
	SourceFile    string   `json:"source_file"`
	SegmentID     int      `json:"segment_id"`
	StartTime     float64  `json:"start_time"`
	EndTime       float64  `json:"end_time"`
	Duration      float64  `json:"duration"`
	Confidence    float64  `json:"confidence"`
	ReasonTags    []string `json:"reason_tags"`
	Notes         string   `json:"notes"`
	AvgBlur       float64  `json:"avg_blur"`
	AvgBrightness float64  `json:"avg_brightness"`
	AvgMotion     float64  `json:"avg_motion"`
	HasAudio      bool     `json:"has_audio"`
}

// SelectionResult holds the selection outcome for a single source video
type SelectionResult struct {
	SourceFile       string    `json:"source_file"`
	TotalDuration    float64   `json:"total_duration"`
	Segments         []Segment `json:"segments"`
	SelectedDuration float64   `json:"selected_duration"`
	RejectedDuration float64   `json:"rejected_duration"`
}

// ScoredFrame pairs frame metrics with its quality score and tags
type ScoredFrame struct {
	Metrics analysis.FrameMetrics
	Score   float64
	Tags    []string
}

// Select walks the frame metrics of one analyzed video and emits the final
// segments. The pass is deterministic: identical inputs produce identical
// boundaries, scores, and tags.
func Select(a *analysis.VideoAnalysis, opts Options) SelectionResult {
	result := SelectionResult{
		SourceFile:    a.SourceFile,
		TotalDuration: a.Duration,
		Segments:      []Segment{},
	}

	if len(a.FrameMetrics) == 0 {
		return result
	}

	boundaries := sceneBoundaries(a.SceneChanges)
	scored := scoreFrames(a.FrameMetrics, opts)
	runs := groupRuns(scored, boundaries, opts.MinConfidence)

	segID := 1
	for _, r := range runs {
		windows, rejected := splitRun(r, a.Duration, opts)
		result.RejectedDuration += rejected

		for _, w := range windows {
			result.Segments = append(result.Segments, buildSegment(w, a, segID))
			segID++
		}
	}

	var selected float64
	for _, s := range result.Segments {
		selected += s.Duration
	}
	result.SelectedDuration = util.Round2(selected)
	// Remainders dropped during splitting are absorbed here rather than
	// tracked span by span
	result.RejectedDuration = util.Round2(result.TotalDuration - result.SelectedDuration)

	return result
}

func scoreFrames(frames []analysis.FrameMetrics, opts Options) []ScoredFrame {
	scored := make([]ScoredFrame, 0, len(frames))
	for _, m := range frames {
		score, tags := quality.Score(m, opts.BlurThreshold, opts.DarkThreshold)
		scored = append(scored, ScoredFrame{Metrics: m, Score: score, Tags: tags})
	}
	return scored
}

func buildSegment(w window, a *analysis.VideoAnalysis, segID int) Segment {
	var blur, brightness, motion, scoreSum float64
	for _, sf := range w.frames {
		blur += sf.Metrics.BlurScore
		brightness += sf.Metrics.Brightness
		motion += sf.Metrics.MotionScore
		scoreSum += sf.Score
	}

	n := float64(len(w.frames))
	avgBlur := blur / n
	avgBrightness := brightness / n
	avgMotion := motion / n

	confidence := scoreSum / n
	if confidence > 1.0 {
		confidence = 1.0
	}

	seg := Segment{
		SourceFile:    a.SourceFile,
		SegmentID:     segID,
		StartTime:     util.Round2(w.start),
		EndTime:       util.Round2(w.end),
		Duration:      util.Round2(w.end - w.start),
		Confidence:    util.Round3(confidence),
		ReasonTags:    tagSegment(w.frames, avgMotion, avgBlur, avgBrightness, a),
		AvgBlur:       util.Round2(avgBlur),
		AvgBrightness: util.Round2(avgBrightness),
		AvgMotion:     util.Round2(avgMotion),
		HasAudio:      a.HasAudio,
	}
	seg.Notes = segmentNotes(seg.Confidence, seg.ReasonTags)

	return seg
}
