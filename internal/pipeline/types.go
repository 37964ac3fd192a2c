package pipeline

import (
	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/selector"
)

// Options controls a pipeline run
type Options struct {
	// OutputDir receives analysis/selection JSON and any cut files
	OutputDir string
	// Trim cuts each selected segment into its own file
	Trim bool
	// Report renders report-ready deliverables instead of archival cuts
	Report bool
}

// Result holds the outcome for one input video. Err is set when the
// source failed; the other fields are only valid when Err is nil.
type Result struct {
	Input     string
	Analysis  *analysis.VideoAnalysis
	Selection selector.SelectionResult
	CutFiles  []string
	Err       error
}

// Summary aggregates a full pipeline run
type Summary struct {
	Sources  int
	Failed   int
	Timeline selector.MasterTimeline
}
