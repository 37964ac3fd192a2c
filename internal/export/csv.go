package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/selector"
	"github.com/bgorzelic/skyforge/pkg/util"
)

// WriteFramesCSV flattens per-frame metrics from all analyses into one CSV
func WriteFramesCSV(w io.Writer, analyses []*analysis.VideoAnalysis) error {
	cw := csv.NewWriter(w)

	header := []string{
		"source", "timestamp", "blur_score", "brightness", "contrast",
		"motion_score", "is_dark", "is_overexposed", "is_blurry",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, a := range analyses {
		source := util.Stem(a.SourceFile)
		for _, f := range a.FrameMetrics {
			row := []string{
				source,
				formatFloat(f.Timestamp),
				formatFloat(f.BlurScore),
				formatFloat(f.Brightness),
				formatFloat(f.Contrast),
				formatFloat(f.MotionScore),
				formatBool(f.IsDark),
				formatBool(f.IsOverexposed),
				formatBool(f.IsBlurry),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSegmentsCSV writes one row per selected segment across all sources
func WriteSegmentsCSV(w io.Writer, results []selector.SelectionResult) error {
	cw := csv.NewWriter(w)

	header := []string{
		"source_file", "segment_id", "start_time", "end_time",
		"duration", "confidence", "reason_tags",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		for _, s := range r.Segments {
			row := []string{
				s.SourceFile,
				fmt.Sprintf("%d", s.SegmentID),
				formatFloat(s.StartTime),
				formatFloat(s.EndTime),
				formatFloat(s.Duration),
				formatFloat(s.Confidence),
				strings.Join(s.ReasonTags, ";"),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
