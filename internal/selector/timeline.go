package selector

import (
	"sort"

	"github.com/bgorzelic/skyforge/pkg/util"
)

// MasterTimeline ranks segments across all sources for presentation.
// Ordering is by confidence only; segment boundaries are untouched.
type MasterTimeline struct {
	TotalSources          int       `json:"total_sources"`
	TotalSegments         int       `json:"total_segments"`
	TotalSelectedDuration float64   `json:"total_selected_duration"`
	Segments              []Segment `json:"segments"`
}

// BuildMasterTimeline concatenates segments from all per-source results and
// sorts them by confidence descending. The sort is stable so ties keep
// their original per-source emission order.
func BuildMasterTimeline(results []SelectionResult) MasterTimeline {
	var all []Segment
	for _, r := range results {
		all = append(all, r.Segments...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Confidence > all[j].Confidence
	})

	var total float64
	for _, s := range all {
		total += s.Duration
	}

	return MasterTimeline{
		TotalSources:          len(results),
		TotalSegments:         len(all),
		TotalSelectedDuration: util.Round2(total),
		Segments:              all,
	}
}
