package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// SidecarSampler reads frame metrics from a sidecar JSON file produced by
// the external frame-analysis step. For a video at /path/clip.mp4 the
// sidecar is /path/clip.metrics.json, containing a FrameMetrics array.
type SidecarSampler struct{}

// SampleFrames loads the sidecar metrics for videoPath. The declared
// sampling interval is ignored since the sidecar records actual timestamps.
func (SidecarSampler) SampleFrames(_ context.Context, videoPath string, _ float64) ([]FrameMetrics, error) {
	path := SidecarPath(videoPath)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no frame metrics sidecar at %s; run the frame analysis step first", path)
		}
		return nil, err
	}

	var frames []FrameMetrics
	if err := json.Unmarshal(data, &frames); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Selection depends on time-ordered input
	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Timestamp < frames[j].Timestamp
	})

	return frames, nil
}

// SidecarPath returns the metrics sidecar path for a video file
func SidecarPath(videoPath string) string {
	ext := ""
	if i := strings.LastIndex(videoPath, "."); i >= 0 {
		ext = videoPath[i:]
	}
	return strings.TrimSuffix(videoPath, ext) + ".metrics.json"
}
