package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/bgorzelic/skyforge/pkg/util"
)

// FrameMetrics holds quality measurements for a single sampled frame.
// The flags are computed by the sampling collaborator against its own
// thresholds and are authoritative; nothing downstream recomputes them.
type FrameMetrics struct {
	Timestamp     float64 `json:"timestamp"`
	BlurScore     float64 `json:"blur_score"` // Laplacian variance, higher = sharper
	Brightness    float64 `json:"brightness"` // 0-255
	Contrast      float64 `json:"contrast"`
	MotionScore   float64 `json:"motion_score"` // vs previous sampled frame
	IsDark        bool    `json:"is_dark"`
	IsOverexposed bool    `json:"is_overexposed"`
	IsBlurry      bool    `json:"is_blurry"`
}

// SceneChange is a detected scene cut point.
type SceneChange struct {
	Timestamp float64 `json:"timestamp"`
	Score     float64 `json:"score"`
}

// AudioPeak marks the midpoint of a non-silent audio region.
type AudioPeak struct {
	Timestamp float64 `json:"timestamp"`
	Amplitude float64 `json:"amplitude"`
}

// VideoAnalysis is the complete analysis record for one source video.
type VideoAnalysis struct {
	SourceFile   string        `json:"source_file"`
	Duration     float64       `json:"duration"`
	Width        int           `json:"width"`
	Height       int           `json:"height"`
	FPS          float64       `json:"fps"`
	HasAudio     bool          `json:"has_audio"`
	Codec        string        `json:"codec"`
	SceneChanges []SceneChange `json:"scene_changes"`
	FrameMetrics []FrameMetrics `json:"frame_metrics"`
	AudioPeaks   []AudioPeak   `json:"audio_peaks"`

	AvgBlur       float64 `json:"avg_blur"`
	AvgBrightness float64 `json:"avg_brightness"`
	AvgMotion     float64 `json:"avg_motion"`
	DarkRatio     float64 `json:"dark_ratio"`
	BlurryRatio   float64 `json:"blurry_ratio"`
}

// ComputeAggregates fills the whole-video aggregate stats from frame metrics.
func (a *VideoAnalysis) ComputeAggregates() {
	n := len(a.FrameMetrics)
	if n == 0 {
		return
	}

	var blur, brightness, motion float64
	var dark, blurry int
	for _, f := range a.FrameMetrics {
		blur += f.BlurScore
		brightness += f.Brightness
		motion += f.MotionScore
		if f.IsDark {
			dark++
		}
		if f.IsBlurry {
			blurry++
		}
	}

	fn := float64(n)
	a.AvgBlur = util.Round2(blur / fn)
	a.AvgBrightness = util.Round2(brightness / fn)
	a.AvgMotion = util.Round2(motion / fn)
	a.DarkRatio = util.Round3(float64(dark) / fn)
	a.BlurryRatio = util.Round3(float64(blurry) / fn)
}

// Save writes the analysis to a JSON file, creating parent directories.
func (a *VideoAnalysis) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Load reads a previously saved analysis JSON file.
func Load(path string) (*VideoAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a VideoAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}

	return &a, nil
}
