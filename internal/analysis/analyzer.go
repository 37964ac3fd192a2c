package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bgorzelic/skyforge/internal/ffmpeg"
)

// FrameSampler produces per-frame quality metrics for a source video.
// Metric extraction (blur, brightness, contrast, motion) happens outside
// this tool; implementations wrap whatever produced them.
type FrameSampler interface {
	SampleFrames(ctx context.Context, videoPath string, interval float64) ([]FrameMetrics, error)
}

// Analyzer assembles a complete VideoAnalysis from the collaborator
// outputs: ffprobe metadata, scene detection, silence-derived audio peaks,
// and sampled frame metrics.
type Analyzer struct {
	logger         zerolog.Logger
	exec           *ffmpeg.Executor
	sampler        FrameSampler
	sceneThreshold float64
}

// NewAnalyzer creates an analyzer around an ffmpeg executor and a sampler
func NewAnalyzer(logger zerolog.Logger, exec *ffmpeg.Executor, sampler FrameSampler, sceneThreshold float64) *Analyzer {
	return &Analyzer{
		logger:         logger.With().Str("component", "analyzer").Logger(),
		exec:           exec,
		sampler:        sampler,
		sceneThreshold: sceneThreshold,
	}
}

// Analyze runs the full analysis for a single source video
func (a *Analyzer) Analyze(ctx context.Context, videoPath string, sampleInterval float64) (*VideoAnalysis, error) {
	a.logger.Info().Str("video", videoPath).Msg("starting analysis")

	info, err := a.exec.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}

	va := &VideoAnalysis{
		SourceFile:   videoPath,
		Duration:     info.Duration,
		Width:        info.Width,
		Height:       info.Height,
		FPS:          info.FPS,
		HasAudio:     info.HasAudio,
		Codec:        info.VideoCodec,
		SceneChanges: []SceneChange{},
		FrameMetrics: []FrameMetrics{},
		AudioPeaks:   []AudioPeak{},
	}

	cuts, err := a.exec.DetectScenes(ctx, videoPath, a.sceneThreshold)
	if err != nil {
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}
	for _, c := range cuts {
		va.SceneChanges = append(va.SceneChanges, SceneChange{Timestamp: c.Time, Score: c.Score})
	}

	if info.HasAudio {
		spans, err := a.exec.DetectSilence(ctx, videoPath, -30.0, 1.0)
		if err != nil {
			return nil, fmt.Errorf("silence detection failed: %w", err)
		}
		va.AudioPeaks = PeaksFromSilence(spans, info.Duration)
	}

	frames, err := a.sampler.SampleFrames(ctx, videoPath, sampleInterval)
	if err != nil {
		return nil, fmt.Errorf("frame sampling failed: %w", err)
	}
	va.FrameMetrics = frames
	va.ComputeAggregates()

	a.logger.Info().
		Str("video", videoPath).
		Int("frames", len(va.FrameMetrics)).
		Int("scene_changes", len(va.SceneChanges)).
		Int("audio_peaks", len(va.AudioPeaks)).
		Msg("analysis complete")

	return va, nil
}

// PeaksFromSilence derives audio peaks from silence spans: one peak at the
// midpoint of each active region longer than a second. A fully non-silent
// track yields a single peak at the middle of the file.
func PeaksFromSilence(spans []ffmpeg.SilenceSpan, duration float64) []AudioPeak {
	if len(spans) == 0 {
		return []AudioPeak{{Timestamp: duration / 2, Amplitude: 0.8}}
	}

	var peaks []AudioPeak
	prevEnd := 0.0

	for _, s := range spans {
		if s.Start > prevEnd+1.0 {
			peaks = append(peaks, AudioPeak{
				Timestamp: (prevEnd + s.Start) / 2,
				Amplitude: 0.7,
			})
		}
		prevEnd = s.Start
	}

	for _, s := range spans {
		if s.End > prevEnd {
			prevEnd = s.End
		}
	}

	if duration > prevEnd+1.0 {
		peaks = append(peaks, AudioPeak{
			Timestamp: (prevEnd + duration) / 2,
			Amplitude: 0.7,
		})
	}

	return peaks
}
