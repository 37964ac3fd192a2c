// Package pipeline orchestrates the full per-source workflow: analyze,
// select, persist, and optionally cut segments to disk.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/catalog"
	"github.com/bgorzelic/skyforge/internal/config"
	"github.com/bgorzelic/skyforge/internal/export"
	"github.com/bgorzelic/skyforge/internal/ffmpeg"
	"github.com/bgorzelic/skyforge/internal/logging"
	"github.com/bgorzelic/skyforge/internal/selector"
	"github.com/bgorzelic/skyforge/pkg/util"
)

// Pipeline runs the analyze/select/export workflow over input videos
type Pipeline struct {
	logger zerolog.Logger
	cfg    *config.Config
	ffmpeg *ffmpeg.Executor
	store  *catalog.Store
}

// New creates a pipeline from application config. The catalog is opened
// only when enabled; a missing catalog degrades to a warning.
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	p := &Pipeline{
		logger: logger.With().Str("component", "pipeline").Logger(),
		cfg:    cfg,
		ffmpeg: exec,
	}

	if cfg.Catalog.Enabled {
		store, err := catalog.Open(cfg.Catalog.Path, logger)
		if err != nil {
			p.logger.Warn().Err(err).Msg("catalog unavailable, continuing without it")
		} else {
			p.store = store
		}
	}

	return p, nil
}

// Close releases pipeline resources
func (p *Pipeline) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// Process runs the workflow over all inputs with bounded concurrency.
// Results are returned in input order regardless of completion order.
func (p *Pipeline) Process(ctx context.Context, inputs []string, opts Options) ([]Result, Summary) {
	workers := p.cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	p.logger.Info().
		Int("inputs", len(inputs)).
		Int("workers", workers).
		Msg("starting selection pipeline")

	results := make([]Result, len(inputs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processOne(ctx, inputs[idx], opts)
			}
		}()
	}

dispatch:
	for i := range inputs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(inputs); j++ {
				results[j] = Result{Input: inputs[j], Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	summary := Summary{Sources: len(inputs)}
	var selections []selector.SelectionResult
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		selections = append(selections, r.Selection)
	}
	summary.Timeline = selector.BuildMasterTimeline(selections)

	p.logger.Info().
		Int("sources", summary.Sources).
		Int("failed", summary.Failed).
		Int("segments", summary.Timeline.TotalSegments).
		Float64("selected_duration", summary.Timeline.TotalSelectedDuration).
		Msg("selection pipeline complete")

	return results, summary
}

// Analyze runs the analysis stage alone for a single source
func (p *Pipeline) Analyze(ctx context.Context, input string) (*analysis.VideoAnalysis, error) {
	analyzer := analysis.NewAnalyzer(p.logger, p.ffmpeg, analysis.SidecarSampler{}, p.cfg.FFmpeg.SceneThreshold)
	return analyzer.Analyze(ctx, input, p.cfg.Selection.SampleInterval)
}

// processOne runs analyze, select, persist, and optional trim for a
// single source video.
func (p *Pipeline) processOne(ctx context.Context, input string, opts Options) Result {
	log := logging.WithSource(p.logger, filepath.Base(input))
	log.Info().Msg("processing source")

	a, err := p.Analyze(ctx, input)
	if err != nil {
		return Result{Input: input, Err: fmt.Errorf("analysis failed: %w", err)}
	}

	result := selector.Select(a, p.selectionOptions())
	log.Info().
		Int("segments", len(result.Segments)).
		Float64("selected", result.SelectedDuration).
		Float64("rejected", result.RejectedDuration).
		Msg("selection complete")

	stem := util.Stem(input)
	if err := a.Save(filepath.Join(opts.OutputDir, stem+".analysis.json")); err != nil {
		return Result{Input: input, Err: fmt.Errorf("failed to save analysis: %w", err)}
	}
	if err := export.SaveSelects(result, filepath.Join(opts.OutputDir, stem+".selects.json")); err != nil {
		return Result{Input: input, Err: fmt.Errorf("failed to save selects: %w", err)}
	}

	p.recordRun(ctx, input, a, result)

	var cuts []string
	if opts.Trim {
		cuts, err = p.cutSegments(ctx, result, opts)
		if err != nil {
			return Result{Input: input, Analysis: a, Selection: result, CutFiles: cuts, Err: err}
		}
	}

	return Result{Input: input, Analysis: a, Selection: result, CutFiles: cuts}
}

// cutSegments trims every selected segment from its source
func (p *Pipeline) cutSegments(ctx context.Context, result selector.SelectionResult, opts Options) ([]string, error) {
	var cuts []string
	for _, seg := range result.Segments {
		cut := ffmpeg.SegmentCut{
			SourceFile: seg.SourceFile,
			SegmentID:  seg.SegmentID,
			StartTime:  seg.StartTime,
			EndTime:    seg.EndTime,
			Duration:   seg.Duration,
			HasAudio:   seg.HasAudio,
			ReasonTags: seg.ReasonTags,
		}

		var out string
		var err error
		if opts.Report {
			out, err = p.ffmpeg.ExportReportReady(ctx, cut, opts.OutputDir, ffmpeg.ReportOptions{
				Width:        p.cfg.FFmpeg.ReportWidth,
				CRF:          p.cfg.FFmpeg.ReportCRF,
				BurnTimecode: p.cfg.Export.BurnTimecode,
				SkipExisting: p.cfg.Export.SkipExisting,
			})
		} else {
			out, err = p.ffmpeg.TrimSegment(ctx, cut, opts.OutputDir, ffmpeg.TrimOptions{
				CRF:          p.cfg.FFmpeg.CRF,
				Preset:       p.cfg.FFmpeg.Preset,
				TargetFPS:    p.cfg.FFmpeg.TargetFPS,
				AudioBitrate: "192k",
				SkipExisting: p.cfg.Export.SkipExisting,
			})
		}
		if err != nil {
			return cuts, fmt.Errorf("failed to cut segment %d: %w", seg.SegmentID, err)
		}
		cuts = append(cuts, out)
	}
	return cuts, nil
}

// recordRun persists the run in the catalog when available. Catalog
// failures are logged, never fatal.
func (p *Pipeline) recordRun(ctx context.Context, input string, a *analysis.VideoAnalysis, result selector.SelectionResult) {
	if p.store == nil {
		return
	}

	sourceID, err := p.store.UpsertSource(ctx, &catalog.Source{
		Path:       input,
		Duration:   a.Duration,
		Width:      a.Width,
		Height:     a.Height,
		HasAudio:   a.HasAudio,
		AnalyzedAt: time.Now(),
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("source", input).Msg("failed to catalog source")
		return
	}

	if _, err := p.store.RecordRun(ctx, sourceID, &result); err != nil {
		p.logger.Warn().Err(err).Str("source", input).Msg("failed to catalog run")
	}
}

func (p *Pipeline) selectionOptions() selector.Options {
	return selector.Options{
		MinSegment:    p.cfg.Selection.MinSegment,
		MaxSegment:    p.cfg.Selection.MaxSegment,
		MinConfidence: p.cfg.Selection.MinConfidence,
		BlurThreshold: p.cfg.Selection.BlurThreshold,
		DarkThreshold: p.cfg.Selection.DarkThreshold,
	}
}
