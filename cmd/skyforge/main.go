package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/catalog"
	"github.com/bgorzelic/skyforge/internal/config"
	"github.com/bgorzelic/skyforge/internal/export"
	"github.com/bgorzelic/skyforge/internal/logging"
	"github.com/bgorzelic/skyforge/internal/pipeline"
	"github.com/bgorzelic/skyforge/internal/selector"
	"github.com/bgorzelic/skyforge/internal/telemetry"
	"github.com/bgorzelic/skyforge/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyforge",
	Short: "skyforge - drone footage quality scoring and segment selection",
	Long:  "Scores sampled video frames for quality, groups them into usable runs, and selects report-ready segments with confidence ratings and reason tags.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./skyforge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(telemetryCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	selectOutput        string
	selectTrim          bool
	selectReport        bool
	selectMinSegment    float64
	selectMaxSegment    float64
	selectMinConfidence float64
)

var selectCmd = &cobra.Command{
	Use:   "select [video files or .analysis.json files...]",
	Short: "Analyze videos and select the best segments",
	Long:  "Runs the full analyze-and-select pipeline over video files. Saved .analysis.json files are re-selected directly without touching ffmpeg.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		applySelectionFlags(cmd, cfg)

		if strings.HasSuffix(args[0], ".analysis.json") {
			return reselect(cfg, args)
		}

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}
		defer pipe.Close()

		opts := pipeline.Options{
			OutputDir: selectOutput,
			Trim:      selectTrim,
			Report:    selectReport,
		}

		results, summary := pipe.Process(cmd.Context(), args, opts)
		for _, r := range results {
			if r.Err != nil {
				log.Error().Err(r.Err).Str("source", r.Input).Msg("source failed")
			}
		}

		timelinePath := filepath.Join(selectOutput, "master_timeline.json")
		if err := export.SaveMasterTimeline(summary.Timeline, timelinePath); err != nil {
			return fmt.Errorf("failed to save master timeline: %w", err)
		}

		log.Info().
			Int("sources", summary.Sources).
			Int("failed", summary.Failed).
			Int("segments", summary.Timeline.TotalSegments).
			Str("timeline", timelinePath).
			Msg("selection complete")

		if summary.Failed > 0 {
			return fmt.Errorf("%d of %d sources failed", summary.Failed, summary.Sources)
		}
		return nil
	},
}

// applySelectionFlags overrides config selection knobs with any flags the
// user set explicitly
func applySelectionFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("min-segment") {
		cfg.Selection.MinSegment = selectMinSegment
	}
	if cmd.Flags().Changed("max-segment") {
		cfg.Selection.MaxSegment = selectMaxSegment
	}
	if cmd.Flags().Changed("min-confidence") {
		cfg.Selection.MinConfidence = selectMinConfidence
	}
}

// reselect re-runs segment selection from saved analysis files, skipping
// the ffmpeg stages entirely.
func reselect(cfg *config.Config, paths []string) error {
	opts := selector.Options{
		MinSegment:    cfg.Selection.MinSegment,
		MaxSegment:    cfg.Selection.MaxSegment,
		MinConfidence: cfg.Selection.MinConfidence,
		BlurThreshold: cfg.Selection.BlurThreshold,
		DarkThreshold: cfg.Selection.DarkThreshold,
	}

	var results []selector.SelectionResult
	for _, path := range paths {
		a, err := analysis.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}

		result := selector.Select(a, opts)
		results = append(results, result)

		outPath := filepath.Join(selectOutput, strings.TrimSuffix(filepath.Base(path), ".analysis.json")+".selects.json")
		if err := export.SaveSelects(result, outPath); err != nil {
			return fmt.Errorf("failed to save selects: %w", err)
		}

		log.Info().
			Str("source", result.SourceFile).
			Int("segments", len(result.Segments)).
			Float64("selected", result.SelectedDuration).
			Msg("re-selection complete")
	}

	timeline := selector.BuildMasterTimeline(results)
	timelinePath := filepath.Join(selectOutput, "master_timeline.json")
	if err := export.SaveMasterTimeline(timeline, timelinePath); err != nil {
		return fmt.Errorf("failed to save master timeline: %w", err)
	}

	log.Info().
		Int("sources", timeline.TotalSources).
		Int("segments", timeline.TotalSegments).
		Str("timeline", timelinePath).
		Msg("selection complete")

	return nil
}

var analyzeOutput string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [video file]",
	Short: "Analyze a video and write its metrics JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}
		defer pipe.Close()

		a, err := pipe.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		outPath := filepath.Join(analyzeOutput, util.Stem(args[0])+".analysis.json")
		if err := a.Save(outPath); err != nil {
			return err
		}

		log.Info().
			Str("output", outPath).
			Float64("duration", a.Duration).
			Int("frames", len(a.FrameMetrics)).
			Int("scenes", len(a.SceneChanges)).
			Msg("analysis complete")

		return nil
	},
}

var (
	exportFormat string
	exportOutput string
	exportTitle  string
	exportFPS    float64
)

var exportCmd = &cobra.Command{
	Use:   "export [selects.json or analysis.json files...]",
	Short: "Export selection results as EDL or CSV",
	Long:  "Formats edl and csv read saved selects JSON; format frames reads saved analysis JSON and flattens per-frame metrics.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()

		count := 0
		switch exportFormat {
		case "edl", "csv":
			var results []selector.SelectionResult
			var segments []selector.Segment
			for _, path := range args {
				r, err := export.LoadSelects(path)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", path, err)
				}
				results = append(results, *r)
				segments = append(segments, r.Segments...)
			}
			count = len(segments)

			if exportFormat == "edl" {
				_, err = out.WriteString(export.GenerateEDL(segments, exportTitle, exportFPS))
			} else {
				err = export.WriteSegmentsCSV(out, results)
			}
			if err != nil {
				return err
			}

		case "frames":
			var analyses []*analysis.VideoAnalysis
			for _, path := range args {
				a, err := analysis.Load(path)
				if err != nil {
					return fmt.Errorf("failed to load %s: %w", path, err)
				}
				analyses = append(analyses, a)
				count += len(a.FrameMetrics)
			}
			if err := export.WriteFramesCSV(out, analyses); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown export format %q (want edl, csv, or frames)", exportFormat)
		}

		log.Info().
			Str("format", exportFormat).
			Str("output", exportOutput).
			Int("rows", count).
			Msg("export complete")

		return nil
	},
}

var (
	telemetryFormat string
	telemetryOutput string
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry [srt file]",
	Short: "Parse drone SRT telemetry into JSON or CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open telemetry: %w", err)
		}
		defer f.Close()

		frames, err := telemetry.ParseSRT(f)
		if err != nil {
			return err
		}

		out, err := os.Create(telemetryOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer out.Close()

		switch telemetryFormat {
		case "json":
			err = telemetry.WriteJSON(out, frames)
		case "csv":
			err = telemetry.WriteCSV(out, frames)
		case "geojson":
			err = telemetry.WriteGeoJSON(out, frames, util.Stem(args[0]))
		default:
			return fmt.Errorf("unknown telemetry format %q (want json, csv, or geojson)", telemetryFormat)
		}
		if err != nil {
			return err
		}

		s := telemetry.Summarize(frames)
		log.Info().
			Int("frames", s.TotalFrames).
			Float64("duration", s.DurationS).
			Int("gps_points", s.GPSPoints).
			Str("output", telemetryOutput).
			Msg("telemetry parsed")

		if s.GPSPoints > 0 {
			geo, err := telemetry.CalculateGeoStats(frames)
			if err != nil {
				return err
			}
			log.Info().
				Float64("distance_m", geo.TotalDistanceM).
				Float64("max_altitude_m", geo.MaxAltitudeM).
				Float64("max_speed_ms", geo.MaxSpeedMS).
				Msg("flight track")
		}

		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List cataloged sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if !cfg.Catalog.Enabled {
			return fmt.Errorf("catalog is disabled in config")
		}

		store, err := catalog.Open(cfg.Catalog.Path, log.Logger)
		if err != nil {
			return err
		}
		defer store.Close()

		sources, err := store.ListSources(cmd.Context())
		if err != nil {
			return err
		}

		for _, s := range sources {
			runs, err := store.ListRuns(cmd.Context(), s.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%-40s  %8.1fs  %dx%d  runs: %d\n",
				filepath.Base(s.Path), s.Duration, s.Width, s.Height, len(runs))
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		path := cfgFile
		if path == "" {
			path = "skyforge.yaml"
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	selectCmd.Flags().StringVarP(&selectOutput, "output", "o", "selects", "output directory")
	selectCmd.Flags().BoolVar(&selectTrim, "trim", false, "cut selected segments into files")
	selectCmd.Flags().BoolVar(&selectReport, "report", false, "export report-ready deliverables")
	selectCmd.Flags().Float64Var(&selectMinSegment, "min-segment", 5.0, "minimum segment duration in seconds")
	selectCmd.Flags().Float64Var(&selectMaxSegment, "max-segment", 25.0, "maximum segment duration in seconds")
	selectCmd.Flags().Float64Var(&selectMinConfidence, "min-confidence", 0.3, "minimum frame confidence to qualify")

	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", ".", "output directory")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "edl", "export format (edl, csv, or frames)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "selects.edl", "output file")
	exportCmd.Flags().StringVar(&exportTitle, "title", "SKYFORGE SELECTS", "EDL title")
	exportCmd.Flags().Float64Var(&exportFPS, "fps", 30, "EDL timecode frame rate")

	telemetryCmd.Flags().StringVarP(&telemetryFormat, "format", "f", "json", "output format (json, csv, or geojson)")
	telemetryCmd.Flags().StringVarP(&telemetryOutput, "output", "o", "telemetry.json", "output file")

	configCmd.AddCommand(configInitCmd)
}
