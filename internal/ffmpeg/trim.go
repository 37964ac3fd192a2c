package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bgorzelic/skyforge/pkg/util"
)

// SegmentCut describes a selected span to lift out of a source file
type SegmentCut struct {
	SourceFile string
	SegmentID  int
	StartTime  float64
	EndTime    float64
	Duration   float64
	HasAudio   bool
	ReasonTags []string
}

// TrimSegment cuts a selected segment out of its source video.
// Output filename: <source>__seg###__<start>-<end>__<tags>.mp4
func (e *Executor) TrimSegment(ctx context.Context, cut SegmentCut, outputDir string, opts TrimOptions) (string, error) {
	if err := util.EnsureDir(outputDir); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	output := filepath.Join(outputDir, cutFilename(cut, tagSuffix(cut.ReasonTags)))
	if opts.SkipExisting && util.FileExists(output) {
		return output, nil
	}

	crf := opts.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	fps := opts.TargetFPS
	if fps == 0 {
		fps = DefaultTargetFPS
	}
	audioBitrate := opts.AudioBitrate
	if audioBitrate == "" {
		audioBitrate = "256k"
	}

	args := []string{
		"-ss", util.FormatSeconds(cut.StartTime),
		"-i", cut.SourceFile,
		"-t", util.FormatSeconds(cut.Duration),
		"-c:v", DefaultVideoCodec,
		"-pix_fmt", "yuv420p",
		"-preset", preset,
		"-crf", fmt.Sprintf("%d", crf),
		"-fps_mode", "cfr",
		"-r", fmt.Sprintf("%d", fps),
	}
	args = append(args, audioArgs(cut.HasAudio, audioBitrate)...)
	args = append(args, "-movflags", "+faststart", output)

	if err := e.Run(ctx, RunOptions{Args: args, ProgressHandler: e.logProgress(cut.SegmentID)}); err != nil {
		return "", fmt.Errorf("trim failed for segment %d: %w", cut.SegmentID, err)
	}

	return output, nil
}

// ExportReportReady creates a review deliverable: scaled down with the source
// timecode and filename burned in.
func (e *Executor) ExportReportReady(ctx context.Context, cut SegmentCut, outputDir string, opts ReportOptions) (string, error) {
	if err := util.EnsureDir(outputDir); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	output := filepath.Join(outputDir, cutFilename(cut, "report"))
	if opts.SkipExisting && util.FileExists(output) {
		return output, nil
	}

	width := opts.Width
	if width == 0 {
		width = 1920
	}
	crf := opts.CRF
	if crf == 0 {
		crf = DefaultReportCRF
	}

	filters := []string{fmt.Sprintf("scale=%d:-2", width)}
	if opts.BurnTimecode {
		src := sourceStem(cut.SourceFile)
		filters = append(filters,
			fmt.Sprintf(`drawtext=text='%%{pts\:hms\:%g}':fontsize=24:fontcolor=white:borderw=2:bordercolor=black:x=10:y=h-40`, cut.StartTime),
			fmt.Sprintf(`drawtext=text='%s':fontsize=18:fontcolor=white@0.7:borderw=1:bordercolor=black:x=10:y=10`, src),
		)
	}

	args := []string{
		"-ss", util.FormatSeconds(cut.StartTime),
		"-i", cut.SourceFile,
		"-t", util.FormatSeconds(cut.Duration),
		"-vf", strings.Join(filters, ","),
		"-c:v", DefaultVideoCodec,
		"-pix_fmt", "yuv420p",
		"-preset", DefaultPreset,
		"-crf", fmt.Sprintf("%d", crf),
		"-fps_mode", "cfr",
		"-r", fmt.Sprintf("%d", DefaultTargetFPS),
	}
	args = append(args, audioArgs(cut.HasAudio, "192k")...)
	args = append(args, "-movflags", "+faststart", output)

	if err := e.Run(ctx, RunOptions{Args: args, ProgressHandler: e.logProgress(cut.SegmentID)}); err != nil {
		return "", fmt.Errorf("report export failed for segment %d: %w", cut.SegmentID, err)
	}

	return output, nil
}

func (e *Executor) logProgress(segmentID int) ProgressFunc {
	return func(p *Progress) {
		e.logger.Debug().
			Int("segment", segmentID).
			Int("frame", p.Frame).
			Str("time", p.Time).
			Str("speed", p.Speed).
			Msg("encoding progress")
	}
}

func audioArgs(hasAudio bool, bitrate string) []string {
	if hasAudio {
		return []string{"-c:a", DefaultAudioCodec, "-b:a", bitrate}
	}
	return []string{"-an"}
}

func cutFilename(cut SegmentCut, suffix string) string {
	return fmt.Sprintf("%s__seg%03d__%s-%s__%s.mp4",
		sourceStem(cut.SourceFile),
		cut.SegmentID,
		util.FilenameTime(cut.StartTime),
		util.FilenameTime(cut.EndTime),
		suffix,
	)
}

func tagSuffix(tags []string) string {
	if len(tags) == 0 {
		return "clip"
	}
	if len(tags) > 3 {
		tags = tags[:3]
	}
	return strings.Join(tags, "_")
}

func sourceStem(path string) string {
	return strings.ReplaceAll(util.Stem(path), "_norm", "")
}
