package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var (
	silenceStartPattern = regexp.MustCompile(`silence_start:\s*([\d.]+)`)
	silenceEndPattern   = regexp.MustCompile(`silence_end:\s*([\d.]+)`)
)

// DetectSilence finds silence spans using the silencedetect filter
func (e *Executor) DetectSilence(ctx context.Context, input string, noiseDB float64, minDuration float64) ([]SilenceSpan, error) {
	e.logger.Info().
		Str("input", input).
		Float64("noise_db", noiseDB).
		Float64("min_duration", minDuration).
		Msg("detecting silence")

	var stderrBuf bytes.Buffer
	var mu sync.Mutex

	opts := RunOptions{
		Args: []string{
			"-i", input,
			"-af", fmt.Sprintf("silencedetect=noise=%gdB:d=%g", noiseDB, minDuration),
			"-f", "null",
			"-",
		},
		LogHandler: func(line string) {
			mu.Lock()
			stderrBuf.WriteString(line + "\n")
			mu.Unlock()
		},
	}

	err := e.Run(ctx, opts)

	mu.Lock()
	output := stderrBuf.String()
	mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !strings.Contains(err.Error(), "Conversion failed") &&
			!strings.Contains(err.Error(), "Invalid return value") &&
			!strings.Contains(err.Error(), "Output file is empty") {
			return nil, fmt.Errorf("silence detection failed: %w", err)
		}
	}

	spans := parseSilenceOutput(output)
	e.logger.Info().Int("spans", len(spans)).Msg("silence detection complete")
	return spans, nil
}

// parseSilenceOutput pairs silence_start/silence_end lines into spans.
// A trailing start without an end means silence runs to end of file; the
// span is emitted with End == 0 and the caller clamps it.
func parseSilenceOutput(output string) []SilenceSpan {
	var spans []SilenceSpan
	var current *SilenceSpan

	for _, line := range strings.Split(output, "\n") {
		if m := silenceStartPattern.FindStringSubmatch(line); m != nil {
			if start, err := strconv.ParseFloat(m[1], 64); err == nil {
				current = &SilenceSpan{Start: start}
			}
			continue
		}

		if m := silenceEndPattern.FindStringSubmatch(line); m != nil {
			if current == nil {
				continue
			}
			if end, err := strconv.ParseFloat(m[1], 64); err == nil {
				current.End = end
				current.Duration = end - current.Start
				spans = append(spans, *current)
				current = nil
			}
		}
	}

	if current != nil {
		spans = append(spans, *current)
	}

	return spans
}
