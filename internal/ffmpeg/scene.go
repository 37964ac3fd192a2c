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

var scdetPattern = regexp.MustCompile(`lavfi\.scd\.time:\s*([\d.]+).*?lavfi\.scd\.score:\s*([\d.]+)`)

// DetectScenes finds scene changes using the scdet filter. Each cut carries
// the detector's score so callers can filter or rank on cut strength.
func (e *Executor) DetectScenes(ctx context.Context, input string, threshold float64) ([]SceneCut, error) {
	e.logger.Info().
		Str("input", input).
		Float64("threshold", threshold).
		Msg("detecting scene changes")

	var stderrBuf bytes.Buffer
	var mu sync.Mutex

	opts := RunOptions{
		Args: []string{
			"-i", input,
			"-vf", fmt.Sprintf("scdet=threshold=%g:sc_pass=1", threshold),
			"-an",
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
		// Null muxer runs report conversion errors even on success
		if !strings.Contains(err.Error(), "Conversion failed") &&
			!strings.Contains(err.Error(), "Invalid return value") &&
			!strings.Contains(err.Error(), "Output file is empty") {
			return nil, fmt.Errorf("scene detection failed: %w", err)
		}
	}

	scenes := parseSceneOutput(output)
	e.logger.Info().Int("scenes", len(scenes)).Msg("scene detection complete")
	return scenes, nil
}

// parseSceneOutput extracts scdet timestamps and scores from ffmpeg stderr
func parseSceneOutput(output string) []SceneCut {
	var scenes []SceneCut

	for _, line := range strings.Split(output, "\n") {
		m := scdetPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		ts, err1 := strconv.ParseFloat(m[1], 64)
		score, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}

		scenes = append(scenes, SceneCut{Time: ts, Score: score})
	}

	return scenes
}
