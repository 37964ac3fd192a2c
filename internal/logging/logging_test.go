package logging

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithSource(t *testing.T) {
	var buf strings.Builder
	base := zerolog.New(&buf)

	logger := WithSource(base, "DJI_0001.MP4")
	logger.Info().Msg("processing source")

	line := buf.String()
	if !strings.Contains(line, `"source":"DJI_0001.MP4"`) {
		t.Errorf("log line = %q, want source field", line)
	}
}
