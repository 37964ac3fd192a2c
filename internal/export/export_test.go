package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgorzelic/skyforge/internal/analysis"
	"github.com/bgorzelic/skyforge/internal/selector"
)

func sampleResult() selector.SelectionResult {
	return selector.SelectionResult{
		SourceFile:    "/footage/DJI_0001.MP4",
		TotalDuration: 60,
		Segments: []selector.Segment{
			{
				SourceFile: "/footage/DJI_0001.MP4",
				SegmentID:  1,
				StartTime:  4,
				EndTime:    14,
				Duration:   10,
				Confidence: 0.95,
				ReasonTags: []string{"slow_pan", "clear"},
				Notes:      "High quality segment",
				HasAudio:   true,
			},
			{
				SourceFile: "/footage/DJI_0001.MP4",
				SegmentID:  2,
				StartTime:  20,
				EndTime:    32.5,
				Duration:   12.5,
				Confidence: 0.7,
				ReasonTags: []string{"moderate_motion"},
				Notes:      "Usable segment",
				HasAudio:   true,
			},
		},
		SelectedDuration: 22.5,
		RejectedDuration: 37.5,
	}
}

func TestSelectsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "selects", "DJI_0001.selects.json")
	result := sampleResult()

	require.NoError(t, SaveSelects(result, path))

	loaded, err := LoadSelects(path)
	require.NoError(t, err)
	assert.Equal(t, result, *loaded)
}

func TestSaveMasterTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master_timeline.json")
	timeline := selector.BuildMasterTimeline([]selector.SelectionResult{sampleResult()})

	require.NoError(t, SaveMasterTimeline(timeline, path))
}

func TestWriteSegmentsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSegmentsCSV(&buf, []selector.SelectionResult{sampleResult()}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source_file,segment_id,start_time,end_time,duration,confidence,reason_tags", lines[0])
	assert.Equal(t, "/footage/DJI_0001.MP4,1,4,14,10,0.95,slow_pan;clear", lines[1])
	assert.Equal(t, "/footage/DJI_0001.MP4,2,20,32.5,12.5,0.7,moderate_motion", lines[2])
}

func TestWriteFramesCSV(t *testing.T) {
	var buf bytes.Buffer
	analyses := []*analysis.VideoAnalysis{{
		SourceFile: "/footage/DJI_0001.MP4",
		FrameMetrics: []analysis.FrameMetrics{
			{Timestamp: 0, BlurScore: 150.5, Brightness: 120, Contrast: 50, MotionScore: 5, IsDark: false},
			{Timestamp: 1, BlurScore: 30, Brightness: 20, Contrast: 10, MotionScore: 0, IsDark: true, IsBlurry: true},
		},
	}}

	require.NoError(t, WriteFramesCSV(&buf, analyses))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source,timestamp,blur_score,brightness,contrast,motion_score,is_dark,is_overexposed,is_blurry", lines[0])
	assert.Equal(t, "DJI_0001,0,150.5,120,50,5,false,false,false", lines[1])
	assert.Equal(t, "DJI_0001,1,30,20,10,0,true,false,true", lines[2])
}

func TestGenerateEDL(t *testing.T) {
	edl := GenerateEDL(sampleResult().Segments, "SKYFORGE SELECTS", 30)

	assert.True(t, strings.HasPrefix(edl, "TITLE: SKYFORGE SELECTS\n"))
	assert.Contains(t, edl, "FCM: NON-DROP FRAME")

	// First event: source 4s-14s lands at record 0s-10s
	assert.Contains(t, edl, "001  AX       V     C        00:00:04:00 00:00:14:00 00:00:00:00 00:00:10:00")
	// Second event continues the record track at 10s
	assert.Contains(t, edl, "002  AX       V     C        00:00:20:00 00:00:32:15 00:00:10:00 00:00:22:15")
	assert.Contains(t, edl, "* FROM CLIP NAME:  DJI_0001 seg001")
	assert.Contains(t, edl, "* MEDIA PATH:  /footage/DJI_0001.MP4")
}

func TestGenerateEDLDropFrame(t *testing.T) {
	edl := GenerateEDL(nil, "EMPTY", 29.97)
	assert.Contains(t, edl, "FCM: DROP FRAME")
}

func TestSecondsToTimecode(t *testing.T) {
	tests := []struct {
		seconds float64
		fps     int
		want    string
	}{
		{0, 30, "00:00:00:00"},
		{1.5, 30, "00:00:01:15"},
		{61, 24, "00:01:01:00"},
		{3600, 30, "01:00:00:00"},
		{59.9666, 30, "00:00:59:29"},
	}
	for _, tt := range tests {
		got := secondsToTimecode(tt.seconds, tt.fps)
		assert.Equal(t, tt.want, got, "seconds %v fps %d", tt.seconds, tt.fps)
	}
}
