package ffmpeg

// VideoInfo contains metadata about a video file.
// Times are in seconds to match the analysis model.
type VideoInfo struct {
	FilePath     string
	Duration     float64
	Width        int
	Height       int
	FPS          float64
	Bitrate      int64
	VideoCodec   string
	HasAudio     bool
	AudioCodec   string
	AudioBitrate int64
}

// SceneCut is a detected scene change with the detector's confidence score
type SceneCut struct {
	Time  float64
	Score float64
}

// SilenceSpan represents a period of silence in the audio track
type SilenceSpan struct {
	Start    float64
	End      float64
	Duration float64
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// Default encoding settings for trimmed deliverables
const (
	DefaultCRF        = 18
	DefaultReportCRF  = 22
	DefaultPreset     = "veryfast"
	DefaultTargetFPS  = 30
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
)

// TrimOptions configures segment trimming
type TrimOptions struct {
	CRF          int
	Preset       string
	TargetFPS    int
	AudioBitrate string
	SkipExisting bool
}

// ReportOptions configures report-ready deliverable export
type ReportOptions struct {
	Width        int
	CRF          int
	BurnTimecode bool
	SkipExisting bool
}
