// Package telemetry parses drone SRT subtitle telemetry into structured
// per-frame records: camera exposure settings, altitude, distance, speeds,
// and GPS position.
package telemetry

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bgorzelic/skyforge/pkg/util"
)

// Frame is a single telemetry data point from a drone SRT file. Pointer
// fields are nil when the telemetry line did not match the known format.
type Frame struct {
	Index          int      `json:"index"`
	TimestampStart string   `json:"timestamp_start"`
	TimestampEnd   string   `json:"timestamp_end"`
	Seconds        float64  `json:"seconds"`
	FStop          *float64 `json:"f_stop"`
	ShutterSpeed   *string  `json:"shutter_speed"`
	ISO            *int     `json:"iso"`
	EV             *float64 `json:"ev"`
	HeightM        *float64 `json:"height_m"`
	DistanceM      *float64 `json:"distance_m"`
	HorizontalMS   *float64 `json:"horizontal_speed_ms"`
	DescentMS      *float64 `json:"descent_speed_ms"`
	Longitude      *float64 `json:"longitude"`
	Latitude       *float64 `json:"latitude"`
	Zoom           *float64 `json:"zoom"`
}

// HasGPS reports whether the frame carries a usable GPS fix
func (f *Frame) HasGPS() bool {
	return f.Latitude != nil && f.Longitude != nil && *f.Latitude != 0.0
}

// Telemetry line format, e.g.:
// F1.8 SS:1/1603 ISO: 114 EV:0.0 H:1.2m D:0.1m HS:0.0m/s DS:0.1m/s GPS:(-119.937027,37.568775) ZOOM:1.10X
var (
	telemetryPattern = regexp.MustCompile(
		`F([\d.]+)\s+` +
			`SS:([\d/]+)\s+` +
			`ISO:\s*(\d+)\s+` +
			`EV:([-\d.]+)\s+` +
			`H:([\d.]+)m\s+` +
			`D:([\d.]+)m\s+` +
			`HS:([\d.]+)m/s\s+` +
			`DS:([\d.]+)m/s\s+` +
			`GPS:\(([-\d.]+),([-\d.]+)\)\s*` +
			`ZOOM:([\d.]+)X`)

	timestampPattern = regexp.MustCompile(`(\d{2}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2}:\d{2}:\d{2},\d{3})`)
	formattingTags   = regexp.MustCompile(`\{[^}]*\}`)
)

// ParseSRT reads SRT telemetry from r. Blocks that do not look like
// subtitle entries are skipped; entries whose telemetry line does not
// match the known pattern keep only index and timing.
func ParseSRT(r io.Reader) ([]Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read telemetry: %w", err)
	}

	var frames []Frame

	for _, block := range strings.Split(strings.TrimSpace(string(data)), "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 3 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			continue
		}

		ts := timestampPattern.FindStringSubmatch(lines[1])
		if ts == nil {
			continue
		}

		seconds, err := util.ParseTimestamp(ts[1])
		if err != nil {
			continue
		}

		frame := Frame{
			Index:          index,
			TimestampStart: ts[1],
			TimestampEnd:   ts[2],
			Seconds:        seconds,
		}

		// Strip ASS/SSA formatting before matching
		line := formattingTags.ReplaceAllString(strings.Join(lines[2:], " "), "")
		if m := telemetryPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			frame.FStop = parseFloatPtr(m[1])
			frame.ShutterSpeed = strPtr(m[2])
			frame.ISO = parseIntPtr(m[3])
			frame.EV = parseFloatPtr(m[4])
			frame.HeightM = parseFloatPtr(m[5])
			frame.DistanceM = parseFloatPtr(m[6])
			frame.HorizontalMS = parseFloatPtr(m[7])
			frame.DescentMS = parseFloatPtr(m[8])
			frame.Longitude = parseFloatPtr(m[9])
			frame.Latitude = parseFloatPtr(m[10])
			frame.Zoom = parseFloatPtr(m[11])
		}

		frames = append(frames, frame)
	}

	return frames, nil
}

// WriteJSON exports telemetry frames as a JSON array
func WriteJSON(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frames)
}

// WriteCSV exports telemetry frames as flat CSV rows
func WriteCSV(w io.Writer, frames []Frame) error {
	cw := csv.NewWriter(w)

	header := []string{
		"index", "timestamp_start", "timestamp_end", "seconds",
		"f_stop", "shutter_speed", "iso", "ev", "height_m", "distance_m",
		"horizontal_speed_ms", "descent_speed_ms", "longitude", "latitude", "zoom",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Index),
			f.TimestampStart,
			f.TimestampEnd,
			strconv.FormatFloat(f.Seconds, 'g', -1, 64),
			floatField(f.FStop),
			strField(f.ShutterSpeed),
			intField(f.ISO),
			floatField(f.EV),
			floatField(f.HeightM),
			floatField(f.DistanceM),
			floatField(f.HorizontalMS),
			floatField(f.DescentMS),
			floatField(f.Longitude),
			floatField(f.Latitude),
			floatField(f.Zoom),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// Summary aggregates a flight's telemetry
type Summary struct {
	TotalFrames int      `json:"total_frames"`
	DurationS   float64  `json:"duration_s"`
	GPSPoints   int      `json:"gps_points"`
	MaxHeightM  *float64 `json:"max_height_m"`
	MaxSpeedMS  *float64 `json:"max_speed_ms"`
	MaxDistM    *float64 `json:"max_distance_m"`
}

// Summarize computes flight-level stats from parsed frames
func Summarize(frames []Frame) Summary {
	s := Summary{TotalFrames: len(frames)}
	if len(frames) == 0 {
		return s
	}

	s.DurationS = frames[len(frames)-1].Seconds

	for _, f := range frames {
		if f.HasGPS() {
			s.GPSPoints++
		}
		s.MaxHeightM = maxPtr(s.MaxHeightM, f.HeightM)
		s.MaxSpeedMS = maxPtr(s.MaxSpeedMS, f.HorizontalMS)
		s.MaxDistM = maxPtr(s.MaxDistM, f.DistanceM)
	}

	return s
}

func maxPtr(current, candidate *float64) *float64 {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate > *current {
		v := *candidate
		return &v
	}
	return current
}

func parseFloatPtr(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func strPtr(s string) *string {
	return &s
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func intField(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func strField(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
