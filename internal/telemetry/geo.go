package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
)

const earthRadiusM = 6371000.0

// GeoStats aggregates the geographic track of a flight
type GeoStats struct {
	TotalDistanceM float64    `json:"total_distance_m"`
	MaxAltitudeM   float64    `json:"max_altitude_m"`
	MinAltitudeM   float64    `json:"min_altitude_m"`
	AvgSpeedMS     float64    `json:"avg_speed_ms"`
	MaxSpeedMS     float64    `json:"max_speed_ms"`
	DurationS      float64    `json:"duration_s"`
	StartCoords    [2]float64 `json:"start_coords"` // lon, lat
	EndCoords      [2]float64 `json:"end_coords"`
	BBox           [4]float64 `json:"bbox"` // min_lat, min_lon, max_lat, max_lon
}

// Haversine returns the great-circle distance in meters between two
// GPS points given in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lon1r := lon1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	lon2r := lon2 * math.Pi / 180

	dlat := lat2r - lat1r
	dlon := lon2r - lon1r

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// CalculateGeoStats computes flight-track statistics from telemetry frames.
// Track distance and bounding box use only frames with a GPS fix; altitude
// and speed stats use every frame that carries the value.
func CalculateGeoStats(frames []Frame) (GeoStats, error) {
	var gps []Frame
	for _, f := range frames {
		if f.HasGPS() {
			gps = append(gps, f)
		}
	}
	if len(gps) == 0 {
		return GeoStats{}, fmt.Errorf("no frames with GPS data")
	}

	var stats GeoStats

	for i := 1; i < len(gps); i++ {
		prev, curr := gps[i-1], gps[i]
		stats.TotalDistanceM += Haversine(
			*prev.Latitude, *prev.Longitude,
			*curr.Latitude, *curr.Longitude,
		)
	}

	first := true
	for _, f := range frames {
		if f.HeightM == nil {
			continue
		}
		if first || *f.HeightM > stats.MaxAltitudeM {
			stats.MaxAltitudeM = *f.HeightM
		}
		if first || *f.HeightM < stats.MinAltitudeM {
			stats.MinAltitudeM = *f.HeightM
		}
		first = false
	}

	var speedSum float64
	var speedCount int
	for _, f := range frames {
		if f.HorizontalMS == nil {
			continue
		}
		speedSum += *f.HorizontalMS
		speedCount++
		if *f.HorizontalMS > stats.MaxSpeedMS {
			stats.MaxSpeedMS = *f.HorizontalMS
		}
	}
	if speedCount > 0 {
		stats.AvgSpeedMS = speedSum / float64(speedCount)
	}

	if len(frames) > 1 {
		stats.DurationS = frames[len(frames)-1].Seconds - frames[0].Seconds
	}

	stats.BBox = [4]float64{*gps[0].Latitude, *gps[0].Longitude, *gps[0].Latitude, *gps[0].Longitude}
	for _, f := range gps[1:] {
		stats.BBox[0] = math.Min(stats.BBox[0], *f.Latitude)
		stats.BBox[1] = math.Min(stats.BBox[1], *f.Longitude)
		stats.BBox[2] = math.Max(stats.BBox[2], *f.Latitude)
		stats.BBox[3] = math.Max(stats.BBox[3], *f.Longitude)
	}

	stats.StartCoords = [2]float64{*gps[0].Longitude, *gps[0].Latitude}
	stats.EndCoords = [2]float64{*gps[len(gps)-1].Longitude, *gps[len(gps)-1].Latitude}

	return stats, nil
}

// GeoJSON feature collection types, enough surface for flight tracks
type geoJSONGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type geoJSONFeature struct {
	Type       string            `json:"type"`
	Geometry   geoJSONGeometry   `json:"geometry"`
	Properties map[string]string `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// WriteGeoJSON exports the flight track as a GeoJSON FeatureCollection:
// one LineString for the track and Point markers for start and end.
// Coordinates follow the GeoJSON order [lon, lat, altitude].
func WriteGeoJSON(w io.Writer, frames []Frame, name string) error {
	var coords [][3]float64
	for _, f := range frames {
		if !f.HasGPS() {
			continue
		}
		alt := 0.0
		if f.HeightM != nil {
			alt = *f.HeightM
		}
		coords = append(coords, [3]float64{*f.Longitude, *f.Latitude, alt})
	}

	collection := geoJSONCollection{Type: "FeatureCollection", Features: []geoJSONFeature{}}

	if len(coords) > 0 {
		if name == "" {
			name = "Flight Track"
		}
		collection.Features = append(collection.Features,
			geoJSONFeature{
				Type:       "Feature",
				Geometry:   geoJSONGeometry{Type: "LineString", Coordinates: coords},
				Properties: map[string]string{"name": name},
			},
			geoJSONFeature{
				Type:       "Feature",
				Geometry:   geoJSONGeometry{Type: "Point", Coordinates: coords[0]},
				Properties: map[string]string{"name": "Start", "marker-color": "#00ff00"},
			},
			geoJSONFeature{
				Type:       "Feature",
				Geometry:   geoJSONGeometry{Type: "Point", Coordinates: coords[len(coords)-1]},
				Properties: map[string]string{"name": "End", "marker-color": "#ff0000"},
			},
		)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(collection)
}
