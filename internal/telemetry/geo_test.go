package telemetry

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gpsFrame(seconds, lon, lat, height, speed float64) Frame {
	return Frame{
		Seconds:      seconds,
		Longitude:    &lon,
		Latitude:     &lat,
		HeightM:      &height,
		HorizontalMS: &speed,
	}
}

func TestHaversine(t *testing.T) {
	// Same point
	assert.Equal(t, 0.0, Haversine(37.5687, -119.9370, 37.5687, -119.9370))

	// One degree of latitude is about 111.2 km
	d := Haversine(37.0, -119.0, 38.0, -119.0)
	assert.InDelta(t, 111195, d, 200)

	// Short hop stays in the tens of meters
	d = Haversine(37.568775, -119.937027, 37.568801, -119.937102)
	assert.Greater(t, d, 1.0)
	assert.Less(t, d, 20.0)
}

func TestCalculateGeoStats(t *testing.T) {
	frames := []Frame{
		gpsFrame(0, -119.9370, 37.5687, 1.2, 0.0),
		gpsFrame(30, -119.9371, 37.5688, 42.7, 8.5),
		gpsFrame(60, -119.9375, 37.5690, 30.0, 4.1),
	}

	stats, err := CalculateGeoStats(frames)
	require.NoError(t, err)

	assert.Greater(t, stats.TotalDistanceM, 0.0)
	assert.Equal(t, 42.7, stats.MaxAltitudeM)
	assert.Equal(t, 1.2, stats.MinAltitudeM)
	assert.Equal(t, 8.5, stats.MaxSpeedMS)
	assert.InDelta(t, (0.0+8.5+4.1)/3, stats.AvgSpeedMS, 1e-9)
	assert.Equal(t, 60.0, stats.DurationS)
	assert.Equal(t, [2]float64{-119.9370, 37.5687}, stats.StartCoords)
	assert.Equal(t, [2]float64{-119.9375, 37.5690}, stats.EndCoords)
	assert.Equal(t, [4]float64{37.5687, -119.9375, 37.5690, -119.9370}, stats.BBox)
}

func TestCalculateGeoStatsNoGPS(t *testing.T) {
	_, err := CalculateGeoStats([]Frame{{Seconds: 0}, {Seconds: 1}})
	require.Error(t, err)
}

func TestCalculateGeoStatsSkipsFramesWithoutFix(t *testing.T) {
	// Distance must be computed between consecutive fixes only
	frames := []Frame{
		gpsFrame(0, -119.9370, 37.5687, 1.2, 0.0),
		{Seconds: 1},
		gpsFrame(2, -119.9371, 37.5688, 5.0, 2.0),
	}

	stats, err := CalculateGeoStats(frames)
	require.NoError(t, err)
	assert.Greater(t, stats.TotalDistanceM, 0.0)
	assert.Equal(t, 2.0, stats.DurationS)
}

func TestWriteGeoJSON(t *testing.T) {
	frames := []Frame{
		gpsFrame(0, -119.9370, 37.5687, 1.2, 0.0),
		{Seconds: 1},
		gpsFrame(2, -119.9371, 37.5688, 42.7, 8.5),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, frames, "DJI_0001"))

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string          `json:"type"`
				Coordinates json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 3)

	track := doc.Features[0]
	assert.Equal(t, "LineString", track.Geometry.Type)
	assert.Equal(t, "DJI_0001", track.Properties["name"])

	var coords [][3]float64
	require.NoError(t, json.Unmarshal(track.Geometry.Coordinates, &coords))
	require.Len(t, coords, 2)
	assert.Equal(t, [3]float64{-119.9370, 37.5687, 1.2}, coords[0])

	assert.Equal(t, "Point", doc.Features[1].Geometry.Type)
	assert.Equal(t, "Start", doc.Features[1].Properties["name"])
	assert.Equal(t, "End", doc.Features[2].Properties["name"])
}

func TestWriteGeoJSONNoGPS(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, []Frame{{Seconds: 0}}, ""))

	var doc struct {
		Type     string `json:"type"`
		Features []any  `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	assert.Empty(t, doc.Features)
}
