// Package gpx decodes uploaded GPX track logs into the raw sample stream
// the track engine consumes. XML handling is delegated to gpxgo; this
// package only flattens tracks/segments and maps missing elevation or time
// to absent values.
package gpx

import (
	"errors"
	"fmt"

	"backend-runplan/internal/track"

	"github.com/tkrajina/gpxgo/gpx"
)

var (
	ErrMalformedGPX  = errors.New("malformed gpx document")
	ErrNoTrackPoints = errors.New("gpx file contains no track points")
)

// DeclaredWaypoint is a <wpt> element from the uploaded file. These seed the
// route's planned waypoints; they are not engine input.
type DeclaredWaypoint struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ElevationM  *float64 `json:"elevation,omitempty"`
}

// Decode parses GPX bytes into an ordered raw sample stream plus any
// declared waypoints. Multi-track, multi-segment files are flattened in
// document order.
func Decode(data []byte) ([]track.RawSample, []DeclaredWaypoint, error) {
	parsed, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedGPX, err)
	}

	var samples []track.RawSample
	for _, trk := range parsed.Tracks {
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				sample := track.RawSample{
					Lat: p.Latitude,
					Lon: p.Longitude,
				}
				if p.Elevation.NotNull() {
					ele := p.Elevation.Value()
					sample.ElevationM = &ele
				}
				if !p.Timestamp.IsZero() {
					t := p.Timestamp
					sample.Time = &t
				}
				samples = append(samples, sample)
			}
		}
	}
	if len(samples) == 0 {
		return nil, nil, ErrNoTrackPoints
	}

	var waypoints []DeclaredWaypoint
	for _, wpt := range parsed.Waypoints {
		wp := DeclaredWaypoint{
			Lat:         wpt.Latitude,
			Lon:         wpt.Longitude,
			Name:        wpt.Name,
			Description: wpt.Description,
		}
		if wpt.Elevation.NotNull() {
			ele := wpt.Elevation.Value()
			wp.ElevationM = &ele
		}
		waypoints = append(waypoints, wp)
	}

	return samples, waypoints, nil
}
