package track

import "time"

// RawSample is one decoded GPS fix as delivered by an upload decoder.
// Elevation and Time are nil when the source log did not carry them.
type RawSample struct {
	Lat        float64    `json:"lat"`
	Lon        float64    `json:"lon"`
	ElevationM *float64   `json:"elevation,omitempty"`
	Time       *time.Time `json:"time,omitempty"`
}

// Point is a validated track point. Cumulative fields are zero until
// BuildProfile fills them in; CumulativeTimeS stays nil on tracks without
// complete timestamp coverage.
type Point struct {
	Lat                 float64    `json:"lat"`
	Lon                 float64    `json:"lon"`
	ElevationM          *float64   `json:"elevation,omitempty"`
	Time                *time.Time `json:"-"`
	CumulativeDistanceM float64    `json:"cumulativeDistanceMeters"`
	CumulativeTimeS     *float64   `json:"cumulativeTimeSeconds,omitempty"`
}

// Track is an ordered, non-empty point sequence. Transformations (Simplify,
// BuildProfile) return a new Track and never mutate their input.
type Track struct {
	Points []Point `json:"points"`

	// HasValidTime is true only when every point carries a timestamp.
	HasValidTime bool `json:"hasValidTime"`

	// Whole-track totals, filled in by BuildProfile.
	TotalDistanceM float64 `json:"totalDistanceMeters"`
	ElevationGainM float64 `json:"elevationGainMeters"`
	ElevationLossM float64 `json:"elevationLossMeters"`
}

// clonePoints copies the point slice so transformations never alias their
// input's backing array.
func clonePoints(points []Point) []Point {
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
