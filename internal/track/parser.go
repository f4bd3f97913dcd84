package track

import (
	"math"
	"time"
)

// Parse validates an ordered sample stream and normalizes it into a Track.
//
// Coordinates must be finite and inside [-90,90] / [-180,180]. Timestamps,
// where present, must be non-decreasing; GPS noise is rejected, not
// reordered. Consecutive samples with identical coordinates and identical
// (or equally absent) timestamps collapse into one point so downstream pace
// math never divides a zero-duration leg.
//
// Cumulative distance and time stay at their zero values here; BuildProfile
// computes them.
func Parse(samples []RawSample) (Track, error) {
	if len(samples) == 0 {
		return Track{}, ErrEmptyTrack
	}

	points := make([]Point, 0, len(samples))
	timed := 0

	for i, s := range samples {
		if !validCoordinate(s.Lat, s.Lon) {
			return Track{}, &InvalidCoordinateError{Index: i, Lat: s.Lat, Lon: s.Lon}
		}

		if s.Time != nil {
			if prev := lastTimestamp(points); prev != nil && s.Time.Before(*prev) {
				return Track{}, &NonMonotonicTimeError{Index: i}
			}
			timed++
		}

		if len(points) > 0 && duplicateOfLast(points[len(points)-1], s) {
			continue
		}

		points = append(points, Point{
			Lat:        s.Lat,
			Lon:        s.Lon,
			ElevationM: s.ElevationM,
			Time:       s.Time,
		})
	}

	if len(points) == 0 {
		return Track{}, ErrEmptyTrack
	}

	return Track{
		Points:       points,
		HasValidTime: timed == len(samples),
	}, nil
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// lastTimestamp returns the most recent timestamp among kept points.
// Monotonicity is checked against kept points so a collapsed duplicate
// cannot mask a regression.
func lastTimestamp(points []Point) *time.Time {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Time != nil {
			return points[i].Time
		}
	}
	return nil
}

func duplicateOfLast(last Point, s RawSample) bool {
	if last.Lat != s.Lat || last.Lon != s.Lon {
		return false
	}
	if last.Time == nil && s.Time == nil {
		return true
	}
	if last.Time != nil && s.Time != nil {
		return last.Time.Equal(*s.Time)
	}
	return false
}
