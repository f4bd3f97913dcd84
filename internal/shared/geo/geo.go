// Package geo holds the spherical distance math shared by the track engine.
// All functions are pure and take coordinates as decimal degrees.
package geo

import "math"

// EarthRadiusM is the IUGG mean Earth radius in meters.
const EarthRadiusM = 6371008.8

// DistanceM returns the great-circle (haversine) distance in meters between
// two coordinates on a spherical Earth. Symmetric in its arguments and zero
// only when both coordinates coincide.
func DistanceM(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusM * c
}

// PerpendicularDistanceM returns the distance in meters from a point to the
// segment between (lat1,lon1) and (lat2,lon2).
//
// The three coordinates are projected onto a local tangent plane using an
// equirectangular projection centered on the segment (x = lon·cos(lat0),
// y = lat, both in radians scaled by EarthRadiusM, with lat0 the mean
// latitude of the segment endpoints). The perpendicular distance is then
// computed in the plane, clamped to the segment. The approximation holds for
// the short segments GPS tracks produce; it is not suitable for legs
// spanning hundreds of kilometers.
func PerpendicularDistanceM(lat, lon, lat1, lon1, lat2, lon2 float64) float64 {
	lat0 := (lat1 + lat2) / 2 * math.Pi / 180
	cosLat := math.Cos(lat0)

	x := lon * math.Pi / 180 * cosLat * EarthRadiusM
	y := lat * math.Pi / 180 * EarthRadiusM
	x1 := lon1 * math.Pi / 180 * cosLat * EarthRadiusM
	y1 := lat1 * math.Pi / 180 * EarthRadiusM
	x2 := lon2 * math.Pi / 180 * cosLat * EarthRadiusM
	y2 := lat2 * math.Pi / 180 * EarthRadiusM

	dx := x2 - x1
	dy := y2 - y1

	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		// Degenerate segment: distance to the single endpoint.
		return math.Hypot(x-x1, y-y1)
	}

	t := ((x-x1)*dx + (y-y1)*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	px := x1 + t*dx
	py := y1 + t*dy
	return math.Hypot(x-px, y-py)
}
