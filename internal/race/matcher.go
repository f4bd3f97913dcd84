package race

import (
	"backend-runplan/internal/shared/geo"
	"backend-runplan/internal/track"
)

// FindClosest returns the index of the track point nearest to the target
// coordinate, plus the great-circle distance to it in meters. Ties go to the
// earliest index along the track.
//
// The scan deliberately uses the true haversine metric rather than a planar
// proxy: matcher output feeds timing and pace reporting, where proxy
// distortion at high latitudes would silently skew splits. Linear scan is
// O(n) per query, which is fine for tracks in the low thousands of points;
// a spatial index can replace this behind the same contract if scale grows.
func FindClosest(t track.Track, lat, lon float64) (int, float64, error) {
	if len(t.Points) == 0 {
		return 0, 0, track.ErrEmptyTrack
	}

	bestIdx := 0
	bestDist := geo.DistanceM(t.Points[0].Lat, t.Points[0].Lon, lat, lon)
	for i := 1; i < len(t.Points); i++ {
		d := geo.DistanceM(t.Points[i].Lat, t.Points[i].Lon, lat, lon)
		if d < bestDist {
			bestDist = d
			bestIdx = i
		}
	}
	return bestIdx, bestDist, nil
}
