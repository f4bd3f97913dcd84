package track

import "backend-runplan/internal/shared/geo"

// Simplify reduces a track's point count with the Douglas-Peucker
// algorithm, keeping every retained point within toleranceM meters of the
// original shape. The first and last points always survive and retained
// points keep their timestamps and elevations untouched; no points are
// interpolated or invented.
//
// The result is idempotent under re-simplification with the same tolerance,
// and a larger tolerance never retains more points than a smaller one.
func Simplify(t Track, toleranceM float64) (Track, error) {
	if toleranceM <= 0 {
		return Track{}, ErrInvalidTolerance
	}
	if len(t.Points) == 0 {
		return Track{}, ErrEmptyTrack
	}
	if len(t.Points) <= 2 {
		out := t
		out.Points = clonePoints(t.Points)
		return out, nil
	}

	keep := make([]bool, len(t.Points))
	keep[0] = true
	keep[len(t.Points)-1] = true
	douglasPeucker(t.Points, 0, len(t.Points)-1, toleranceM, keep)

	points := make([]Point, 0, len(t.Points))
	for i, k := range keep {
		if k {
			points = append(points, t.Points[i])
		}
	}

	out := t
	out.Points = points
	return out, nil
}

// douglasPeucker marks the peak-error point of points[first..last] when it
// deviates beyond the tolerance and recurses on both halves; otherwise all
// interior points of the range stay dropped.
func douglasPeucker(points []Point, first, last int, toleranceM float64, keep []bool) {
	if last-first < 2 {
		return
	}

	maxDist := 0.0
	maxIdx := first
	for i := first + 1; i < last; i++ {
		d := geo.PerpendicularDistanceM(
			points[i].Lat, points[i].Lon,
			points[first].Lat, points[first].Lon,
			points[last].Lat, points[last].Lon,
		)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}

	if maxDist <= toleranceM {
		return
	}

	keep[maxIdx] = true
	douglasPeucker(points, first, maxIdx, toleranceM, keep)
	douglasPeucker(points, maxIdx, last, toleranceM, keep)
}

// CompressionRatio reports originalCount/simplifiedCount for telemetry.
// Zero when either track is empty.
func CompressionRatio(original, simplified Track) float64 {
	if len(original.Points) == 0 || len(simplified.Points) == 0 {
		return 0
	}
	return float64(len(original.Points)) / float64(len(simplified.Points))
}
