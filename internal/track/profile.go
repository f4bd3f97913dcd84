package track

import "backend-runplan/internal/shared/geo"

// DefaultElevationDeadbandM is the minimum elevation change, in meters,
// counted toward gain/loss totals. Consumer GPS elevation jitters by about
// a meter between fixes; without a deadband that jitter accumulates into
// phantom climb over a long track.
const DefaultElevationDeadbandM = 1.0

// BuildProfile returns a copy of the track with cumulative distance filled
// in for every point, cumulative time filled in when the track has complete
// timestamp coverage, and whole-track distance and elevation totals
// computed. Uses DefaultElevationDeadbandM for the elevation totals.
func BuildProfile(t Track) Track {
	return BuildProfileWithDeadband(t, DefaultElevationDeadbandM)
}

// BuildProfileWithDeadband is BuildProfile with an explicit elevation
// deadband. Elevation deltas are measured against the last elevation that
// moved more than deadbandM from the running reference, so a slow steady
// climb still accumulates while fix-to-fix noise does not.
func BuildProfileWithDeadband(t Track, deadbandM float64) Track {
	out := t
	out.Points = clonePoints(t.Points)
	if len(out.Points) == 0 {
		return out
	}

	out.Points[0].CumulativeDistanceM = 0
	if out.HasValidTime {
		zero := 0.0
		out.Points[0].CumulativeTimeS = &zero
	}

	for i := 1; i < len(out.Points); i++ {
		prev := &out.Points[i-1]
		cur := &out.Points[i]

		cur.CumulativeDistanceM = prev.CumulativeDistanceM +
			geo.DistanceM(prev.Lat, prev.Lon, cur.Lat, cur.Lon)

		if out.HasValidTime {
			elapsed := *prev.CumulativeTimeS + cur.Time.Sub(*prev.Time).Seconds()
			cur.CumulativeTimeS = &elapsed
		} else {
			cur.CumulativeTimeS = nil
		}
	}

	out.TotalDistanceM = out.Points[len(out.Points)-1].CumulativeDistanceM
	out.ElevationGainM, out.ElevationLossM = elevationTotals(out.Points, deadbandM)
	return out
}

func elevationTotals(points []Point, deadbandM float64) (gain, loss float64) {
	var ref *float64
	for i := range points {
		e := points[i].ElevationM
		if e == nil {
			continue
		}
		if ref == nil {
			ref = e
			continue
		}
		delta := *e - *ref
		if delta > deadbandM {
			gain += delta
			ref = e
		} else if delta < -deadbandM {
			loss += -delta
			ref = e
		}
	}
	return gain, loss
}
