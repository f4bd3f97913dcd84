package race

import (
	"errors"
	"sort"

	"backend-runplan/internal/track"
)

// ErrWaypointListEmpty is returned when a comparison is requested without
// any planned waypoints.
var ErrWaypointListEmpty = errors.New("planned waypoint list is empty")

// Compare matches each planned waypoint against the actual track and builds
// one LegComparison per waypoint, in ascending order-index order.
//
// Leg duration and distance are measured from the previous waypoint's
// matched point (the track start for the first waypoint). Matched indices
// are not forced to increase along the track: GPS noise or backtracking can
// legitimately match a later waypoint to an earlier point, and the resulting
// negative legs are surfaced as-is — clamping them would hide the signal
// that the match was poor.
//
// The actual track must already carry a profile (BuildProfile) so cumulative
// distance and time are populated.
func Compare(waypoints []PlannedWaypoint, actual track.Track) (Analysis, error) {
	if len(waypoints) == 0 {
		return Analysis{}, ErrWaypointListEmpty
	}
	if len(actual.Points) == 0 {
		return Analysis{}, track.ErrEmptyTrack
	}

	ordered := make([]PlannedWaypoint, len(waypoints))
	copy(ordered, waypoints)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})

	legs := make([]LegComparison, 0, len(ordered))

	// Previous matched point's cumulative values; the track start for the
	// first leg.
	prevDistM := 0.0
	prevTimeS := 0.0
	prevPlannedTimeS := 0.0
	prevPlannedDistM := 0.0

	for _, wp := range ordered {
		idx, _, err := FindClosest(actual, wp.Lat, wp.Lon)
		if err != nil {
			return Analysis{}, err
		}
		matched := actual.Points[idx]

		leg := LegComparison{
			WaypointID:             wp.ID,
			PlannedCumulativeTimeS: wp.PlannedCumulativeTimeS,
			MatchedTrackPointIndex: intPtr(idx),
		}

		legDist := matched.CumulativeDistanceM - prevDistM
		leg.LegDistanceM = &legDist

		if actual.HasValidTime && matched.CumulativeTimeS != nil {
			actualTime := *matched.CumulativeTimeS
			leg.ActualCumulativeTimeS = &actualTime

			diff := actualTime - wp.PlannedCumulativeTimeS
			leg.TimeDifferenceS = &diff

			dur := actualTime - prevTimeS
			leg.LegDurationS = &dur

			if legDist != 0 {
				pace := dur / legDist
				leg.ActualPaceSPerM = &pace
			}
			prevTimeS = actualTime
		}

		plannedDur := wp.PlannedCumulativeTimeS - prevPlannedTimeS
		plannedDist := wp.PlannedCumulativeDistanceM - prevPlannedDistM
		if plannedDist != 0 {
			pace := plannedDur / plannedDist
			leg.PlannedPaceSPerM = &pace
		}

		prevDistM = matched.CumulativeDistanceM
		prevPlannedTimeS = wp.PlannedCumulativeTimeS
		prevPlannedDistM = wp.PlannedCumulativeDistanceM

		legs = append(legs, leg)
	}

	return Analysis{
		Waypoints: ordered,
		Track:     actual,
		Legs:      legs,
	}, nil
}

func intPtr(v int) *int { return &v }
