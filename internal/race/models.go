package race

import "backend-runplan/internal/track"

// WaypointType tags a planned waypoint for the UI. It is metadata only and
// never influences matching or pace math.
type WaypointType string

const (
	WaypointStart      WaypointType = "start"
	WaypointCheckpoint WaypointType = "checkpoint"
	WaypointFinish     WaypointType = "finish"
	WaypointPOI        WaypointType = "poi"
	WaypointCrew       WaypointType = "crew"
	WaypointFoodWater  WaypointType = "food_water"
	WaypointRest       WaypointType = "rest"
)

func (t WaypointType) Valid() bool {
	switch t {
	case WaypointStart, WaypointCheckpoint, WaypointFinish, WaypointPOI,
		WaypointCrew, WaypointFoodWater, WaypointRest:
		return true
	}
	return false
}

// PlannedWaypoint is read-only comparator input, loaded from a stored
// planned route.
type PlannedWaypoint struct {
	ID                         string       `json:"waypointId"`
	OrderIndex                 int          `json:"orderIndex"`
	Lat                        float64      `json:"lat"`
	Lon                        float64      `json:"lon"`
	Type                       WaypointType `json:"type"`
	PlannedCumulativeTimeS     float64      `json:"plannedCumulativeTimeSeconds"`
	PlannedCumulativeDistanceM float64      `json:"plannedCumulativeDistanceMeters"`
}

// LegComparison is the per-waypoint comparison result. Optional fields are
// nil when undefined — never zero sentinels — and stay nil in the JSON
// interchange via omitempty.
type LegComparison struct {
	WaypointID             string   `json:"waypointId"`
	PlannedCumulativeTimeS float64  `json:"plannedCumulativeTimeSeconds"`
	ActualCumulativeTimeS  *float64 `json:"actualCumulativeTimeSeconds,omitempty"`
	TimeDifferenceS        *float64 `json:"timeDifferenceSeconds,omitempty"`
	LegDurationS           *float64 `json:"legDurationSeconds,omitempty"`
	LegDistanceM           *float64 `json:"legDistanceMeters,omitempty"`
	ActualPaceSPerM        *float64 `json:"actualPaceSecondsPerUnit,omitempty"`
	PlannedPaceSPerM       *float64 `json:"plannedPaceSecondsPerUnit,omitempty"`
	MatchedTrackPointIndex *int     `json:"matchedTrackPointIndex,omitempty"`
}

// Analysis is the output of one comparator run. The engine holds no state
// across runs; the caller persists or discards the result.
type Analysis struct {
	Waypoints []PlannedWaypoint `json:"plannedWaypoints"`
	Track     track.Track       `json:"actualTrack"`
	Legs      []LegComparison   `json:"legComparisons"`
}
