package analysis

import (
	"time"

	"backend-runplan/internal/race"
	"backend-runplan/internal/route"
)

// RaceAnalysis is one stored comparison of an actual race log against a
// planned route.
type RaceAnalysis struct {
	ID             string    `json:"id"`
	RouteID        string    `json:"routeId"`
	UserID         string    `json:"userId"`
	RaceName       string    `json:"raceName"`
	RaceDate       *string   `json:"raceDate,omitempty"`
	Filename       string    `json:"actualGpxFilename"`
	Notes          string    `json:"notes"`
	TotalDistanceM float64   `json:"totalDistanceMeters"`
	TotalTimeS     *float64  `json:"totalTimeSeconds,omitempty"`
	ElevationGainM float64   `json:"elevationGainMeters"`
	ElevationLossM float64   `json:"elevationLossMeters"`
	HasValidTime   bool      `json:"hasValidTime"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Detail is an analysis with its stored actual-track points and the
// per-waypoint leg comparisons.
type Detail struct {
	Analysis RaceAnalysis         `json:"analysis"`
	Points   []route.RoutePoint   `json:"actualTrackPoints"`
	Legs     []race.LegComparison `json:"legComparisons"`
}

type CreateRequest struct {
	RouteID    string  `json:"routeId" validate:"required"`
	RaceName   string  `json:"raceName" validate:"required,min=1,max=200"`
	RaceDate   *string `json:"raceDate" validate:"omitempty,len=10"`
	Filename   string  `json:"actualGpxFilename" validate:"max=255"`
	Notes      string  `json:"notes" validate:"max=5000"`
	GPXContent string  `json:"gpxContent" validate:"required"`
}

// CompletedEvent is the payload broadcast on the route's stream channel
// when an analysis finishes.
type CompletedEvent struct {
	Type       string `json:"type"`
	AnalysisID string `json:"analysisId"`
	RouteID    string `json:"routeId"`
	RaceName   string `json:"raceName"`
}
