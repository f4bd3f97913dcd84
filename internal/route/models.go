package route

import (
	"time"

	"backend-runplan/internal/race"
)

type Route struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Filename        string     `json:"filename"`
	TotalDistanceM  float64    `json:"total_distance_m"`
	ElevationGainM  float64    `json:"elevation_gain_m"`
	ElevationLossM  float64    `json:"elevation_loss_m"`
	HasValidTime    bool       `json:"has_valid_time"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	TargetTimeS     *int       `json:"target_time_seconds,omitempty"`
	SlowdownPct     *float64   `json:"slowdown_factor_percent,omitempty"`
	RaceStartClock  *string    `json:"race_start_clock,omitempty"`
	IsPublic        bool       `json:"is_public"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RoutePoint is the persisted interchange shape for one simplified,
// profiled track point. Optional fields stay absent in JSON when the source
// log did not carry them.
type RoutePoint struct {
	Lat                 float64  `json:"lat"`
	Lon                 float64  `json:"lon"`
	ElevationM          *float64 `json:"elevation,omitempty"`
	CumulativeTimeS     *float64 `json:"cumulativeTimeSeconds,omitempty"`
	CumulativeDistanceM float64  `json:"cumulativeDistanceMeters"`
	Order               int      `json:"order"`
}

type Waypoint struct {
	ID                         string            `json:"id"`
	RouteID                    string            `json:"route_id"`
	Name                       string            `json:"name"`
	Description                string            `json:"description"`
	Notes                      string            `json:"notes"`
	OrderIndex                 int               `json:"order_index"`
	Lat                        float64           `json:"lat"`
	Lon                        float64           `json:"lon"`
	ElevationM                 *float64          `json:"elevation_m,omitempty"`
	Type                       race.WaypointType `json:"waypoint_type"`
	PlannedCumulativeTimeS     float64           `json:"planned_cumulative_time_s"`
	PlannedCumulativeDistanceM float64           `json:"planned_cumulative_distance_m"`
	RestTimeS                  int               `json:"rest_time_seconds"`
	CreatedAt                  time.Time         `json:"created_at"`
}

// Detail is a route with its stored points and waypoints.
type Detail struct {
	Route     Route        `json:"route"`
	Points    []RoutePoint `json:"track_points"`
	Waypoints []Waypoint   `json:"waypoints"`

	// CompressionRatio is originalCount/storedCount from the simplify
	// pass; telemetry only, populated on upload.
	CompressionRatio float64 `json:"compression_ratio,omitempty"`
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Filename    string `json:"filename" validate:"max=255"`
	IsPublic    bool   `json:"is_public"`
	GPXContent  string `json:"gpx_content" validate:"required"`
}

type UpdateRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	IsPublic       *bool    `json:"is_public"`
	TargetTimeS    *int     `json:"target_time_seconds" validate:"omitempty,gte=0"`
	SlowdownPct    *float64 `json:"slowdown_factor_percent" validate:"omitempty,gte=0,lte=100"`
	RaceStartClock *string  `json:"race_start_clock" validate:"omitempty,len=5"`
}

type WaypointCreateRequest struct {
	Name                       string   `json:"name" validate:"required,min=1,max=100"`
	Description                string   `json:"description" validate:"max=2000"`
	Lat                        float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lon                        float64  `json:"lon" validate:"gte=-180,lte=180"`
	ElevationM                 *float64 `json:"elevation_m"`
	OrderIndex                 int      `json:"order_index" validate:"gte=0"`
	Type                       string   `json:"waypoint_type" validate:"omitempty,oneof=start checkpoint finish poi crew food_water rest"`
	PlannedCumulativeTimeS     float64  `json:"planned_cumulative_time_s" validate:"gte=0"`
	PlannedCumulativeDistanceM float64  `json:"planned_cumulative_distance_m" validate:"gte=0"`
	RestTimeS                  int      `json:"rest_time_seconds" validate:"gte=0"`
}
