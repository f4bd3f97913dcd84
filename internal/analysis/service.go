// Package analysis runs the race comparison pipeline over an uploaded race
// log and persists the result: the actual track is decoded, cleaned,
// simplified and profiled, then compared leg by leg against the planned
// route's waypoints.
package analysis

import (
	"context"
	"encoding/json"

	"backend-runplan/internal/db"
	"backend-runplan/internal/gpx"
	"backend-runplan/internal/race"
	"backend-runplan/internal/route"
	"backend-runplan/internal/stream"
	"backend-runplan/internal/track"

	"github.com/google/uuid"
)

type Service struct {
	db     db.Querier
	routes *route.Service
	hub    *stream.Hub

	simplifyToleranceM float64
	maxUploadPoints    int
}

func NewService(db db.Querier, routes *route.Service, hub *stream.Hub, simplifyToleranceM float64, maxUploadPoints int) *Service {
	return &Service{
		db:                 db,
		routes:             routes,
		hub:                hub,
		simplifyToleranceM: simplifyToleranceM,
		maxUploadPoints:    maxUploadPoints,
	}
}

// Create decodes and profiles the uploaded race log, compares it against
// the route's planned waypoints and stores the full result. Subscribers on
// the route's stream channel are notified once the analysis is persisted.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (Detail, error) {
	samples, _, err := gpx.Decode([]byte(req.GPXContent))
	if err != nil {
		return Detail{}, err
	}
	if s.maxUploadPoints > 0 && len(samples) > s.maxUploadPoints {
		return Detail{}, route.ErrTooManyPoints
	}

	parsed, err := track.Parse(samples)
	if err != nil {
		return Detail{}, err
	}
	simplified, err := track.Simplify(parsed, s.simplifyToleranceM)
	if err != nil {
		return Detail{}, err
	}
	profiled := track.BuildProfile(simplified)

	planned, err := s.routes.PlannedWaypoints(ctx, req.RouteID)
	if err != nil {
		return Detail{}, err
	}
	result, err := race.Compare(planned, profiled)
	if err != nil {
		return Detail{}, err
	}

	ra := RaceAnalysis{
		ID:             uuid.NewString(),
		RouteID:        req.RouteID,
		UserID:         userID,
		RaceName:       req.RaceName,
		RaceDate:       req.RaceDate,
		Filename:       req.Filename,
		Notes:          req.Notes,
		TotalDistanceM: profiled.TotalDistanceM,
		ElevationGainM: profiled.ElevationGainM,
		ElevationLossM: profiled.ElevationLossM,
		HasValidTime:   profiled.HasValidTime,
	}
	if profiled.HasValidTime && len(profiled.Points) > 0 {
		ra.TotalTimeS = profiled.Points[len(profiled.Points)-1].CumulativeTimeS
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO race_analyses (id, route_id, user_id, race_name, race_date, filename, notes,
		                           total_distance_m, total_time_s, elevation_gain_m,
		                           elevation_loss_m, has_valid_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING created_at
	`, ra.ID, ra.RouteID, ra.UserID, ra.RaceName, ra.RaceDate, ra.Filename, ra.Notes,
		ra.TotalDistanceM, ra.TotalTimeS, ra.ElevationGainM, ra.ElevationLossM, ra.HasValidTime)
	if err := row.Scan(&ra.CreatedAt); err != nil {
		return Detail{}, err
	}

	points := make([]route.RoutePoint, 0, len(profiled.Points))
	for i, p := range profiled.Points {
		rp := route.RoutePoint{
			Lat:                 p.Lat,
			Lon:                 p.Lon,
			ElevationM:          p.ElevationM,
			CumulativeTimeS:     p.CumulativeTimeS,
			CumulativeDistanceM: p.CumulativeDistanceM,
			Order:               i,
		}
		if _, err := s.db.Exec(ctx, `
			INSERT INTO race_track_points (analysis_id, lat, lon, elevation_m, cumulative_time_s, cumulative_distance_m, point_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, ra.ID, rp.Lat, rp.Lon, rp.ElevationM, rp.CumulativeTimeS, rp.CumulativeDistanceM, rp.Order); err != nil {
			return Detail{}, err
		}
		points = append(points, rp)
	}

	for i, leg := range result.Legs {
		if _, err := s.db.Exec(ctx, `
			INSERT INTO race_leg_comparisons (analysis_id, waypoint_id, leg_order,
			                                  planned_cumulative_time_s, actual_cumulative_time_s,
			                                  time_difference_s, leg_duration_s, leg_distance_m,
			                                  actual_pace_s_per_m, planned_pace_s_per_m,
			                                  matched_point_index)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`, ra.ID, leg.WaypointID, i, leg.PlannedCumulativeTimeS, leg.ActualCumulativeTimeS,
			leg.TimeDifferenceS, leg.LegDurationS, leg.LegDistanceM,
			leg.ActualPaceSPerM, leg.PlannedPaceSPerM, leg.MatchedTrackPointIndex); err != nil {
			return Detail{}, err
		}
	}

	if s.hub != nil {
		payload, _ := json.Marshal(CompletedEvent{
			Type:       "analysis_completed",
			AnalysisID: ra.ID,
			RouteID:    ra.RouteID,
			RaceName:   ra.RaceName,
		})
		s.hub.Broadcast(ra.RouteID, payload)
	}

	return Detail{Analysis: ra, Points: points, Legs: result.Legs}, nil
}

const analysisColumns = `id, route_id, user_id, race_name, race_date, filename, notes,
	       total_distance_m, total_time_s, elevation_gain_m, elevation_loss_m,
	       has_valid_time, created_at`

func scanAnalysis(row interface{ Scan(dest ...any) error }) (RaceAnalysis, error) {
	var ra RaceAnalysis
	err := row.Scan(&ra.ID, &ra.RouteID, &ra.UserID, &ra.RaceName, &ra.RaceDate, &ra.Filename,
		&ra.Notes, &ra.TotalDistanceM, &ra.TotalTimeS, &ra.ElevationGainM,
		&ra.ElevationLossM, &ra.HasValidTime, &ra.CreatedAt)
	return ra, err
}

func (s *Service) List(ctx context.Context, userID string) ([]RaceAnalysis, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+analysisColumns+`
		FROM race_analyses WHERE user_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []RaceAnalysis
	for rows.Next() {
		ra, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, ra)
	}
	return analyses, nil
}

func (s *Service) ListByRoute(ctx context.Context, routeID string) ([]RaceAnalysis, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+analysisColumns+`
		FROM race_analyses WHERE route_id=$1
		ORDER BY created_at DESC
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []RaceAnalysis
	for rows.Next() {
		ra, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, ra)
	}
	return analyses, nil
}

// GetDetail loads a stored analysis with its actual-track points and leg
// comparisons.
func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	ra, err := scanAnalysis(s.db.QueryRow(ctx, `
		SELECT `+analysisColumns+`
		FROM race_analyses WHERE id=$1
	`, id))
	if err != nil {
		return Detail{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT lat, lon, elevation_m, cumulative_time_s, cumulative_distance_m, point_order
		FROM race_track_points WHERE analysis_id=$1
		ORDER BY point_order
	`, id)
	if err != nil {
		return Detail{}, err
	}
	defer rows.Close()

	var points []route.RoutePoint
	for rows.Next() {
		var p route.RoutePoint
		if err := rows.Scan(&p.Lat, &p.Lon, &p.ElevationM, &p.CumulativeTimeS, &p.CumulativeDistanceM, &p.Order); err != nil {
			return Detail{}, err
		}
		points = append(points, p)
	}

	legRows, err := s.db.Query(ctx, `
		SELECT waypoint_id, planned_cumulative_time_s, actual_cumulative_time_s,
		       time_difference_s, leg_duration_s, leg_distance_m,
		       actual_pace_s_per_m, planned_pace_s_per_m, matched_point_index
		FROM race_leg_comparisons WHERE analysis_id=$1
		ORDER BY leg_order
	`, id)
	if err != nil {
		return Detail{}, err
	}
	defer legRows.Close()

	var legs []race.LegComparison
	for legRows.Next() {
		var leg race.LegComparison
		if err := legRows.Scan(&leg.WaypointID, &leg.PlannedCumulativeTimeS,
			&leg.ActualCumulativeTimeS, &leg.TimeDifferenceS, &leg.LegDurationS,
			&leg.LegDistanceM, &leg.ActualPaceSPerM, &leg.PlannedPaceSPerM,
			&leg.MatchedTrackPointIndex); err != nil {
			return Detail{}, err
		}
		legs = append(legs, leg)
	}

	return Detail{Analysis: ra, Points: points, Legs: legs}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM race_analyses WHERE id=$1`, id)
	return err
}
