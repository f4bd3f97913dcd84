package route

import (
	"context"
	"time"

	"backend-runplan/internal/db"
	"backend-runplan/internal/gpx"
	"backend-runplan/internal/race"
	"backend-runplan/internal/track"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier

	simplifyToleranceM float64
	maxUploadPoints    int
}

func NewService(db db.Querier, simplifyToleranceM float64, maxUploadPoints int) *Service {
	return &Service{
		db:                 db,
		simplifyToleranceM: simplifyToleranceM,
		maxUploadPoints:    maxUploadPoints,
	}
}

// CreateFromGPX runs the full upload pipeline: decode, parse, simplify
// within the configured tolerance, build the distance/time/elevation
// profile, then persist the route with its stored points. Waypoints
// declared in the file are matched to the profiled track so their planned
// cumulative distance and time come from the track itself.
func (s *Service) CreateFromGPX(ctx context.Context, userID string, req CreateRequest) (Detail, error) {
	samples, declared, err := gpx.Decode([]byte(req.GPXContent))
	if err != nil {
		return Detail{}, err
	}
	if s.maxUploadPoints > 0 && len(samples) > s.maxUploadPoints {
		return Detail{}, ErrTooManyPoints
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
	ratio := track.CompressionRatio(parsed, simplified)

	rt := Route{
		ID:             uuid.NewString(),
		UserID:         userID,
		Name:           req.Name,
		Description:    req.Description,
		Filename:       req.Filename,
		TotalDistanceM: profiled.TotalDistanceM,
		ElevationGainM: profiled.ElevationGainM,
		ElevationLossM: profiled.ElevationLossM,
		HasValidTime:   profiled.HasValidTime,
		IsPublic:       req.IsPublic,
	}
	if profiled.HasValidTime {
		rt.StartTime = profiled.Points[0].Time
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO routes (id, user_id, name, description, filename, total_distance_m,
		                    elevation_gain_m, elevation_loss_m, has_valid_time, start_time, is_public)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at, updated_at
	`, rt.ID, rt.UserID, rt.Name, rt.Description, rt.Filename, rt.TotalDistanceM,
		rt.ElevationGainM, rt.ElevationLossM, rt.HasValidTime, rt.StartTime, rt.IsPublic)
	if err := row.Scan(&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return Detail{}, err
	}

	points := make([]RoutePoint, 0, len(profiled.Points))
	for i, p := range profiled.Points {
		rp := RoutePoint{
			Lat:                 p.Lat,
			Lon:                 p.Lon,
			ElevationM:          p.ElevationM,
			CumulativeTimeS:     p.CumulativeTimeS,
			CumulativeDistanceM: p.CumulativeDistanceM,
			Order:               i,
		}
		if _, err := s.db.Exec(ctx, `
			INSERT INTO route_points (route_id, lat, lon, elevation_m, cumulative_time_s, cumulative_distance_m, point_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, rt.ID, rp.Lat, rp.Lon, rp.ElevationM, rp.CumulativeTimeS, rp.CumulativeDistanceM, rp.Order); err != nil {
			return Detail{}, err
		}
		points = append(points, rp)
	}

	waypoints := make([]Waypoint, 0, len(declared))
	for i, dw := range declared {
		idx, _, err := race.FindClosest(profiled, dw.Lat, dw.Lon)
		if err != nil {
			return Detail{}, err
		}
		matched := profiled.Points[idx]

		wp := Waypoint{
			ID:                         uuid.NewString(),
			RouteID:                    rt.ID,
			Name:                       dw.Name,
			Description:                dw.Description,
			OrderIndex:                 i,
			Lat:                        dw.Lat,
			Lon:                        dw.Lon,
			ElevationM:                 dw.ElevationM,
			Type:                       race.WaypointCheckpoint,
			PlannedCumulativeDistanceM: matched.CumulativeDistanceM,
		}
		if matched.CumulativeTimeS != nil {
			wp.PlannedCumulativeTimeS = *matched.CumulativeTimeS
		}
		if err := s.insertWaypoint(ctx, &wp); err != nil {
			return Detail{}, err
		}
		waypoints = append(waypoints, wp)
	}

	return Detail{Route: rt, Points: points, Waypoints: waypoints, CompressionRatio: ratio}, nil
}

func (s *Service) insertWaypoint(ctx context.Context, wp *Waypoint) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO route_waypoints (id, route_id, name, description, notes, order_index, lat, lon,
		                             elevation_m, waypoint_type, planned_cumulative_time_s,
		                             planned_cumulative_distance_m, rest_time_s)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING created_at
	`, wp.ID, wp.RouteID, wp.Name, wp.Description, wp.Notes, wp.OrderIndex, wp.Lat, wp.Lon,
		wp.ElevationM, string(wp.Type), wp.PlannedCumulativeTimeS, wp.PlannedCumulativeDistanceM, wp.RestTimeS)
	return row.Scan(&wp.CreatedAt)
}

func (s *Service) AddWaypoint(ctx context.Context, routeID string, req WaypointCreateRequest) (Waypoint, error) {
	wpType := race.WaypointType(req.Type)
	if req.Type == "" {
		wpType = race.WaypointCheckpoint
	}
	if !wpType.Valid() {
		return Waypoint{}, ErrInvalidWaypointType
	}

	wp := Waypoint{
		ID:                         uuid.NewString(),
		RouteID:                    routeID,
		Name:                       req.Name,
		Description:                req.Description,
		OrderIndex:                 req.OrderIndex,
		Lat:                        req.Lat,
		Lon:                        req.Lon,
		ElevationM:                 req.ElevationM,
		Type:                       wpType,
		PlannedCumulativeTimeS:     req.PlannedCumulativeTimeS,
		PlannedCumulativeDistanceM: req.PlannedCumulativeDistanceM,
		RestTimeS:                  req.RestTimeS,
	}
	if err := s.insertWaypoint(ctx, &wp); err != nil {
		return Waypoint{}, err
	}
	return wp, nil
}

func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, name, description, filename, total_distance_m, elevation_gain_m,
		       elevation_loss_m, has_valid_time, start_time, target_time_s, slowdown_pct,
		       race_start_clock, is_public, created_at, updated_at
		FROM routes WHERE id=$1
	`, id)
	var rt Route
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description, &rt.Filename,
		&rt.TotalDistanceM, &rt.ElevationGainM, &rt.ElevationLossM, &rt.HasValidTime,
		&rt.StartTime, &rt.TargetTimeS, &rt.SlowdownPct, &rt.RaceStartClock,
		&rt.IsPublic, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return Detail{}, err
	}

	points, err := s.Points(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	waypoints, err := s.Waypoints(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Route: rt, Points: points, Waypoints: waypoints}, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Route, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, name, description, filename, total_distance_m, elevation_gain_m,
		       elevation_loss_m, has_valid_time, start_time, target_time_s, slowdown_pct,
		       race_start_clock, is_public, created_at, updated_at
		FROM routes WHERE user_id=$1 OR is_public
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Description, &rt.Filename,
			&rt.TotalDistanceM, &rt.ElevationGainM, &rt.ElevationLossM, &rt.HasValidTime,
			&rt.StartTime, &rt.TargetTimeS, &rt.SlowdownPct, &rt.RaceStartClock,
			&rt.IsPublic, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, nil
}

func (s *Service) Update(ctx context.Context, id string, patch UpdateRequest) error {
	_, err := s.db.Exec(ctx, `
		UPDATE routes
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    is_public = COALESCE($4, is_public),
		    target_time_s = COALESCE($5, target_time_s),
		    slowdown_pct = COALESCE($6, slowdown_pct),
		    race_start_clock = COALESCE($7, race_start_clock),
		    updated_at = $8
		WHERE id=$1
	`, id, patch.Name, patch.Description, patch.IsPublic, patch.TargetTimeS,
		patch.SlowdownPct, patch.RaceStartClock, time.Now())
	return err
}

func (s *Service) UpdateWaypointNotes(ctx context.Context, waypointID, notes string) error {
	_, err := s.db.Exec(ctx, `UPDATE route_waypoints SET notes=$2 WHERE id=$1`, waypointID, notes)
	return err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM routes WHERE id=$1`, id)
	return err
}

// Points returns a route's stored track points in order.
func (s *Service) Points(ctx context.Context, routeID string) ([]RoutePoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT lat, lon, elevation_m, cumulative_time_s, cumulative_distance_m, point_order
		FROM route_points WHERE route_id=$1
		ORDER BY point_order
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []RoutePoint
	for rows.Next() {
		var p RoutePoint
		if err := rows.Scan(&p.Lat, &p.Lon, &p.ElevationM, &p.CumulativeTimeS, &p.CumulativeDistanceM, &p.Order); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// Waypoints returns a route's waypoints ordered by order index.
func (s *Service) Waypoints(ctx context.Context, routeID string) ([]Waypoint, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, route_id, name, description, notes, order_index, lat, lon, elevation_m,
		       waypoint_type, planned_cumulative_time_s, planned_cumulative_distance_m,
		       rest_time_s, created_at
		FROM route_waypoints WHERE route_id=$1
		ORDER BY order_index
	`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var waypoints []Waypoint
	for rows.Next() {
		var wp Waypoint
		var wpType string
		if err := rows.Scan(&wp.ID, &wp.RouteID, &wp.Name, &wp.Description, &wp.Notes,
			&wp.OrderIndex, &wp.Lat, &wp.Lon, &wp.ElevationM, &wpType,
			&wp.PlannedCumulativeTimeS, &wp.PlannedCumulativeDistanceM,
			&wp.RestTimeS, &wp.CreatedAt); err != nil {
			return nil, err
		}
		wp.Type = race.WaypointType(wpType)
		waypoints = append(waypoints, wp)
	}
	return waypoints, nil
}

// PlannedWaypoints loads a route's waypoints as comparator input.
func (s *Service) PlannedWaypoints(ctx context.Context, routeID string) ([]race.PlannedWaypoint, error) {
	waypoints, err := s.Waypoints(ctx, routeID)
	if err != nil {
		return nil, err
	}
	planned := make([]race.PlannedWaypoint, 0, len(waypoints))
	for _, wp := range waypoints {
		planned = append(planned, race.PlannedWaypoint{
			ID:                         wp.ID,
			OrderIndex:                 wp.OrderIndex,
			Lat:                        wp.Lat,
			Lon:                        wp.Lon,
			Type:                       wp.Type,
			PlannedCumulativeTimeS:     wp.PlannedCumulativeTimeS,
			PlannedCumulativeDistanceM: wp.PlannedCumulativeDistanceM,
		})
	}
	return planned, nil
}
