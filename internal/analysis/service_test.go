package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"backend-runplan/internal/gpx"
	"backend-runplan/internal/route"
	"backend-runplan/internal/stream"

	"github.com/pashagolub/pgxmock/v3"
)

const raceGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <trkseg>
      <trkpt lat="0" lon="0"><ele>10</ele><time>2025-06-01T08:00:00Z</time></trkpt>
      <trkpt lat="0" lon="0.001"><ele>12</ele><time>2025-06-01T08:01:00Z</time></trkpt>
      <trkpt lat="0" lon="0.002"><ele>11</ele><time>2025-06-01T08:02:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	return mock
}

func waypointRows(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "route_id", "name", "description", "notes", "order_index", "lat", "lon",
		"elevation_m", "waypoint_type", "planned_cumulative_time_s",
		"planned_cumulative_distance_m", "rest_time_s", "created_at",
	}).
		AddRow("wp-start", "r-1", "Start", "", "", 0, 0.0, 0.0, nil, "start", 0.0, 0.0, 0, now).
		AddRow("wp-finish", "r-1", "Finish", "", "", 1, 0.0, 0.002, nil, "finish", 100.0, 222.0, 0, now)
}

func TestCreateAnalysis(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()

	hub := stream.NewHub(nil)
	sub := hub.Register("r-1")
	defer hub.Unregister(sub)

	routes := route.NewService(mock, 10, 0)
	svc := NewService(mock, routes, hub, 10, 0)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, route_id, name, description, notes, order_index`).
		WithArgs("r-1").
		WillReturnRows(waypointRows(now))

	mock.ExpectQuery(`INSERT INTO race_analyses`).
		WithArgs(pgxmock.AnyArg(), "r-1", "u-1", "Spring 50k", (*string)(nil), "race.gpx", "",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), true).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))

	// A straight timed line keeps only its endpoints after simplification.
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`INSERT INTO race_track_points`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	for i := 0; i < 2; i++ {
		mock.ExpectExec(`INSERT INTO race_leg_comparisons`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	detail, err := svc.Create(context.Background(), "u-1", CreateRequest{
		RouteID:    "r-1",
		RaceName:   "Spring 50k",
		Filename:   "race.gpx",
		GPXContent: raceGPX,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if detail.Analysis.TotalTimeS == nil || *detail.Analysis.TotalTimeS != 120 {
		t.Fatalf("expected total time 120, got %v", detail.Analysis.TotalTimeS)
	}
	if len(detail.Points) != 2 {
		t.Fatalf("expected 2 stored points, got %d", len(detail.Points))
	}
	if len(detail.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(detail.Legs))
	}

	// Finish waypoint planned at 100s, reached at 120s.
	finish := detail.Legs[1]
	if finish.WaypointID != "wp-finish" {
		t.Fatalf("unexpected leg order: %+v", detail.Legs)
	}
	if finish.TimeDifferenceS == nil || *finish.TimeDifferenceS != 20 {
		t.Fatalf("expected 20s behind plan, got %v", finish.TimeDifferenceS)
	}
	if finish.LegDurationS == nil || *finish.LegDurationS != 120 {
		t.Fatalf("expected 120s leg duration, got %v", finish.LegDurationS)
	}

	select {
	case payload := <-sub.Send:
		var ev CompletedEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("event decode: %v", err)
		}
		if ev.Type != "analysis_completed" || ev.RouteID != "r-1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected completion broadcast")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateAnalysisRejectsBadUpload(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := NewService(mock, route.NewService(mock, 10, 0), nil, 10, 0)

	_, err := svc.Create(context.Background(), "u-1", CreateRequest{RouteID: "r-1", GPXContent: "junk"})
	if !errors.Is(err, gpx.ErrMalformedGPX) {
		t.Fatalf("expected ErrMalformedGPX, got %v", err)
	}
}

func TestCreateAnalysisPointCap(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := NewService(mock, route.NewService(mock, 10, 0), nil, 10, 2)

	_, err := svc.Create(context.Background(), "u-1", CreateRequest{RouteID: "r-1", GPXContent: raceGPX})
	if !errors.Is(err, route.ErrTooManyPoints) {
		t.Fatalf("expected ErrTooManyPoints, got %v", err)
	}
}

func TestGetDetail(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := NewService(mock, route.NewService(mock, 10, 0), nil, 10, 0)

	now := time.Now()
	total := 3600.0
	mock.ExpectQuery(`SELECT id, route_id, user_id, race_name`).
		WithArgs("a-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "route_id", "user_id", "race_name", "race_date", "filename", "notes",
			"total_distance_m", "total_time_s", "elevation_gain_m", "elevation_loss_m",
			"has_valid_time", "created_at",
		}).AddRow("a-1", "r-1", "u-1", "Spring 50k", nil, "race.gpx", "", 50000.0, &total, 900.0, 880.0, true, now))

	mock.ExpectQuery(`SELECT lat, lon, elevation_m`).
		WithArgs("a-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"lat", "lon", "elevation_m", "cumulative_time_s", "cumulative_distance_m", "point_order",
		}).AddRow(0.0, 0.0, nil, nil, 0.0, 0))

	dur := 1800.0
	dist := 25000.0
	idx := 10
	mock.ExpectQuery(`SELECT waypoint_id, planned_cumulative_time_s`).
		WithArgs("a-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"waypoint_id", "planned_cumulative_time_s", "actual_cumulative_time_s",
			"time_difference_s", "leg_duration_s", "leg_distance_m",
			"actual_pace_s_per_m", "planned_pace_s_per_m", "matched_point_index",
		}).AddRow("wp-1", 1700.0, &dur, nil, &dur, &dist, nil, nil, &idx))

	detail, err := svc.GetDetail(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Analysis.TotalTimeS == nil || *detail.Analysis.TotalTimeS != 3600 {
		t.Fatalf("unexpected analysis: %+v", detail.Analysis)
	}
	if len(detail.Points) != 1 || len(detail.Legs) != 1 {
		t.Fatalf("unexpected detail shape: %+v", detail)
	}
	leg := detail.Legs[0]
	if leg.LegDistanceM == nil || *leg.LegDistanceM != 25000 {
		t.Fatalf("unexpected leg: %+v", leg)
	}
	if leg.TimeDifferenceS != nil {
		t.Fatalf("expected absent time difference, got %v", *leg.TimeDifferenceS)
	}
}

func TestDeleteAnalysis(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	svc := NewService(mock, route.NewService(mock, 10, 0), nil, 10, 0)

	mock.ExpectExec(`DELETE FROM race_analyses`).
		WithArgs("a-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := svc.Delete(context.Background(), "a-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
