package track

import (
	"errors"
	"testing"
)

func straightLine(n int) Track {
	points := make([]Point, n)
	for i := range points {
		points[i] = Point{Lat: 0, Lon: float64(i) * 0.001}
	}
	return Track{Points: points}
}

func zigzag() Track {
	// Middle point sits ~111m off the straight line between the endpoints.
	return Track{Points: []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.001, Lon: 0.005},
		{Lat: 0, Lon: 0.01},
	}}
}

func TestSimplifyRejectsNonPositiveTolerance(t *testing.T) {
	for _, tol := range []float64{0, -1} {
		if _, err := Simplify(straightLine(5), tol); !errors.Is(err, ErrInvalidTolerance) {
			t.Fatalf("tolerance %v: expected ErrInvalidTolerance, got %v", tol, err)
		}
	}
}

func TestSimplifyEmptyTrack(t *testing.T) {
	if _, err := Simplify(Track{}, 10); !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("expected ErrEmptyTrack, got %v", err)
	}
}

func TestSimplifyTwoPointsUnchanged(t *testing.T) {
	out, err := Simplify(straightLine(2), 10)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out.Points))
	}
}

func TestSimplifyStraightLineCollapsesToEndpoints(t *testing.T) {
	out, err := Simplify(straightLine(5), 50)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out.Points))
	}
	if out.Points[0].Lon != 0 || out.Points[1].Lon != 0.004 {
		t.Fatalf("expected endpoints retained")
	}
}

func TestSimplifyKeepsSignificantDeviation(t *testing.T) {
	out, err := Simplify(zigzag(), 50)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out.Points) != 3 {
		t.Fatalf("expected peak point retained, got %d points", len(out.Points))
	}
}

func TestSimplifyDropsDeviationWithinTolerance(t *testing.T) {
	out, err := Simplify(zigzag(), 200)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(out.Points) != 2 {
		t.Fatalf("expected peak dropped at 200m tolerance, got %d points", len(out.Points))
	}
}

func TestSimplifyIdempotent(t *testing.T) {
	trk := Track{Points: []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.0004, Lon: 0.001},
		{Lat: 0.002, Lon: 0.002},
		{Lat: 0.0001, Lon: 0.003},
		{Lat: 0.001, Lon: 0.004},
		{Lat: 0, Lon: 0.005},
	}}

	once, err := Simplify(trk, 30)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	twice, err := Simplify(once, 30)
	if err != nil {
		t.Fatalf("re-simplify: %v", err)
	}
	if len(once.Points) != len(twice.Points) {
		t.Fatalf("not idempotent: %d vs %d points", len(once.Points), len(twice.Points))
	}
	for i := range once.Points {
		if once.Points[i] != twice.Points[i] {
			t.Fatalf("point %d changed on re-simplification", i)
		}
	}
}

func TestSimplifyMonotonicUnderTolerance(t *testing.T) {
	trk := Track{Points: []Point{
		{Lat: 0, Lon: 0},
		{Lat: 0.0004, Lon: 0.001},
		{Lat: 0.002, Lon: 0.002},
		{Lat: 0.0001, Lon: 0.003},
		{Lat: 0.001, Lon: 0.004},
		{Lat: 0, Lon: 0.005},
	}}

	prev := len(trk.Points) + 1
	for _, tol := range []float64{5, 20, 60, 150, 400} {
		out, err := Simplify(trk, tol)
		if err != nil {
			t.Fatalf("simplify tol %v: %v", tol, err)
		}
		if len(out.Points) > prev {
			t.Fatalf("tolerance %v yielded more points (%d) than smaller tolerance (%d)", tol, len(out.Points), prev)
		}
		prev = len(out.Points)
	}
}

func TestSimplifyDoesNotMutateInput(t *testing.T) {
	trk := zigzag()
	before := clonePoints(trk.Points)

	if _, err := Simplify(trk, 200); err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if len(trk.Points) != len(before) {
		t.Fatalf("input length changed")
	}
	for i := range before {
		if trk.Points[i] != before[i] {
			t.Fatalf("input point %d mutated", i)
		}
	}
}

func TestCompressionRatio(t *testing.T) {
	orig := straightLine(10)
	simplified, err := Simplify(orig, 50)
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	if r := CompressionRatio(orig, simplified); r != 5 {
		t.Fatalf("expected ratio 5, got %v", r)
	}
	if r := CompressionRatio(Track{}, simplified); r != 0 {
		t.Fatalf("expected 0 for empty original, got %v", r)
	}
}
