package gpx

import (
	"errors"
	"testing"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="47.61" lon="-122.34">
    <ele>52.0</ele>
    <name>Aid 1</name>
    <desc>first aid station</desc>
  </wpt>
  <trk>
    <name>morning run</name>
    <trkseg>
      <trkpt lat="47.60" lon="-122.33">
        <ele>50.0</ele>
        <time>2025-06-01T08:00:00Z</time>
      </trkpt>
      <trkpt lat="47.601" lon="-122.331">
        <ele>51.5</ele>
        <time>2025-06-01T08:00:30Z</time>
      </trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="47.602" lon="-122.332">
        <time>2025-06-01T08:01:00Z</time>
      </trkpt>
    </trkseg>
  </trk>
</gpx>`

const noPointsGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="47.61" lon="-122.34"><name>lonely</name></wpt>
</gpx>`

func TestDecodeFlattensSegments(t *testing.T) {
	samples, waypoints, err := Decode([]byte(sampleGPX))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[0].Lat != 47.60 || samples[0].Lon != -122.33 {
		t.Fatalf("unexpected first sample: %+v", samples[0])
	}
	if samples[0].ElevationM == nil || *samples[0].ElevationM != 50.0 {
		t.Fatalf("expected elevation 50, got %v", samples[0].ElevationM)
	}
	if samples[0].Time == nil {
		t.Fatalf("expected timestamp on first sample")
	}
	// Third point has no <ele>: elevation must come through absent.
	if samples[2].ElevationM != nil {
		t.Fatalf("expected absent elevation on third sample")
	}

	if len(waypoints) != 1 {
		t.Fatalf("expected 1 waypoint, got %d", len(waypoints))
	}
	wp := waypoints[0]
	if wp.Name != "Aid 1" || wp.Description != "first aid station" {
		t.Fatalf("unexpected waypoint: %+v", wp)
	}
	if wp.ElevationM == nil || *wp.ElevationM != 52.0 {
		t.Fatalf("expected waypoint elevation 52, got %v", wp.ElevationM)
	}
}

func TestDecodeNoTrackPoints(t *testing.T) {
	_, _, err := Decode([]byte(noPointsGPX))
	if !errors.Is(err, ErrNoTrackPoints) {
		t.Fatalf("expected ErrNoTrackPoints, got %v", err)
	}
}

func TestDecodeInvalidXML(t *testing.T) {
	_, _, err := Decode([]byte("not xml at all"))
	if !errors.Is(err, ErrMalformedGPX) {
		t.Fatalf("expected ErrMalformedGPX, got %v", err)
	}
}
