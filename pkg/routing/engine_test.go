package routing

import (
	"context"
	"testing"
)

func TestEngineRouteFindsPath(t *testing.T) {
	g := buildGrid(t)
	e := NewEngine(g)

	start := LatLng{Lat: 0, Lng: 0}
	end := LatLng{Lat: 3, Lng: 3}
	res, err := e.Route(context.Background(), start, end, []float64{1, 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if res.TotalDistanceMeters != 150 {
		t.Errorf("TotalDistanceMeters = %v, want 150 (direct 0->3 edge)", res.TotalDistanceMeters)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(res.Segments))
	}
	if len(res.Segments[0].Geometry) < 2 {
		t.Errorf("expected geometry with at least 2 points, got %d", len(res.Segments[0].Geometry))
	}
}

func TestEngineRouteRejectsFarPoint(t *testing.T) {
	g := buildGrid(t)
	e := NewEngine(g)

	_, err := e.Route(context.Background(), LatLng{Lat: 50, Lng: 50}, LatLng{Lat: 3, Lng: 3}, []float64{1, 0})
	if err == nil {
		t.Fatal("expected ErrPointTooFar")
	}
}
