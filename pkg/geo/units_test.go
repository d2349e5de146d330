package geo

import "testing"

func TestDuration(t *testing.T) {
	tests := []struct {
		name    string
		dist    Meters
		kmh     KMH
		wantSec Seconds
	}{
		{"60kmh for 1km", 1000, 60, 60},
		{"30kmh for 500m", 500, 30, 60},
		{"zero speed is safe", 1000, 0, 0},
		{"negative speed is safe", 1000, -5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Duration(tt.dist, tt.kmh)
			if diff := float64(got - tt.wantSec); diff < -1e-9 || diff > 1e-9 {
				t.Errorf("Duration(%v, %v) = %v, want %v", tt.dist, tt.kmh, got, tt.wantSec)
			}
		})
	}
}

func TestCoordinateDistanceTo(t *testing.T) {
	berlin := Coordinate{Lat: 52.5200, Lon: 13.4050}
	munich := Coordinate{Lat: 48.1351, Lon: 11.5820}

	got := berlin.DistanceTo(munich)
	want := Meters(Haversine(berlin.Lat, berlin.Lon, munich.Lat, munich.Lon))
	if got != want {
		t.Errorf("DistanceTo() = %v, want %v", got, want)
	}
	if got < 480_000 || got > 520_000 {
		t.Errorf("DistanceTo() = %v, want roughly 500km", got)
	}
}
