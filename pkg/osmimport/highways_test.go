package osmimport

import (
	"testing"

	"github.com/azybler/pathforge/pkg/config"
)

func TestStreetTypeAccessibility(t *testing.T) {
	tests := []struct {
		name     string
		highway  string
		category config.VehicleCategory
		picky    bool
		want     bool
	}{
		{"motorway for cars", "motorway", config.VehicleCar, false, true},
		{"motorway for bicycles", "motorway", config.VehicleBicycle, false, false},
		{"footway for cars", "footway", config.VehicleCar, false, false},
		{"footway for pedestrians", "footway", config.VehiclePedestrian, false, true},
		{"cycleway for bicycles", "cycleway", config.VehicleBicycle, false, true},
		{"cycleway for cars", "cycleway", config.VehicleCar, false, false},
		{"service road, non-picky driver", "service", config.VehicleCar, false, true},
		{"service road, picky driver", "service", config.VehicleCar, true, false},
		{"residential, picky driver", "residential", config.VehicleCar, true, false},
		{"primary, picky driver still fine", "primary", config.VehicleCar, true, true},
		{"unknown highway value", "steps", config.VehicleCar, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StreetTypeFromTag(tt.highway)
			got := st.IsAccessible(tt.category, tt.picky)
			if got != tt.want {
				t.Errorf("StreetTypeFromTag(%q).IsAccessible(%s, picky=%v) = %v, want %v",
					tt.highway, tt.category, tt.picky, got, tt.want)
			}
		})
	}
}

func TestDirectionFlags(t *testing.T) {
	tests := []struct {
		name                   string
		highway, junction, one string
		wantForward, wantBack  bool
	}{
		{"default bidirectional", "residential", "", "", true, true},
		{"motorway implied oneway", "motorway", "", "", true, false},
		{"motorway_link implied oneway", "motorway_link", "", "", true, false},
		{"roundabout implied oneway", "residential", "roundabout", "", true, false},
		{"explicit oneway=yes", "primary", "", "yes", true, false},
		{"explicit oneway=1", "primary", "", "1", true, false},
		{"explicit oneway=-1 (reverse)", "primary", "", "-1", false, true},
		{"explicit oneway=reverse", "primary", "", "reverse", false, true},
		{"explicit oneway=no overrides implied", "motorway", "", "no", true, true},
		{"oneway=reversible skips entirely", "primary", "", "reversible", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd, bwd := directionFlags(tt.highway, tt.junction, tt.one)
			if fwd != tt.wantForward || bwd != tt.wantBack {
				t.Errorf("directionFlags() = (%v, %v), want (%v, %v)", fwd, bwd, tt.wantForward, tt.wantBack)
			}
		})
	}
}

func TestParseMaxspeed(t *testing.T) {
	tests := []struct {
		raw     string
		wantKMH float64
		wantOK  bool
	}{
		{"50", 50, true},
		{"50 km/h", 50, true},
		{"30 mph", 30 * 1.60934, true},
		{"walk", 0, false},
		{"signals", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		gotKMH, gotOK := ParseMaxspeed(tt.raw)
		if gotOK != tt.wantOK {
			t.Errorf("ParseMaxspeed(%q) ok = %v, want %v", tt.raw, gotOK, tt.wantOK)
			continue
		}
		if gotOK && (gotKMH < tt.wantKMH-0.01 || gotKMH > tt.wantKMH+0.01) {
			t.Errorf("ParseMaxspeed(%q) = %v, want %v", tt.raw, gotKMH, tt.wantKMH)
		}
	}
}

func TestParseLanes(t *testing.T) {
	tests := []struct {
		raw      string
		wantN    int
		wantOK   bool
	}{
		{"2", 2, true},
		{"2.5", 2, true},
		{"2;3", 2, true},
		{"", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		gotN, gotOK := ParseLanes(tt.raw)
		if gotOK != tt.wantOK || (gotOK && gotN != tt.wantN) {
			t.Errorf("ParseLanes(%q) = (%v, %v), want (%v, %v)", tt.raw, gotN, gotOK, tt.wantN, tt.wantOK)
		}
	}
}
