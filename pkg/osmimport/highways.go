package osmimport

import (
	"strconv"
	"strings"

	"github.com/azybler/pathforge/pkg/config"
)

// StreetType classifies an OSM way by its highway tag value, driving
// lane-count/speed defaults and per-vehicle-category accessibility.
// Adapted from original_source/src/network/defaults.rs's StreetType
// enum; the Rust original additionally special-cases dozens of
// malformed real-world maxspeed tag strings, which is trimmed here to
// a numeric-prefix parse plus the same StreetType-keyed default table.
type StreetType int

const (
	StreetUnknown StreetType = iota
	StreetMotorway
	StreetMotorwayLink
	StreetTrunk
	StreetTrunkLink
	StreetPrimary
	StreetPrimaryLink
	StreetSecondary
	StreetSecondaryLink
	StreetTertiary
	StreetTertiaryLink
	StreetUnclassified
	StreetResidential
	StreetLivingStreet
	StreetService
	StreetPedestrian
	StreetFootway
	StreetPath
	StreetCycleway
	StreetTrack
)

// streetDef holds one StreetType's defaults and per-category
// accessibility. pickyExcluded marks a street type that a "picky"
// vehicle of that category avoids even though an unpicky one of the
// same category would use it — e.g. a picky driver skips service
// roads and tracks, a picky cyclist skips primary roads and tracks.
type streetDef struct {
	lanes         int
	maxspeedKMH   float64
	car           bool
	carPicky      bool // additional requirement when AreDriversPicky
	bicycle       bool
	bicyclePicky  bool
	pedestrian    bool
}

var streetDefs = map[StreetType]streetDef{
	StreetMotorway:      {lanes: 2, maxspeedKMH: 120, car: true},
	StreetMotorwayLink:  {lanes: 1, maxspeedKMH: 80, car: true},
	StreetTrunk:         {lanes: 2, maxspeedKMH: 100, car: true},
	StreetTrunkLink:     {lanes: 1, maxspeedKMH: 70, car: true},
	StreetPrimary:       {lanes: 2, maxspeedKMH: 90, car: true, bicycle: true, bicyclePicky: true},
	StreetPrimaryLink:   {lanes: 1, maxspeedKMH: 50, car: true, bicycle: true, bicyclePicky: true},
	StreetSecondary:     {lanes: 2, maxspeedKMH: 70, car: true, bicycle: true},
	StreetSecondaryLink: {lanes: 1, maxspeedKMH: 50, car: true, bicycle: true},
	StreetTertiary:      {lanes: 1, maxspeedKMH: 50, car: true, bicycle: true},
	StreetTertiaryLink:  {lanes: 1, maxspeedKMH: 50, car: true, bicycle: true},
	StreetUnclassified:  {lanes: 1, maxspeedKMH: 50, car: true, carPicky: true, bicycle: true},
	StreetResidential:   {lanes: 1, maxspeedKMH: 30, car: true, carPicky: true, bicycle: true, pedestrian: true},
	StreetLivingStreet:  {lanes: 1, maxspeedKMH: 10, car: true, carPicky: true, bicycle: true, pedestrian: true},
	StreetService:       {lanes: 1, maxspeedKMH: 20, car: true, carPicky: true, bicycle: true, pedestrian: true},
	StreetPedestrian:    {lanes: 1, maxspeedKMH: 5, bicycle: true, bicyclePicky: true, pedestrian: true},
	StreetFootway:       {lanes: 1, maxspeedKMH: 5, pedestrian: true},
	StreetPath:          {lanes: 1, maxspeedKMH: 10, bicycle: true, pedestrian: true},
	StreetCycleway:      {lanes: 1, maxspeedKMH: 18, bicycle: true},
	StreetTrack:         {lanes: 1, maxspeedKMH: 20, car: true, carPicky: true, bicycle: true, bicyclePicky: true, pedestrian: true},
}

// streetTypeByTag maps an OSM highway tag value to a StreetType.
var streetTypeByTag = map[string]StreetType{
	"motorway":       StreetMotorway,
	"motorway_link":  StreetMotorwayLink,
	"trunk":          StreetTrunk,
	"trunk_link":     StreetTrunkLink,
	"primary":        StreetPrimary,
	"primary_link":   StreetPrimaryLink,
	"secondary":      StreetSecondary,
	"secondary_link": StreetSecondaryLink,
	"tertiary":       StreetTertiary,
	"tertiary_link":  StreetTertiaryLink,
	"unclassified":   StreetUnclassified,
	"residential":    StreetResidential,
	"living_street":  StreetLivingStreet,
	"service":        StreetService,
	"pedestrian":     StreetPedestrian,
	"footway":        StreetFootway,
	"path":           StreetPath,
	"cycleway":       StreetCycleway,
	"track":          StreetTrack,
}

// StreetTypeFromTag resolves an OSM highway tag value, or StreetUnknown
// if the value names something the importer does not route over
// (steps, construction, proposed, abandoned, and the like).
func StreetTypeFromTag(highway string) StreetType {
	if st, ok := streetTypeByTag[highway]; ok {
		return st
	}
	return StreetUnknown
}

// DefaultLanes returns the street type's default lane count, used when
// a way carries no explicit lanes tag.
func (st StreetType) DefaultLanes() int {
	return streetDefs[st].lanes
}

// DefaultMaxspeedKMH returns the street type's default speed limit,
// used when a way carries no explicit (or unparseable) maxspeed tag.
func (st StreetType) DefaultMaxspeedKMH() float64 {
	return streetDefs[st].maxspeedKMH
}

// IsForVehicles reports whether a car may travel this street type.
// areDriversPicky additionally excludes unclassified/residential/
// service/living-street/track roads that a picky driver routes around.
func (st StreetType) IsForVehicles(areDriversPicky bool) bool {
	d := streetDefs[st]
	if !d.car {
		return false
	}
	return !(areDriversPicky && d.carPicky)
}

// IsForBicycles reports whether a bicycle may travel this street type.
func (st StreetType) IsForBicycles(arePicky bool) bool {
	d := streetDefs[st]
	if !d.bicycle {
		return false
	}
	return !(arePicky && d.bicyclePicky)
}

// IsForPedestrians reports whether a pedestrian may travel this street
// type. Pedestrian accessibility has no picky variant: a walker either
// can use a way or cannot.
func (st StreetType) IsForPedestrians() bool {
	return streetDefs[st].pedestrian
}

// IsAccessible dispatches to the right predicate for category, so
// callers need not branch on the vehicle category themselves.
func (st StreetType) IsAccessible(category config.VehicleCategory, arePicky bool) bool {
	switch category {
	case config.VehicleCar:
		return st.IsForVehicles(arePicky)
	case config.VehicleBicycle:
		return st.IsForBicycles(arePicky)
	case config.VehiclePedestrian:
		return st.IsForPedestrians()
	default:
		return false
	}
}

// ParseMaxspeed extracts a km/h speed from an OSM maxspeed tag value.
// Handles the bare-number case ("50"), the "<n> mph" case (converted
// to km/h), and returns ok=false for "walk"/"none"/"signals" and other
// non-numeric values the caller should fall back to the street type's
// default for.
func ParseMaxspeed(raw string) (kmh float64, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if strings.HasSuffix(s, "mph") {
		n, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "mph")), 64)
		if err != nil {
			return 0, false
		}
		return n * 1.60934, true
	}
	s = strings.TrimSuffix(s, "km/h")
	s = strings.TrimSuffix(s, "kmh")
	s = strings.TrimSpace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseLanes extracts a lane count from an OSM lanes tag value,
// truncating fractional/turn-lane oddities ("2.5", "2;3") down to
// their integer prefix.
func ParseLanes(raw string) (lanes int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if idx := strings.IndexAny(s, ".;"); idx != -1 {
		s = s[:idx]
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// directionFlags resolves (forward, backward) traversability from a
// way's highway/junction/oneway tags. Grounded on the teacher's
// pkg/osm/parser.go directionFlags plus original_source's parse_oneway
// table, generalized to treat "reversible" (time-dependent) as
// unusable in either direction rather than guessing a fixed one.
func directionFlags(highway, junction, oneway string) (forward, backward bool) {
	forward, backward = true, true

	if highway == "motorway" || highway == "motorway_link" || junction == "roundabout" {
		backward = false
	}

	switch oneway {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no", "0", "false":
		forward, backward = true, true
	case "reversible", "alternating":
		forward, backward = false, false
	}

	return forward, backward
}
