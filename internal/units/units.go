// Package units converts angular measures on the sphere into linear and
// areal Earth measures and models the metric/imperial display systems.
package units

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	// AuthalicRadius is the WGS84 authalic mean radius in meters.
	AuthalicRadius = 6371007.1809

	// EarthSurfaceArea is the WGS84 surface area in square meters.
	EarthSurfaceArea = 510065621724000
)

// RadiansToMeters converts a great-circle arc length in radians to meters.
func RadiansToMeters(r float64) float64 {
	return r * AuthalicRadius
}

// SteradiansToSquareMeters converts a solid angle to a surface area.
func SteradiansToSquareMeters(sr float64) float64 {
	return sr / (4 * math.Pi) * EarthSurfaceArea
}

// System is a display unit system.
type System int

// Supported unit systems.
const (
	Metric System = iota
	Imperial
)

// String returns the lower-case system name.
func (s System) String() string {
	if s == Imperial {
		return "imperial"
	}
	return "metric"
}

// Toggle returns the other system.
func (s System) Toggle() System {
	if s == Imperial {
		return Metric
	}
	return Imperial
}

// Parse parses "metric" or "imperial" (case-insensitive).
func Parse(name string) (System, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, eris.Errorf("units: unknown system %q", name)
	}
}
