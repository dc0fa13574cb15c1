// Package geodesic measures features on the unit sphere: great-circle path
// length, solid-angle area and spherical centroid, plus the analyzer that
// turns a resolved map entity into raw measurements.
package geodesic

import "math"

const (
	radians   = math.Pi / 180
	degrees   = 180 / math.Pi
	quarterPi = math.Pi / 4
	tau       = 2 * math.Pi

	epsilon  = 1e-6
	epsilon2 = 1e-12
)

// adder accumulates floating point values with error compensation so long
// paths do not drift.
type adder struct {
	s, t float64
}

func twoSum(a, b float64) (s, t float64) {
	s = a + b
	bv := s - a
	av := s - bv
	t = (a - av) + (b - bv)
	return s, t
}

func (a *adder) Add(y float64) {
	ts, tt := twoSum(y, a.t)
	a.s, a.t = twoSum(ts, a.s)
	if a.s != 0 {
		a.t += tt
	} else {
		a.s = tt
	}
}

func (a *adder) Value() float64 { return a.s }

// acos and asin clamp their argument into the valid domain.
func acos(x float64) float64 {
	switch {
	case x > 1:
		return 0
	case x < -1:
		return math.Pi
	}
	return math.Acos(x)
}

func asin(x float64) float64 {
	switch {
	case x > 1:
		return math.Pi / 2
	case x < -1:
		return -math.Pi / 2
	}
	return math.Asin(x)
}

// cartesian returns the unit vector for a lon/lat pair in degrees.
func cartesian(lon, lat float64) (x, y, z float64) {
	lambda, phi := lon*radians, lat*radians
	cosPhi := math.Cos(phi)
	return cosPhi * math.Cos(lambda), cosPhi * math.Sin(lambda), math.Sin(phi)
}
