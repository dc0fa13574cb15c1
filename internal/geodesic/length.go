package geodesic

import (
	"math"

	"github.com/twpayne/go-geom"
)

// SphericalLength returns the great-circle length in radians of the path
// through coords, visiting them in order. Closed rings must repeat their
// first coordinate to include the closing segment.
func SphericalLength(coords []geom.Coord) float64 {
	if len(coords) < 2 {
		return 0
	}

	var sum adder
	lambda0 := coords[0][0] * radians
	phi0 := coords[0][1] * radians
	sinPhi0, cosPhi0 := math.Sin(phi0), math.Cos(phi0)

	for _, c := range coords[1:] {
		lambda, phi := c[0]*radians, c[1]*radians
		sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
		delta := math.Abs(lambda - lambda0)
		sinDelta, cosDelta := math.Sin(delta), math.Cos(delta)

		x := cosPhi * sinDelta
		y := cosPhi0*sinPhi - sinPhi0*cosPhi*cosDelta
		z := sinPhi0*sinPhi + cosPhi0*cosPhi*cosDelta
		sum.Add(math.Atan2(math.Sqrt(x*x+y*y), z))

		lambda0, sinPhi0, cosPhi0 = lambda, sinPhi, cosPhi
	}
	return sum.Value()
}

// Path reduces a feature geometry to the single coordinate path used for
// length and perimeter: a line string as-is, the outer ring of a polygon,
// or the outer ring of the first member of a multipolygon. Holes and
// further members are not part of the path.
func Path(g geom.T) []geom.Coord {
	switch t := g.(type) {
	case *geom.LineString:
		return t.Coords()
	case *geom.Polygon:
		if t.NumLinearRings() > 0 {
			return t.LinearRing(0).Coords()
		}
	case *geom.MultiPolygon:
		if t.NumPolygons() > 0 && t.Polygon(0).NumLinearRings() > 0 {
			return t.Polygon(0).LinearRing(0).Coords()
		}
	}
	return nil
}
