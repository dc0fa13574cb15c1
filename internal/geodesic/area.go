package geodesic

import (
	"math"

	"github.com/twpayne/go-geom"
)

// areaRing adds the signed solid-angle contribution of one closed ring.
func areaRing(sum *adder, coords []geom.Coord, reverse bool) {
	if len(coords) < 2 {
		return
	}
	coords = coords[:len(coords)-1]
	n := len(coords)
	at := func(i int) geom.Coord {
		if reverse {
			return coords[n-1-i]
		}
		return coords[i]
	}

	first := at(0)
	lambda0 := first[0] * radians
	phi := first[1]*radians/2 + quarterPi
	cosPhi0, sinPhi0 := math.Cos(phi), math.Sin(phi)

	step := func(c geom.Coord) {
		lambda := c[0] * radians
		phi := c[1]*radians/2 + quarterPi

		dLambda := lambda - lambda0
		sdLambda := 1.0
		if dLambda < 0 {
			sdLambda = -1
		}
		adLambda := sdLambda * dLambda
		cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)
		k := sinPhi0 * sinPhi
		u := cosPhi0*cosPhi + k*math.Cos(adLambda)
		v := k * sdLambda * math.Sin(adLambda)
		sum.Add(math.Atan2(v, u))

		lambda0, cosPhi0, sinPhi0 = lambda, cosPhi, sinPhi
	}

	for i := 1; i < n; i++ {
		step(at(i))
	}
	step(first)
}

func polygonArea(total *adder, p *geom.Polygon, reverse bool) {
	var ring adder
	for i := 0; i < p.NumLinearRings(); i++ {
		areaRing(&ring, p.LinearRing(i).Coords(), reverse)
	}
	a := ring.Value()
	if a < 0 {
		a += tau
	}
	total.Add(a)
}

func sphericalArea(g geom.T, reverse bool) float64 {
	var total adder
	var walk func(geom.T)
	walk = func(g geom.T) {
		switch t := g.(type) {
		case *geom.Polygon:
			polygonArea(&total, t, reverse)
		case *geom.MultiPolygon:
			for i := 0; i < t.NumPolygons(); i++ {
				polygonArea(&total, t.Polygon(i), reverse)
			}
		case *geom.GeometryCollection:
			for _, child := range t.Geoms() {
				walk(child)
			}
		}
	}
	walk(g)
	return total.Value() * 2
}

// SphericalArea returns the solid angle in steradians enclosed by the
// polygonal parts of g. Exterior rings are expected clockwise; a
// counter-clockwise ring encloses the rest of the sphere.
func SphericalArea(g geom.T) float64 {
	return sphericalArea(g, false)
}

// PolygonArea returns the solid angle of g regardless of ring winding,
// assuming no feature covers more than a hemisphere. NaN results are
// reported as zero.
func PolygonArea(g geom.T) float64 {
	a := sphericalArea(g, false)
	if a > tau {
		a = sphericalArea(g, true)
	}
	if math.IsNaN(a) {
		return 0
	}
	return a
}

// Orient returns g with every polygon ring reversed when g, as given,
// would enclose more than a hemisphere. Other geometries are returned
// unchanged.
func Orient(g geom.T) geom.T {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
	default:
		return g
	}
	if SphericalArea(g) <= tau {
		return g
	}

	switch t := g.(type) {
	case *geom.Polygon:
		return reversePolygon(t)
	case *geom.MultiPolygon:
		mp := geom.NewMultiPolygon(geom.XY).SetSRID(t.SRID())
		for i := 0; i < t.NumPolygons(); i++ {
			if err := mp.Push(reversePolygon(t.Polygon(i))); err != nil {
				return g
			}
		}
		return mp
	}
	return g
}

func reversePolygon(p *geom.Polygon) *geom.Polygon {
	rings := make([][]geom.Coord, p.NumLinearRings())
	for i := range rings {
		src := p.LinearRing(i).Coords()
		dst := make([]geom.Coord, len(src))
		for j, c := range src {
			dst[len(src)-1-j] = geom.Coord{c[0], c[1]}
		}
		rings[i] = dst
	}
	return geom.NewPolygon(geom.XY).MustSetCoords(rings).SetSRID(p.SRID())
}
