package geodesic

import (
	"math"

	"github.com/twpayne/go-geom"
)

// centroid accumulates zero-, one- and two-dimensional moments on the unit
// sphere. Dimension 2 (area) wins when present, then 1 (length), then 0.
type centroid struct {
	w0, x0, y0, z0 float64
	w1, x1, y1, z1 float64
	x2, y2, z2     float64

	// previous vertex of the current line or ring
	px, py, pz float64
}

func (c *centroid) pointCartesian(x, y, z float64) {
	c.w0++
	c.x0 += (x - c.x0) / c.w0
	c.y0 += (y - c.y0) / c.w0
	c.z0 += (z - c.z0) / c.w0
}

func (c *centroid) point(coord geom.Coord) {
	c.pointCartesian(cartesian(coord[0], coord[1]))
}

func (c *centroid) first(coord geom.Coord) {
	c.px, c.py, c.pz = cartesian(coord[0], coord[1])
	c.pointCartesian(c.px, c.py, c.pz)
}

func (c *centroid) lineTo(coord geom.Coord) {
	x, y, z := cartesian(coord[0], coord[1])
	cx := c.py*z - c.pz*y
	cy := c.pz*x - c.px*z
	cz := c.px*y - c.py*x
	w := math.Atan2(math.Sqrt(cx*cx+cy*cy+cz*cz), c.px*x+c.py*y+c.pz*z)
	c.segment(w, x, y, z)
}

func (c *centroid) ringTo(coord geom.Coord) {
	x, y, z := cartesian(coord[0], coord[1])
	cx := c.py*z - c.pz*y
	cy := c.pz*x - c.px*z
	cz := c.px*y - c.py*x
	m := math.Sqrt(cx*cx + cy*cy + cz*cz)
	u := c.px*x + c.py*y + c.pz*z

	var v float64
	if m != 0 {
		v = -acos(u) / m
	}
	c.x2 += v * cx
	c.y2 += v * cy
	c.z2 += v * cz
	c.segment(math.Atan2(m, u), x, y, z)
}

func (c *centroid) segment(w, x, y, z float64) {
	c.w1 += w
	c.x1 += w * (c.px + x)
	c.y1 += w * (c.py + y)
	c.z1 += w * (c.pz + z)
	c.px, c.py, c.pz = x, y, z
	c.pointCartesian(x, y, z)
}

func (c *centroid) line(coords []geom.Coord) {
	if len(coords) == 0 {
		return
	}
	c.first(coords[0])
	for _, coord := range coords[1:] {
		c.lineTo(coord)
	}
}

// ring treats coords as a closed GeoJSON ring: the repeated closing vertex
// is dropped and the ring is closed back to its first vertex.
func (c *centroid) ring(coords []geom.Coord) {
	if len(coords) < 2 {
		return
	}
	coords = coords[:len(coords)-1]
	c.first(coords[0])
	for _, coord := range coords[1:] {
		c.ringTo(coord)
	}
	c.ringTo(coords[0])
}

func (c *centroid) polygon(p *geom.Polygon) {
	for i := 0; i < p.NumLinearRings(); i++ {
		c.ring(p.LinearRing(i).Coords())
	}
}

func (c *centroid) add(g geom.T) {
	switch t := g.(type) {
	case *geom.Point:
		if !t.Empty() {
			c.point(t.Coords())
		}
	case *geom.MultiPoint:
		for i := 0; i < t.NumPoints(); i++ {
			c.point(t.Point(i).Coords())
		}
	case *geom.LineString:
		c.line(t.Coords())
	case *geom.MultiLineString:
		for i := 0; i < t.NumLineStrings(); i++ {
			c.line(t.LineString(i).Coords())
		}
	case *geom.Polygon:
		c.polygon(t)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			c.polygon(t.Polygon(i))
		}
	case *geom.GeometryCollection:
		for _, child := range t.Geoms() {
			c.add(child)
		}
	}
}

// SphericalCentroid returns the spherical centroid of g as lon, lat in
// degrees. Polygons are weighted by area, lines by length, points equally.
// Both values are NaN when the centroid is undefined, for example for an
// empty geometry or two antipodal points.
func SphericalCentroid(g geom.T) (lon, lat float64) {
	var c centroid
	c.add(g)

	x, y, z := c.x2, c.y2, c.z2
	m := x*x + y*y + z*z
	if m < epsilon2 {
		x, y, z = c.x1, c.y1, c.z1
		if c.w1 < epsilon {
			x, y, z = c.x0, c.y0, c.z0
		}
		m = x*x + y*y + z*z
		if m < epsilon2 {
			return math.NaN(), math.NaN()
		}
	}
	return math.Atan2(y, x) * degrees, asin(z/math.Sqrt(m)) * degrees
}
