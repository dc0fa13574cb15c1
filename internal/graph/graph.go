// Package graph is the in-memory entity store the measurement panel reads
// from. Entities are loaded from GeoJSON, shapefiles, GeoPackages or PostGIS.
package graph

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/measure-cli/internal/geodesic"
	"github.com/sells-group/measure-cli/internal/osm"
)

// degenerateSteradians is the enclosed solid angle (about 4 mm²) below
// which a closed ring counts as degenerate.
const degenerateSteradians = 1e-16

var (
	// ErrNotFound is returned when an entity ID is not in the graph.
	ErrNotFound = eris.New("graph: entity not found")

	// ErrUnsupportedGeometry is returned for geometries the graph cannot
	// measure.
	ErrUnsupportedGeometry = eris.New("graph: unsupported geometry")
)

// Graph holds entities keyed by ID, preserving insertion order.
type Graph struct {
	entities map[string]*osm.Entity
	order    []string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{entities: make(map[string]*osm.Entity)}
}

// Add inserts e. IDs must be unique and geometry must be present.
func (g *Graph) Add(e *osm.Entity) error {
	if e == nil || e.ID == "" {
		return eris.New("graph: entity id is required")
	}
	if e.Geom == nil {
		return eris.Wrapf(ErrUnsupportedGeometry, "graph: entity %s has no geometry", e.ID)
	}
	if _, ok := g.entities[e.ID]; ok {
		return eris.Errorf("graph: duplicate entity id %q", e.ID)
	}
	g.entities[e.ID] = e
	g.order = append(g.order, e.ID)
	return nil
}

// Merge adds every entity of other to g.
func (g *Graph) Merge(other *Graph) error {
	for _, id := range other.order {
		if err := g.Add(other.entities[id]); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of entities.
func (g *Graph) Len() int { return len(g.order) }

// IDs returns entity IDs in insertion order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Entity looks up an entity by ID.
func (g *Graph) Entity(id string) (*osm.Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// HasEntity reports whether id resolves.
func (g *Graph) HasEntity(id string) bool {
	_, ok := g.entities[id]
	return ok
}

// MustEntity returns the entity or ErrNotFound.
func (g *Graph) MustEntity(id string) (*osm.Entity, error) {
	e, ok := g.entities[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "graph: %s", id)
	}
	return e, nil
}

// Extent returns the bounding box of e.
func (g *Graph) Extent(e *osm.Entity) *geom.Bounds {
	return e.Geom.Bounds()
}

// Geometry classifies how e is drawn.
func (g *Graph) Geometry(e *osm.Entity) osm.Geometry {
	switch e.Type {
	case osm.Node:
		if g.isVertex(e) {
			return osm.GeometryVertex
		}
		return osm.GeometryPoint
	case osm.Way:
		if g.isArea(e) {
			return osm.GeometryArea
		}
		return osm.GeometryLine
	default:
		if isPolygonal(e.Geom) {
			return osm.GeometryArea
		}
		return osm.GeometryRelation
	}
}

// AsGeometry exports e as a lon/lat geometry. Area ways are returned as
// polygons and polygon rings are wound so they enclose the smaller side.
func (g *Graph) AsGeometry(e *osm.Entity) (geom.T, error) {
	if e.Geom == nil {
		return nil, eris.Wrapf(ErrUnsupportedGeometry, "graph: entity %s has no geometry", e.ID)
	}
	if e.Type == osm.Way && g.isArea(e) {
		if ls, ok := e.Geom.(*geom.LineString); ok {
			poly, err := ringPolygon(ls.Coords())
			if err != nil {
				return nil, eris.Wrapf(err, "graph: entity %s", e.ID)
			}
			return geodesic.Orient(poly), nil
		}
	}
	return geodesic.Orient(e.Geom), nil
}

// Area returns the solid angle enclosed by e in steradians. Open ways are
// closed back to their first vertex, matching how they would be filled.
func (g *Graph) Area(e *osm.Entity) (float64, error) {
	switch t := e.Geom.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return geodesic.PolygonArea(t), nil
	case *geom.LineString:
		coords := t.Coords()
		if len(coords) < 3 {
			return 0, nil
		}
		poly, err := ringPolygon(coords)
		if err != nil {
			return 0, eris.Wrapf(err, "graph: entity %s", e.ID)
		}
		return geodesic.PolygonArea(poly), nil
	case *geom.GeometryCollection, *geom.MultiLineString:
		return geodesic.PolygonArea(t), nil
	}
	return 0, eris.Wrapf(ErrUnsupportedGeometry, "graph: area of %s (%T)", e.ID, e.Geom)
}

// IsClosed reports whether e forms a closed ring.
func (g *Graph) IsClosed(e *osm.Entity) bool {
	switch t := e.Geom.(type) {
	case *geom.LineString:
		return ringClosed(t.Coords())
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	}
	return false
}

// IsDegenerate reports whether e has too few distinct vertices to be drawn
// as what it is, or is a closed ring enclosing no area.
func (g *Graph) IsDegenerate(e *osm.Entity) bool {
	if e.Type == osm.Node {
		return false
	}

	path := geodesic.Path(e.Geom)
	if path == nil {
		return false
	}

	closed := g.IsClosed(e)
	need := 2
	if closed || g.isArea(e) {
		need = 3
	}
	if distinct(path) < need {
		return true
	}
	if !closed {
		return false
	}

	poly, err := ringPolygon(path)
	if err != nil {
		return true
	}
	return geodesic.PolygonArea(poly) < degenerateSteradians
}

func (g *Graph) isArea(e *osm.Entity) bool {
	switch t := e.Geom.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	case *geom.LineString:
		return e.Tag("area") == "yes" && ringClosed(t.Coords())
	}
	return false
}

// isVertex reports whether node e sits on a vertex of some way.
func (g *Graph) isVertex(e *osm.Entity) bool {
	p, ok := e.Geom.(*geom.Point)
	if !ok || p.Empty() {
		return false
	}
	x, y := p.X(), p.Y()
	for _, id := range g.order {
		w := g.entities[id]
		if w.Type != osm.Way {
			continue
		}
		for _, c := range geodesic.Path(w.Geom) {
			if c[0] == x && c[1] == y {
				return true
			}
		}
	}
	return false
}

func isPolygonal(t geom.T) bool {
	switch t.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	}
	return false
}

func ringClosed(coords []geom.Coord) bool {
	if len(coords) < 2 {
		return false
	}
	first, last := coords[0], coords[len(coords)-1]
	return first[0] == last[0] && first[1] == last[1]
}

// ringPolygon builds a single-ring polygon from coords, closing the ring
// if needed.
func ringPolygon(coords []geom.Coord) (*geom.Polygon, error) {
	ring := make([]geom.Coord, 0, len(coords)+1)
	for _, c := range coords {
		ring = append(ring, geom.Coord{c[0], c[1]})
	}
	if len(ring) > 0 && !ringClosed(ring) {
		ring = append(ring, geom.Coord{ring[0][0], ring[0][1]})
	}
	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, eris.Wrap(err, "graph: build ring polygon")
	}
	return poly, nil
}

// distinct counts distinct coordinates.
func distinct(coords []geom.Coord) int {
	seen := make(map[[2]float64]struct{}, len(coords))
	for _, c := range coords {
		seen[[2]float64{c[0], c[1]}] = struct{}{}
	}
	return len(seen)
}
