package graph

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/measure-cli/internal/osm"
)

// LoadShapefile reads points, polylines and polygons from a shapefile.
// Single-part shapes become nodes or ways; multi-part shapes become
// relations. The "id" attribute names the entity, falling back to
// "<basename>/<record>".
func LoadShapefile(path string) (*Graph, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "graph: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}
	attr := func(name string) string {
		idx, ok := fieldIdx[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(strings.TrimRight(reader.Attribute(idx), "\x00"))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	g := New()
	var skipped int

	for reader.Next() {
		n, shape := reader.Shape()

		typ, t := shapeGeometry(shape)
		if t == nil {
			skipped++
			continue
		}

		id := attr(propID)
		if id == "" {
			id = fmt.Sprintf("%s/%d", base, n)
		}
		if v := attr(propType); v != "" {
			parsed, ok := osm.ParseType(v)
			if !ok {
				return nil, eris.Errorf("graph: record %s has unknown osm_type %q", id, v)
			}
			typ = parsed
		}

		if err := g.Add(&osm.Entity{ID: id, Type: typ, Geom: t}); err != nil {
			return nil, err
		}
	}

	if skipped > 0 {
		zap.L().Debug("graph: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}
	return g, nil
}

// shapeGeometry converts a shapefile record. Unsupported or empty shapes
// return a nil geometry.
func shapeGeometry(shape shp.Shape) (osm.Type, geom.T) {
	switch s := shape.(type) {
	case *shp.Point:
		return osm.Node, geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)

	case *shp.PolyLine:
		parts := splitParts(s.NumParts, s.Parts, s.Points)
		switch len(parts) {
		case 0:
			return "", nil
		case 1:
			ls, err := geom.NewLineString(geom.XY).SetCoords(parts[0])
			if err != nil {
				return "", nil
			}
			return osm.Way, ls.SetSRID(4326)
		}
		mls := geom.NewMultiLineString(geom.XY).SetSRID(4326)
		for i, part := range parts {
			ls, err := geom.NewLineString(geom.XY).SetCoords(part)
			if err == nil {
				err = mls.Push(ls)
			}
			if err != nil {
				zap.L().Debug("graph: skipping malformed linestring part", zap.Int("part", i), zap.Error(err))
			}
		}
		return osm.Relation, mls

	case *shp.Polygon:
		parts := splitParts(s.NumParts, s.Parts, s.Points)
		switch len(parts) {
		case 0:
			return "", nil
		case 1:
			poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{parts[0]})
			if err != nil {
				return "", nil
			}
			return osm.Way, poly.SetSRID(4326)
		}
		mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)
		for i, part := range parts {
			poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{part})
			if err == nil {
				err = mp.Push(poly)
			}
			if err != nil {
				zap.L().Debug("graph: skipping malformed polygon part", zap.Int("part", i), zap.Error(err))
			}
		}
		return osm.Relation, mp
	}
	return "", nil
}

// splitParts slices the shared point array of a multi-part shape.
func splitParts(numParts int32, starts []int32, points []shp.Point) [][]geom.Coord {
	if numParts == 0 || len(points) == 0 {
		return nil
	}
	parts := make([][]geom.Coord, 0, numParts)
	for i := int32(0); i < numParts; i++ {
		start := starts[i]
		end := int32(len(points))
		if i+1 < numParts {
			end = starts[i+1]
		}
		coords := make([]geom.Coord, 0, end-start)
		for j := start; j < end; j++ {
			coords = append(coords, geom.Coord{points[j].X, points[j].Y})
		}
		parts = append(parts, coords)
	}
	return parts
}
