package graph

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/measure-cli/internal/osm"
)

// Property names with special meaning on loaded features.
const (
	propID   = "id"
	propType = "osm_type"
)

// LoadGeoJSON reads a FeatureCollection. The feature id (or an "id"
// property) becomes the entity ID; "osm_type" overrides the entity type
// otherwise inferred from the geometry. Remaining scalar properties become
// tags. Features without geometry are skipped.
func LoadGeoJSON(r io.Reader) (*Graph, error) {
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, eris.Wrap(err, "graph: decode geojson")
	}

	g := New()
	var skipped int
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			skipped++
			continue
		}

		id := f.ID
		if id == "" {
			if v, ok := f.Properties[propID]; ok {
				id = fmt.Sprint(v)
			}
		}
		if id == "" {
			id = fmt.Sprintf("feature/%d", i)
		}

		typ := inferType(f.Geometry)
		if v, ok := f.Properties[propType].(string); ok {
			parsed, ok := osm.ParseType(v)
			if !ok {
				return nil, eris.Errorf("graph: feature %s has unknown osm_type %q", id, v)
			}
			typ = parsed
		}

		e := &osm.Entity{
			ID:   id,
			Type: typ,
			Tags: tagsFromProperties(f.Properties),
			Geom: f.Geometry,
		}
		if err := g.Add(e); err != nil {
			return nil, err
		}
	}

	if skipped > 0 {
		zap.L().Debug("graph: skipped features without geometry", zap.Int("skipped", skipped))
	}
	return g, nil
}

// inferType maps a geometry to the entity type that would produce it.
func inferType(t geom.T) osm.Type {
	switch t.(type) {
	case *geom.Point:
		return osm.Node
	case *geom.LineString, *geom.Polygon:
		return osm.Way
	default:
		return osm.Relation
	}
}

func tagsFromProperties(props map[string]interface{}) map[string]string {
	if len(props) == 0 {
		return nil
	}
	tags := make(map[string]string, len(props))
	for k, v := range props {
		if k == propID || k == propType {
			continue
		}
		switch v.(type) {
		case string, float64, bool:
			tags[k] = fmt.Sprint(v)
		}
	}
	return tags
}
