// Package osm defines the map entity model shared by the feature graph and
// the measurement engine.
package osm

import (
	"github.com/twpayne/go-geom"
)

// Type is the topological entity type.
type Type string

// Entity types.
const (
	Node     Type = "node"
	Way      Type = "way"
	Relation Type = "relation"
)

// ParseType maps a type name to a Type. Unknown names return false.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Node, Way, Relation:
		return Type(s), true
	}
	return "", false
}

// Geometry is the data store's classification of how an entity is drawn.
type Geometry string

// Geometry classes.
const (
	GeometryPoint    Geometry = "point"
	GeometryVertex   Geometry = "vertex"
	GeometryLine     Geometry = "line"
	GeometryArea     Geometry = "area"
	GeometryRelation Geometry = "relation"
)

// Entity is a single selectable map feature.
type Entity struct {
	ID   string
	Type Type
	Tags map[string]string

	// Geom holds lon/lat coordinates (geom.XY, SRID 4326).
	Geom geom.T
}

// Tag returns the tag value for key, or "".
func (e *Entity) Tag(key string) string {
	if e.Tags == nil {
		return ""
	}
	return e.Tags[key]
}
