package geodesic

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/measure-cli/internal/osm"
	"github.com/sells-group/measure-cli/internal/units"
)

// ErrGeometryUnavailable is returned when the data store cannot produce a
// usable geometry for an entity.
var ErrGeometryUnavailable = eris.New("geodesic: geometry unavailable")

// Kind classifies a feature for measurement purposes.
type Kind int

// Measurement kinds.
const (
	KindPoint Kind = iota
	KindLine
	KindClosedArea
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindClosedArea:
		return "closed_area"
	default:
		return "point"
	}
}

// Resolver is the part of the data store the analyzer reads from.
type Resolver interface {
	AsGeometry(e *osm.Entity) (geom.T, error)
	// Area returns the enclosed solid angle in steradians.
	Area(e *osm.Entity) (float64, error)
	IsClosed(e *osm.Entity) bool
	IsDegenerate(e *osm.Entity) bool
}

// Measurement holds the raw quantities computed for one feature.
// AreaSqMeters is only meaningful for KindClosedArea.
type Measurement struct {
	Kind         Kind
	LengthMeters float64
	AreaSqMeters float64
	Centroid     [2]float64
}

// Closed reports whether the measurement describes a closed area.
func (m Measurement) Closed() bool { return m.Kind == KindClosedArea }

// Classify derives the measurement kind of e. Relations are always closed;
// a way is closed only if its ring closes and encloses a non-degenerate area.
func Classify(r Resolver, e *osm.Entity) Kind {
	switch e.Type {
	case osm.Node:
		return KindPoint
	case osm.Relation:
		return KindClosedArea
	}
	if r.IsClosed(e) && !r.IsDegenerate(e) {
		return KindClosedArea
	}
	return KindLine
}

// Analyze computes length or perimeter, area and centroid for e. Nodes only
// report their location as the centroid.
func Analyze(r Resolver, e *osm.Entity) (Measurement, error) {
	g, err := r.AsGeometry(e)
	if err != nil || g == nil {
		return Measurement{}, unavailable(e, err)
	}

	m := Measurement{Kind: Classify(r, e)}
	if m.Kind == KindPoint {
		p, ok := g.(*geom.Point)
		if !ok || p.Empty() {
			return Measurement{}, unavailable(e, eris.Errorf("node geometry is %T", g))
		}
		m.Centroid = [2]float64{p.X(), p.Y()}
		return m, nil
	}

	m.LengthMeters = units.RadiansToMeters(SphericalLength(Path(g)))

	if m.Closed() {
		sr, err := r.Area(e)
		if err != nil {
			return Measurement{}, unavailable(e, err)
		}
		m.AreaSqMeters = units.SteradiansToSquareMeters(sr)
	}

	lon, lat := SphericalCentroid(g)
	m.Centroid = [2]float64{lon, lat}
	return m, nil
}

func unavailable(e *osm.Entity, cause error) error {
	if cause == nil {
		return eris.Wrapf(ErrGeometryUnavailable, "entity %s", e.ID)
	}
	return eris.Wrapf(ErrGeometryUnavailable, "entity %s: %v", e.ID, cause)
}
