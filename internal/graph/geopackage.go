package graph

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"regexp"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkb"
	_ "modernc.org/sqlite"

	"github.com/sells-group/measure-cli/internal/osm"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// validateIdent guards table names interpolated into SQL.
func validateIdent(name string) error {
	if !identPattern.MatchString(name) {
		return eris.Errorf("graph: invalid table name %q", name)
	}
	return nil
}

// LoadGeoPackage reads entities from a SQLite table with columns
// (id, osm_type, geom). geom holds a GeoPackage binary or plain WKB; a
// NULL or empty osm_type is inferred from the geometry.
func LoadGeoPackage(ctx context.Context, path, table string) (*Graph, error) {
	if err := validateIdent(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "graph: open geopackage %s", path)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT id, osm_type, geom FROM %s`, table))
	if err != nil {
		return nil, eris.Wrapf(err, "graph: query %s", table)
	}
	defer rows.Close()

	g := New()
	for rows.Next() {
		var (
			id      string
			osmType sql.NullString
			blob    []byte
		)
		if err := rows.Scan(&id, &osmType, &blob); err != nil {
			return nil, eris.Wrap(err, "graph: scan geopackage row")
		}

		t, err := decodeGeoPackage(blob)
		if err != nil {
			return nil, eris.Wrapf(err, "graph: decode geometry of %s", id)
		}
		e, err := newEntity(id, osmType.String, t)
		if err != nil {
			return nil, err
		}
		if err := g.Add(e); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "graph: iterate geopackage rows")
	}
	return g, nil
}

// envelopeSizes maps the GeoPackage envelope indicator to its byte size.
var envelopeSizes = [...]int{0, 32, 48, 48, 64}

// decodeGeoPackage strips a GeoPackage binary header, if present, and
// decodes the remaining WKB.
func decodeGeoPackage(b []byte) (geom.T, error) {
	if len(b) >= 8 && b[0] == 'G' && b[1] == 'P' {
		flags := b[3]
		indicator := int(flags>>1) & 0x07
		if indicator >= len(envelopeSizes) {
			return nil, eris.Errorf("graph: invalid envelope indicator %d", indicator)
		}
		header := 8 + envelopeSizes[indicator]
		if len(b) < header {
			return nil, eris.New("graph: truncated geopackage header")
		}

		var order binary.ByteOrder = binary.BigEndian
		if flags&0x01 == 1 {
			order = binary.LittleEndian
		}
		srid := int(int32(order.Uint32(b[4:8])))

		t, err := wkb.Unmarshal(b[header:])
		if err != nil {
			return nil, eris.Wrap(err, "graph: unmarshal wkb")
		}
		return setSRID(t, srid), nil
	}

	t, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, eris.Wrap(err, "graph: unmarshal wkb")
	}
	return t, nil
}

func setSRID(t geom.T, srid int) geom.T {
	switch g := t.(type) {
	case *geom.Point:
		return g.SetSRID(srid)
	case *geom.LineString:
		return g.SetSRID(srid)
	case *geom.Polygon:
		return g.SetSRID(srid)
	case *geom.MultiPoint:
		return g.SetSRID(srid)
	case *geom.MultiLineString:
		return g.SetSRID(srid)
	case *geom.MultiPolygon:
		return g.SetSRID(srid)
	case *geom.GeometryCollection:
		return g.SetSRID(srid)
	}
	return t
}

// newEntity builds an entity from a database row, inferring the type when
// typeName is empty.
func newEntity(id, typeName string, t geom.T) (*osm.Entity, error) {
	typ := inferType(t)
	if typeName != "" {
		parsed, ok := osm.ParseType(typeName)
		if !ok {
			return nil, eris.Errorf("graph: row %s has unknown osm_type %q", id, typeName)
		}
		typ = parsed
	}
	return &osm.Entity{ID: id, Type: typ, Geom: t}, nil
}
