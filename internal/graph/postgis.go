package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// Querier is the subset of a pgx pool used to load entities.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadPostGIS reads entities from a PostGIS table with columns
// (id, osm_type, geom). table may be schema-qualified.
func LoadPostGIS(ctx context.Context, q Querier, table string) (*Graph, error) {
	if err := validateIdent(table); err != nil {
		return nil, err
	}

	sql := fmt.Sprintf(
		`SELECT id::text, COALESCE(osm_type, ''), ST_AsEWKB(geom) FROM %s WHERE geom IS NOT NULL ORDER BY id`,
		pgx.Identifier(strings.Split(table, ".")).Sanitize(),
	)
	rows, err := q.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "graph: query %s", table)
	}
	defer rows.Close()

	g := New()
	for rows.Next() {
		var (
			id, osmType string
			data        []byte
		)
		if err := rows.Scan(&id, &osmType, &data); err != nil {
			return nil, eris.Wrap(err, "graph: scan postgis row")
		}

		t, err := ewkb.Unmarshal(data)
		if err != nil {
			return nil, eris.Wrapf(err, "graph: decode ewkb of %s", id)
		}
		e, err := newEntity(id, osmType, t)
		if err != nil {
			return nil, err
		}
		if err := g.Add(e); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "graph: iterate postgis rows")
	}
	return g, nil
}
