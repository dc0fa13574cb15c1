package graph

import (
	"context"
	"fmt"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"

	"github.com/sells-group/measure-cli/internal/osm"
)

func ewkbBytes(t *testing.T, g geom.T) []byte {
	t.Helper()
	data, err := ewkb.Marshal(g, ewkb.NDR)
	require.NoError(t, err)
	return data
}

func TestLoadPostGIS_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	line := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{-97.74, 30.26}, {-97.73, 30.27}}).SetSRID(4326)
	point := geom.NewPointFlat(geom.XY, []float64{-97.75, 30.27}).SetSRID(4326)

	mock.ExpectQuery(`SELECT .+ FROM "geo"."features"`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "osm_type", "geom"}).
			AddRow("n1", "", ewkbBytes(t, point)).
			AddRow("w1", "way", ewkbBytes(t, line)))

	g, err := LoadPostGIS(context.Background(), mock, "geo.features")
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "w1"}, g.IDs())

	n1 := entity(t, g, "n1")
	assert.Equal(t, osm.Node, n1.Type)
	assert.Equal(t, 4326, n1.Geom.SRID())

	w1 := entity(t, g, "w1")
	assert.Equal(t, osm.Way, w1.Type)
	assert.IsType(t, &geom.LineString{}, w1.Geom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPostGIS_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM "features"`).WillReturnError(fmt.Errorf("connection refused"))

	_, err = LoadPostGIS(context.Background(), mock, "features")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query features")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPostGIS_BadGeometry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM "features"`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "osm_type", "geom"}).
			AddRow("w1", "way", []byte{0x00}))

	_, err = LoadPostGIS(context.Background(), mock, "features")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode ewkb of w1")
}

func TestLoadPostGIS_UnknownType(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	point := geom.NewPointFlat(geom.XY, []float64{0, 0})
	mock.ExpectQuery(`SELECT .+ FROM "features"`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "osm_type", "geom"}).
			AddRow("x1", "area", ewkbBytes(t, point)))

	_, err = LoadPostGIS(context.Background(), mock, "features")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown osm_type")
}

func TestLoadPostGIS_InvalidTable(t *testing.T) {
	_, err := LoadPostGIS(context.Background(), nil, "features; DROP TABLE x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid table name")
}
