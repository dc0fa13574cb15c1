package graph

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader produces a graph from one source.
type Loader func(ctx context.Context) (*Graph, error)

// GeoJSONFile returns a Loader for a GeoJSON file on disk.
func GeoJSONFile(path string) Loader {
	return func(ctx context.Context) (*Graph, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "graph: open %s", path)
		}
		defer f.Close()
		return LoadGeoJSON(f)
	}
}

// ShapefileFile returns a Loader for a shapefile on disk.
func ShapefileFile(path string) Loader {
	return func(ctx context.Context) (*Graph, error) {
		return LoadShapefile(path)
	}
}

// GeoPackageTable returns a Loader for one table of a GeoPackage file.
func GeoPackageTable(path, table string) Loader {
	return func(ctx context.Context) (*Graph, error) {
		return LoadGeoPackage(ctx, path, table)
	}
}

// PostGISTable returns a Loader for a PostGIS table.
func PostGISTable(q Querier, table string) Loader {
	return func(ctx context.Context) (*Graph, error) {
		return LoadPostGIS(ctx, q, table)
	}
}

// LoadAll runs loaders concurrently and merges their graphs in argument
// order. Duplicate IDs across sources are an error.
func LoadAll(ctx context.Context, loaders ...Loader) (*Graph, error) {
	results := make([]*Graph, len(loaders))

	eg, gctx := errgroup.WithContext(ctx)
	for i, load := range loaders {
		eg.Go(func() error {
			g, err := load(gctx)
			if err != nil {
				return err
			}
			results[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, eris.Wrap(err, "graph: load sources")
	}

	merged := New()
	for _, g := range results {
		if err := merged.Merge(g); err != nil {
			return nil, err
		}
	}
	zap.L().Debug("graph: loaded sources",
		zap.Int("sources", len(loaders)),
		zap.Int("entities", merged.Len()),
	)
	return merged, nil
}
