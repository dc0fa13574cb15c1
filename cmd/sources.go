package main

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/measure-cli/internal/graph"
	"github.com/sells-group/measure-cli/internal/locale"
	"github.com/sells-group/measure-cli/internal/panel"
	"github.com/sells-group/measure-cli/internal/resilience"
)

// addSourceFlags registers the feature source and display flags shared by
// measure and serve.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("geojson", nil, "GeoJSON FeatureCollection file (repeatable)")
	cmd.Flags().StringSlice("shapefile", nil, "shapefile path (repeatable)")
	cmd.Flags().StringSlice("gpkg", nil, "GeoPackage table as path:table (repeatable)")
	cmd.Flags().Bool("postgis", false, "load features from store.database_url")
	cmd.Flags().String("postgis-table", "", "PostGIS table (default from config store.table)")
	cmd.Flags().String("units", "", "initial unit system: auto, metric or imperial (default from config)")
	cmd.Flags().String("locale", "", "language tag for labels (default from config)")
}

// applyDisplayFlags copies --units and --locale over the loaded config.
func applyDisplayFlags(cmd *cobra.Command) {
	if v, _ := cmd.Flags().GetString("units"); v != "" {
		cfg.Units.System = v
	}
	if v, _ := cmd.Flags().GetString("locale"); v != "" {
		cfg.Locale.Tag = v
	}
}

// loadGraph builds the entity graph from every source named on the command
// line. Sources load concurrently.
func loadGraph(ctx context.Context, cmd *cobra.Command) (*graph.Graph, error) {
	var loaders []graph.Loader

	geojsonFiles, _ := cmd.Flags().GetStringSlice("geojson")
	for _, path := range geojsonFiles {
		loaders = append(loaders, graph.GeoJSONFile(path))
	}

	shapefiles, _ := cmd.Flags().GetStringSlice("shapefile")
	for _, path := range shapefiles {
		loaders = append(loaders, graph.ShapefileFile(path))
	}

	packages, _ := cmd.Flags().GetStringSlice("gpkg")
	for _, spec := range packages {
		path, table, ok := strings.Cut(spec, ":")
		if !ok || path == "" || table == "" {
			return nil, eris.Errorf("measure: --gpkg wants path:table, got %q", spec)
		}
		loaders = append(loaders, graph.GeoPackageTable(path, table))
	}

	usePostGIS, _ := cmd.Flags().GetBool("postgis")
	if usePostGIS {
		pool, err := storePool(ctx)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		table, _ := cmd.Flags().GetString("postgis-table")
		if table == "" {
			table = cfg.Store.Table
		}
		loaders = append(loaders, graph.PostGISTable(pool, table))
	}

	if len(loaders) == 0 {
		return nil, eris.New("measure: no feature source given (use --geojson, --shapefile, --gpkg or --postgis)")
	}

	g, err := graph.LoadAll(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	zap.L().Info("features loaded",
		zap.Int("sources", len(loaders)),
		zap.Int("entities", g.Len()),
	)
	return g, nil
}

// storePool connects to store.database_url, retrying transient failures.
func storePool(ctx context.Context) (*pgxpool.Pool, error) {
	if cfg.Store.DatabaseURL == "" {
		return nil, eris.New("measure: no database_url configured (set store.database_url)")
	}

	backoff := resilience.DefaultBackoff()
	backoff.Attempts = cfg.Store.ConnectAttempts
	backoff.OnRetry = resilience.LogRetry("postgis connect")

	return resilience.Retry(ctx, backoff, func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "measure: create connection pool")
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, eris.Wrap(err, "measure: ping database")
		}
		return pool, nil
	})
}

// newPanel builds a panel over g using the configured locale and units.
func newPanel(g *graph.Graph) (*panel.Panel, error) {
	tag, err := locale.ParseTag(cfg.Locale.Tag)
	if err != nil {
		return nil, err
	}

	cat, err := locale.LoadCatalog(tag, cfg.Locale.StringsFile)
	if err != nil {
		return nil, err
	}

	system, err := cfg.UnitSystem()
	if err != nil {
		return nil, err
	}

	zap.L().Debug("panel configured",
		zap.String("locale", tag.String()),
		zap.String("units", system.String()),
	)
	return panel.New(g, cat, system), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
