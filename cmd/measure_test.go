package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/measure-cli/internal/config"
	"github.com/sells-group/measure-cli/internal/panel"
	"github.com/sells-group/measure-cli/internal/units"
)

const testFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "n1", "geometry": {"type": "Point", "coordinates": [-97.75, 30.27]}, "properties": {}},
    {"type": "Feature", "id": "w1", "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 0], [1, 1]]}, "properties": {}}
  ]
}`

func writeFeatures(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.geojson")
	require.NoError(t, os.WriteFile(path, []byte(testFeatures), 0o644))
	return path
}

func sourceCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addSourceFlags(cmd)
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestLoadGraph_GeoJSON(t *testing.T) {
	withConfig(t, &config.Config{})
	cmd := sourceCommand(t, map[string]string{"geojson": writeFeatures(t)})

	g, err := loadGraph(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "w1"}, g.IDs())
}

func TestLoadGraph_Errors(t *testing.T) {
	withConfig(t, &config.Config{})

	_, err := loadGraph(context.Background(), sourceCommand(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feature source")

	_, err = loadGraph(context.Background(), sourceCommand(t, map[string]string{"gpkg": "city.gpkg"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path:table")

	_, err = loadGraph(context.Background(), sourceCommand(t, map[string]string{"postgis": "true"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database_url")
}

func TestApplyDisplayFlags(t *testing.T) {
	withConfig(t, &config.Config{
		Locale: config.LocaleConfig{Tag: "en-US"},
		Units:  config.UnitsConfig{System: "auto"},
	})

	applyDisplayFlags(sourceCommand(t, nil))
	assert.Equal(t, "en-US", cfg.Locale.Tag)
	assert.Equal(t, "auto", cfg.Units.System)

	applyDisplayFlags(sourceCommand(t, map[string]string{"units": "metric", "locale": "de-DE"}))
	assert.Equal(t, "de-DE", cfg.Locale.Tag)
	assert.Equal(t, "metric", cfg.Units.System)
}

func TestNewPanel_FromConfig(t *testing.T) {
	withConfig(t, &config.Config{
		Locale: config.LocaleConfig{Tag: "de-DE"},
		Units:  config.UnitsConfig{System: "auto"},
	})
	g, err := loadGraph(context.Background(), sourceCommand(t, map[string]string{"geojson": writeFeatures(t)}))
	require.NoError(t, err)

	p, err := newPanel(g)
	require.NoError(t, err)
	assert.Equal(t, units.Metric, p.System())
	assert.Equal(t, "Messung", p.Title())

	res := p.Evaluate([]string{"w1"})
	assert.Equal(t, "Länge: 222.4 km", res.Measurement.Length)
}

func TestNewPanel_BadStringsFile(t *testing.T) {
	withConfig(t, &config.Config{
		Locale: config.LocaleConfig{Tag: "en-US", StringsFile: filepath.Join(t.TempDir(), "missing.yaml")},
	})
	_, err := newPanel(nil)
	assert.Error(t, err)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b,"))
	assert.Empty(t, splitAndTrim(""))
}

func TestMeasureCommand_Execute(t *testing.T) {
	path := writeFeatures(t)

	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	t.Setenv("MEASURE_LOG_LEVEL", "error")
	t.Cleanup(func() { cfg = nil })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() { rootCmd.SetOut(nil) })
	rootCmd.SetArgs([]string{
		"measure",
		"--geojson", path,
		"--select", "w1",
		"--locale", "en-US",
		"--units", "imperial",
		"--toggle",
		"--json",
	})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var res panel.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "w1", res.Heading)
	assert.Equal(t, "metric", res.System, "--toggle flips imperial to metric")
	require.NotNil(t, res.Measurement)
	assert.Equal(t, "Length: 222.4 km", res.Measurement.Length)
	assert.Equal(t, "Metric", res.Toggle)
}
