package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"measure", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "measure-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestMeasureCommand_Flags(t *testing.T) {
	for _, name := range []string{"geojson", "shapefile", "gpkg", "postgis", "postgis-table", "units", "locale", "select", "toggle", "json"} {
		flag := measureCmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "measure should have --%s flag", name)
	}

	flag := measureCmd.Flags().Lookup("toggle")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)

	for _, name := range []string{"geojson", "shapefile", "gpkg", "postgis", "units", "locale"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), "serve should have --%s flag", name)
	}
}
