package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/taxiflow/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"serve", "validate", "snapshot"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "taxiflow", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestSnapshotCommand_Flags(t *testing.T) {
	for _, name := range []string{"hour", "zone", "corridor"} {
		require.NotNil(t, snapshotCmd.Flags().Lookup(name), "snapshot command should have --%s flag", name)
	}
}

func TestDataPaths_Defaults(t *testing.T) {
	c := &config.Config{}
	c.Data.Dir = "/srv/taxiflow"

	paths := dataPaths(c)
	assert.Equal(t, filepath.Join("/srv/taxiflow", "taxi_zones.geojson"), paths.Zones)
	assert.Equal(t, filepath.Join("/srv/taxiflow", "flows.csv"), paths.Flows)
}

func TestDataPaths_Overrides(t *testing.T) {
	c := &config.Config{}
	c.Data.Dir = "/srv/taxiflow"
	c.Data.Zones = "/elsewhere/taxi_zones.shp"
	c.Data.FlowSemantics = "/elsewhere/semantics.json"

	paths := dataPaths(c)
	assert.Equal(t, "/elsewhere/taxi_zones.shp", paths.Zones)
	assert.Equal(t, "/elsewhere/semantics.json", paths.FlowSemantics)
	// Unoverridden artifacts stay under the data dir.
	assert.Equal(t, filepath.Join("/srv/taxiflow", "flows.csv"), paths.Flows)
	assert.Equal(t, filepath.Join("/srv/taxiflow", "taxi_zone_lookup.csv"), paths.Lookup)
}
