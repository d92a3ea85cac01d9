package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/config"
	"github.com/sells-group/taxiflow/internal/dataset"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "taxiflow",
	Short: "NYC taxi mobility dashboard",
	Long:  "Serves the hourly hotspot map, OD flow explorer, and cluster time-series panels over the precomputed taxi trip artifacts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// dataPaths resolves the artifact paths: conventional names under the data
// dir, with any explicit per-artifact override applied on top.
func dataPaths(cfg *config.Config) dataset.Paths {
	paths := dataset.DefaultPaths(cfg.Data.Dir)
	if cfg.Data.Zones != "" {
		paths.Zones = cfg.Data.Zones
	}
	if cfg.Data.Lookup != "" {
		paths.Lookup = cfg.Data.Lookup
	}
	if cfg.Data.Flows != "" {
		paths.Flows = cfg.Data.Flows
	}
	if cfg.Data.ZoneHours != "" {
		paths.ZoneHours = cfg.Data.ZoneHours
	}
	if cfg.Data.TimeSeries != "" {
		paths.TimeSeries = cfg.Data.TimeSeries
	}
	if cfg.Data.FlowSemantics != "" {
		paths.FlowSemantics = cfg.Data.FlowSemantics
	}
	if cfg.Data.ZoneSemantics != "" {
		paths.ZoneSemantics = cfg.Data.ZoneSemantics
	}
	return paths
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
