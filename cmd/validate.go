package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxiflow/internal/dataset"
	"github.com/sells-group/taxiflow/internal/server"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load the artifacts and report coverage",
	Long:  "Loads every artifact the dashboard would load at boot and prints row counts, join coverage, and which optional datasets degraded.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("validate"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bundle, err := dataset.Load(ctx, dataPaths(cfg))
		if err != nil {
			return eris.Wrap(err, "validate: load artifacts")
		}
		app := server.NewApp(bundle, clockwork.NewRealClock())

		fmt.Printf("Zones:            %d\n", app.Registry.Len())
		fmt.Printf("Flow rows:        %d\n", len(app.Table.Records()))
		fmt.Printf("Zone-hour rows:   %d\n", app.Index.Len())
		fmt.Printf("Series clusters:  %d\n", app.Series.Len())
		fmt.Printf("Corridor areas:   %d\n", len(app.Series.BuildAreas(app.AreaLabels)))

		// Flow endpoints that never resolve to a registered zone point at a
		// geometry/flow artifact mismatch.
		unknown := make(map[int]struct{})
		for _, rec := range app.Table.Records() {
			if _, ok := app.Registry.Zone(rec.Origin); !ok {
				unknown[int(rec.Origin)] = struct{}{}
			}
			if _, ok := app.Registry.Zone(rec.Destination); !ok {
				unknown[int(rec.Destination)] = struct{}{}
			}
		}
		fmt.Printf("Unknown zone ids: %d\n", len(unknown))

		if degraded := bundle.Degraded(); len(degraded) > 0 {
			fmt.Printf("Degraded:         %v\n", degraded)
		} else {
			fmt.Println("Degraded:         none")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
