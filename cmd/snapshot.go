package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/taxiflow/internal/dataset"
	"github.com/sells-group/taxiflow/internal/model"
	"github.com/sells-group/taxiflow/internal/scene"
	"github.com/sells-group/taxiflow/internal/server"
)

var (
	snapshotHour     int
	snapshotZone     int
	snapshotCorridor string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a computed scene as JSON",
	Long:  "Loads the artifacts, computes the hotspot and flow scenes for the given hour and zone, and prints them to stdout. Useful for eyeballing paint assignments without a browser.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("snapshot"); err != nil {
			return err
		}
		if snapshotHour < 0 || snapshotHour > 23 {
			return eris.New("snapshot: hour must be between 0 and 23")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bundle, err := dataset.Load(ctx, dataPaths(cfg))
		if err != nil {
			return eris.Wrap(err, "snapshot: load artifacts")
		}
		app := server.NewApp(bundle, clockwork.NewRealClock())

		state := model.NewViewState()
		state.Hour = snapshotHour
		if snapshotZone != 0 {
			zid := model.ZoneID(snapshotZone)
			state.PrimaryZone = &zid
		}
		if snapshotCorridor != "" {
			state.CorridorMode = true
			state.ActiveCorridor = model.CorridorKey(snapshotCorridor)
		}

		out := map[string]any{
			"state":   state,
			"mode":    scene.Mode(state),
			"hotspot": scene.Hotspot(app.Registry, app.Index, state),
		}
		switch {
		case state.CorridorMode && !state.HasPrimary():
			out["flows"] = scene.Overview(app.Table, app.Registry, app.Corridors, state.ActiveCorridor)
		case state.HasPrimary():
			out["flows"] = scene.ForPrimary(app.Table, app.Registry, app.Corridors, state)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotHour, "hour", 0, "hour of day (0-23)")
	snapshotCmd.Flags().IntVar(&snapshotZone, "zone", 0, "primary zone id")
	snapshotCmd.Flags().StringVar(&snapshotCorridor, "corridor", "", "corridor key for overview mode")
	rootCmd.AddCommand(snapshotCmd)
}
