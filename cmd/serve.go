package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/taxiflow/internal/dataset"
	"github.com/sells-group/taxiflow/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bundle, err := dataset.Load(ctx, dataPaths(cfg))
		if err != nil {
			return eris.Wrap(err, "serve: load artifacts")
		}

		app := server.NewApp(bundle, clockwork.NewRealClock())
		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}
		srv := server.New(serverCfg, app, server.NewMetrics())

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("shutdown", zap.Error(err))
			}
		}()

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
