package cfg

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mirarr/internal/domain/keys"
	"mirarr/internal/server"
	"mirarr/internal/utils/logging"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initServeCmd registers the long-running server command.
func initServeCmd(ctx context.Context) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server with scheduled background syncs.",
		// Bound at run time: serve and sync share keys but carry their own flags.
		PreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(cmd, keys.Port, keys.SyncSchedule, keys.DownloadAfterSync, keys.DownloadLimit)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(ctx)
		},
	}

	f := serveCmd.Flags()
	f.Int(keys.Port, 3000, "HTTP listen port")
	f.String(keys.SyncSchedule, "0 2 * * *", "Cron expression for scheduled syncs")
	f.Bool(keys.DownloadAfterSync, false, "Download missing media after each sync")
	f.Uint64(keys.DownloadLimit, 0, "Max downloads per sync pass, 0 for no limit")

	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.New(a.store, a.orch, a.manager)

	schedule := viper.GetString(keys.SyncSchedule)
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if !srv.StartSync(false) {
			logging.W("Scheduled sync skipped: a sync is already running")
		}
	}); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	c.Start()
	defer c.Stop()

	addr := ":" + strconv.Itoa(viper.GetInt(keys.Port))
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.S("Mirarr server running on http://localhost%s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.I("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
