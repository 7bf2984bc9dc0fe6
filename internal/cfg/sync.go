package cfg

import (
	"context"

	"mirarr/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initSyncCmd registers the one-shot sync command.
func initSyncCmd(ctx context.Context) {
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Run a single sync and exit.",
		PreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(cmd, keys.FullSync, keys.DownloadAfterSync, keys.DownloadLimit)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(ctx)
		},
	}

	f := syncCmd.Flags()
	f.Bool(keys.FullSync, false, "Walk the entire channel instead of stopping at known videos")
	f.Bool(keys.DownloadAfterSync, false, "Download missing media after the sync")
	f.Uint64(keys.DownloadLimit, 0, "Max downloads after the sync, 0 for no limit")

	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if viper.GetBool(keys.FullSync) {
		_, err = a.orch.FullSync(ctx)
	} else {
		_, err = a.orch.IncrementalSync(ctx)
	}
	return err
}
