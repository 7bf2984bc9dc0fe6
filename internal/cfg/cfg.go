// Package cfg provides configuration and command-line interface setup.
package cfg

import (
	"context"
	"strings"

	"mirarr/internal/domain/keys"
	"mirarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "mirarr",
	Short: "Mirarr mirrors a YouTube channel's metadata, comments and media locally.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Level = viper.GetInt(keys.DebugLevel)
	},
}

// Execute wires flags, environment and commands, then runs the CLI.
func Execute(ctx context.Context) error {
	viper.SetEnvPrefix("MIRARR")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	initRootFlags()
	initServeCmd(ctx)
	initSyncCmd(ctx)
	initDownloadCmd(ctx)

	return rootCmd.ExecuteContext(ctx)
}

// bindFlags binds a command's local flags to their viper keys. Called from
// PreRun so commands sharing a key never clobber each other's flags.
func bindFlags(cmd *cobra.Command, flagKeys ...string) {
	for _, key := range flagKeys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			logging.E("Failed to bind flag %q: %v", key, err)
		}
	}
}

// initRootFlags registers flags shared by every command.
func initRootFlags() {
	pf := rootCmd.PersistentFlags()

	pf.String(keys.APIKey, "", "YouTube Data API key")
	pf.String(keys.ChannelID, "", "ID of the channel to mirror")
	pf.String(keys.DBPath, "data/mirarr.db", "Path to the SQLite database file")
	pf.String(keys.DownloadsDir, "downloads", "Directory for downloaded media")
	pf.Int(keys.DebugLevel, 0, "Debugging verbosity level")

	for _, key := range []string{
		keys.APIKey,
		keys.ChannelID,
		keys.DBPath,
		keys.DownloadsDir,
		keys.DebugLevel,
	} {
		if err := viper.BindPFlag(key, pf.Lookup(key)); err != nil {
			logging.E("Failed to bind flag %q: %v", key, err)
		}
	}
}
