package cfg

import (
	"context"
	"errors"

	"mirarr/internal/domain/keys"
	"mirarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initDownloadCmd registers the media download command.
func initDownloadCmd(ctx context.Context) {
	downloadCmd := &cobra.Command{
		Use:   "download [video-id...]",
		Short: "Download media for specific videos, or all missing media.",
		PreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(cmd, keys.DownloadAll, keys.DownloadLimit)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(ctx, args)
		},
	}

	f := downloadCmd.Flags()
	f.Bool(keys.DownloadAll, false, "Download every video missing local media")
	f.Uint64(keys.DownloadLimit, 0, "Max videos to download, 0 for no limit")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(ctx context.Context, args []string) error {
	if len(args) == 0 && !viper.GetBool(keys.DownloadAll) {
		return errors.New("pass video IDs or use --" + keys.DownloadAll)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	videoIDs := args
	if viper.GetBool(keys.DownloadAll) {
		videos, err := a.store.VideoStore().ListVideosMissingLocalMedia(viper.GetUint64(keys.DownloadLimit))
		if err != nil {
			return err
		}
		videoIDs = videoIDs[:0]
		for _, v := range videos {
			videoIDs = append(videoIDs, v.ID)
		}
	}

	if len(videoIDs) == 0 {
		logging.I("Nothing to download")
		return nil
	}

	failures := 0
	for _, id := range videoIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, found, err := a.store.VideoStore().GetVideo(id)
		if err != nil {
			return err
		}
		if !found {
			logging.W("Video %q is not in the library, skipping", id)
			continue
		}

		localPath, err := a.manager.Download(ctx, v.ID, v.Title)
		if err != nil {
			logging.E("Download failed for video %q: %v", v.ID, err)
			failures++
			continue
		}
		if err := a.store.VideoStore().UpdateLocalPath(v.ID, localPath); err != nil {
			return err
		}
	}

	if failures > 0 {
		return errors.New("some downloads failed")
	}
	return nil
}
