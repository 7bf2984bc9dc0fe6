// Package keys holds the configuration keys bound through Viper.
package keys

const (
	APIKey            = "youtube-api-key"
	ChannelID         = "youtube-channel-id"
	DBPath            = "db-path"
	DownloadsDir      = "downloads-dir"
	Port              = "port"
	DownloadAfterSync = "download-after-sync"
	SyncSchedule      = "sync-schedule"
	DebugLevel        = "debug"
	FullSync          = "full"
	DownloadAll       = "all"
	DownloadLimit     = "limit"
)
