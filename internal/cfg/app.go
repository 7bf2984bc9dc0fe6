package cfg

import (
	"context"
	"database/sql"
	"errors"

	"mirarr/internal/contracts"
	"mirarr/internal/database"
	"mirarr/internal/database/repo"
	"mirarr/internal/domain/keys"
	"mirarr/internal/downloads"
	"mirarr/internal/syncer"
	"mirarr/internal/utils/logging"
	"mirarr/internal/youtube"

	"github.com/spf13/viper"
)

// app bundles the constructed dependencies behind the commands.
type app struct {
	db      *sql.DB
	store   contracts.Store
	source  contracts.MetadataSource
	manager *downloads.Manager
	orch    *syncer.Orchestrator
}

// newApp opens the database and constructs the application graph from the
// bound configuration.
func newApp(ctx context.Context) (*app, error) {
	channelID := viper.GetString(keys.ChannelID)
	if channelID == "" {
		return nil, errors.New("a channel ID is required (--" + keys.ChannelID + " or MIRARR_YOUTUBE_CHANNEL_ID)")
	}

	db, err := database.Open(viper.GetString(keys.DBPath))
	if err != nil {
		return nil, err
	}

	store := repo.GetStore(db)

	source, err := youtube.NewClient(ctx, viper.GetString(keys.APIKey))
	if err != nil {
		db.Close()
		return nil, err
	}

	manager, err := downloads.NewManager(viper.GetString(keys.DownloadsDir))
	if err != nil {
		db.Close()
		return nil, err
	}

	orch := syncer.NewOrchestrator(
		store,
		source,
		manager,
		channelID,
		viper.GetBool(keys.DownloadAfterSync),
		viper.GetUint64(keys.DownloadLimit),
	)

	return &app{
		db:      db,
		store:   store,
		source:  source,
		manager: manager,
		orch:    orch,
	}, nil
}

// close releases held resources.
func (a *app) close() {
	if err := a.db.Close(); err != nil {
		logging.E("Failed to close database: %v", err)
	}
}
