// Package contracts defines interfaces decoupling the application layer from
// storage and remote source implementations.
package contracts

import (
	"context"
	"database/sql"

	"mirarr/internal/models"
)

// Store allows access to the main store repo methods.
type Store interface {
	ChannelStore() ChannelStore
	VideoStore() VideoStore
	CommentStore() CommentStore
	SyncStore() SyncStore
}

// ChannelStore allows access to channel snapshot repo methods.
type ChannelStore interface {
	GetDB() *sql.DB

	UpsertChannel(c *models.ChannelInfo) error
	GetChannel() (*models.ChannelInfo, bool, error)
}

// VideoStore allows access to video repo methods.
type VideoStore interface {
	GetDB() *sql.DB

	UpsertVideo(v *models.Video) (isNew bool, err error)
	UpdateLocalPath(videoID, localPath string) error

	GetVideo(videoID string) (*models.Video, bool, error)
	ListVideos(limit, offset uint64) ([]*models.Video, error)
	ListVideosMissingLocalMedia(limit uint64) ([]*models.Video, error)
	CountVideos() (int64, error)
	SearchVideos(query string, limit uint64) ([]*models.Video, error)

	DeleteVideo(videoID string) error
}

// CommentStore allows access to comment repo methods.
type CommentStore interface {
	GetDB() *sql.DB

	UpsertComment(c *models.Comment) (isNew bool, err error)
	ListCommentsForVideo(videoID string, limit uint64) ([]*models.Comment, error)
	SearchComments(query string, limit uint64) ([]*models.Comment, error)
}

// SyncStore allows access to sync run repo methods.
type SyncStore interface {
	GetDB() *sql.DB

	CreateSyncRun() (int64, error)
	UpdateSyncRun(id int64, u *models.SyncRunUpdate) error
	GetLatestSyncRun() (*models.SyncRun, bool, error)
}

// MetadataSource is the remote source of channel, video and comment metadata.
//
// ChannelVideos and VideoComments stream batches in page order through fn;
// returning an error from fn aborts the listing. Listings are restartable
// only from the start.
type MetadataSource interface {
	Channel(ctx context.Context, channelID string) (*models.ChannelInfo, error)
	ChannelVideos(ctx context.Context, channelID string, fn func(batch []*models.Video) error) error
	VideoComments(ctx context.Context, videoID string, fn func(batch []*models.Comment) error) error
	VideosByIDs(ctx context.Context, videoIDs []string) ([]*models.Video, error)
}

// Downloader fetches playable media for a video and reports the stored
// relative path.
type Downloader interface {
	Download(ctx context.Context, videoID, title string) (localPath string, err error)
}
