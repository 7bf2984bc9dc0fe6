package repo

import (
	"database/sql"
	"errors"
	"fmt"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// ChannelStore persists the single channel snapshot row.
type ChannelStore struct {
	DB *sql.DB
}

// GetChannelStore returns a channel store instance with injected database.
func GetChannelStore(db *sql.DB) *ChannelStore {
	return &ChannelStore{DB: db}
}

// GetDB returns the database.
func (cs *ChannelStore) GetDB() *sql.DB {
	return cs.DB
}

// UpsertChannel inserts or replaces the channel snapshot by ID, overwriting
// every mutable field.
func (cs *ChannelStore) UpsertChannel(c *models.ChannelInfo) error {
	if c == nil || c.ID == "" {
		return errors.New("channel snapshot requires an ID")
	}

	const upsertSuffix = `ON CONFLICT(id) DO UPDATE SET
        title = excluded.title,
        description = excluded.description,
        custom_url = excluded.custom_url,
        thumbnail_url = excluded.thumbnail_url,
        subscriber_count = excluded.subscriber_count,
        video_count = excluded.video_count,
        view_count = excluded.view_count,
        last_synced = excluded.last_synced`

	query := squirrel.
		Insert(consts.DBChannelInfo).
		Columns(
			consts.QChanID,
			consts.QChanTitle,
			consts.QChanDescription,
			consts.QChanCustomURL,
			consts.QChanPublishedAt,
			consts.QChanThumbnail,
			consts.QChanSubCount,
			consts.QChanVideoCount,
			consts.QChanViewCount,
			consts.QChanLastSynced,
		).
		Values(
			c.ID,
			c.Title,
			c.Description,
			c.CustomURL,
			c.PublishedAt.UTC(),
			c.ThumbnailURL,
			c.SubscriberCount,
			c.VideoCount,
			c.ViewCount,
			c.LastSynced.UTC(),
		).
		Suffix(upsertSuffix).
		RunWith(cs.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to upsert channel %q: %w", c.ID, err)
	}

	logging.D(1, "Upserted channel snapshot %q (%s)", c.ID, c.Title)
	return nil
}

// GetChannel retrieves the channel snapshot, if one has been synced.
func (cs *ChannelStore) GetChannel() (*models.ChannelInfo, bool, error) {
	var (
		c                              models.ChannelInfo
		description, custom, thumbnail sql.NullString
	)

	query := squirrel.
		Select(
			consts.QChanID,
			consts.QChanTitle,
			consts.QChanDescription,
			consts.QChanCustomURL,
			consts.QChanPublishedAt,
			consts.QChanThumbnail,
			consts.QChanSubCount,
			consts.QChanVideoCount,
			consts.QChanViewCount,
			consts.QChanLastSynced,
		).
		From(consts.DBChannelInfo).
		Limit(1).
		RunWith(cs.DB)

	if err := query.QueryRow().Scan(
		&c.ID,
		&c.Title,
		&description,
		&custom,
		&c.PublishedAt,
		&thumbnail,
		&c.SubscriberCount,
		&c.VideoCount,
		&c.ViewCount,
		&c.LastSynced,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to scan channel snapshot: %w", err)
	}

	c.Description = nullString(description)
	c.CustomURL = nullString(custom)
	c.ThumbnailURL = nullString(thumbnail)

	return &c, true, nil
}
