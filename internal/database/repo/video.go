package repo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// VideoStore persists video records and their search projection.
type VideoStore struct {
	DB *sql.DB
}

// GetVideoStore returns a video store instance with injected database.
func GetVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{DB: db}
}

// GetDB returns the database.
func (vs *VideoStore) GetDB() *sql.DB {
	return vs.DB
}

// videoColumns are the columns scanned into a Video model, in table order.
var videoColumns = []string{
	consts.QVidID,
	consts.QVidTitle,
	consts.QVidDescription,
	consts.QVidPublishedAt,
	consts.QVidThumbnail,
	consts.QVidDuration,
	consts.QVidViewCount,
	consts.QVidLikeCount,
	consts.QVidCommentCount,
	consts.QVidTags,
	consts.QVidLocalPath,
	consts.QVidDownloadedAt,
	consts.QVidLastUpdated,
}

// UpsertVideo inserts or updates a video keyed by its remote ID.
//
// isNew reflects existence before the write: an existing ID is never reported
// as new even when its fields changed. The update clause deliberately leaves
// local_path and downloaded_at untouched so a metadata refresh can never
// erase a recorded download.
func (vs *VideoStore) UpsertVideo(v *models.Video) (isNew bool, err error) {
	if v == nil || v.ID == "" {
		return false, errors.New("video requires an ID")
	}

	exists, err := vs.videoExists(v.ID)
	if err != nil {
		return false, err
	}

	tagsJSON, err := json.Marshal(v.Tags)
	if err != nil {
		return false, fmt.Errorf("failed to marshal tags for video %q: %w", v.ID, err)
	}

	const upsertSuffix = `ON CONFLICT(id) DO UPDATE SET
        title = excluded.title,
        description = excluded.description,
        thumbnail_url = excluded.thumbnail_url,
        duration = excluded.duration,
        view_count = excluded.view_count,
        like_count = excluded.like_count,
        comment_count = excluded.comment_count,
        tags = excluded.tags,
        last_updated = excluded.last_updated`

	var localPath any
	if v.LocalPath != "" {
		localPath = v.LocalPath
	}

	query := squirrel.
		Insert(consts.DBVideos).
		Columns(videoColumns...).
		Values(
			v.ID,
			v.Title,
			v.Description,
			v.PublishedAt.UTC(),
			v.ThumbnailURL,
			v.Duration,
			v.ViewCount,
			v.LikeCount,
			v.CommentCount,
			string(tagsJSON),
			localPath,
			v.DownloadedAt,
			v.LastUpdated.UTC(),
		).
		Suffix(upsertSuffix).
		RunWith(vs.DB)

	if _, err := query.Exec(); err != nil {
		return false, fmt.Errorf("failed to upsert video %q: %w", v.ID, err)
	}

	return !exists, nil
}

// UpdateLocalPath records the downloaded media path and stamps downloaded_at.
// Returns ErrVideoNotFound when the video does not exist.
func (vs *VideoStore) UpdateLocalPath(videoID, localPath string) error {
	query := squirrel.
		Update(consts.DBVideos).
		Set(consts.QVidLocalPath, localPath).
		Set(consts.QVidDownloadedAt, time.Now().UTC()).
		Where(squirrel.Eq{consts.QVidID: videoID}).
		RunWith(vs.DB)

	result, err := query.Exec()
	if err != nil {
		return fmt.Errorf("failed to update local path for video %q: %w", videoID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video %q: %w", videoID, ErrVideoNotFound)
	}

	logging.D(1, "Recorded local path %q for video %q", localPath, videoID)
	return nil
}

// GetVideo retrieves a single video by ID.
func (vs *VideoStore) GetVideo(videoID string) (*models.Video, bool, error) {
	query := squirrel.
		Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: videoID}).
		RunWith(vs.DB)

	v, err := scanVideo(query.QueryRow())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// ListVideos retrieves videos ordered by publish time, newest first.
// A limit of 0 returns all videos.
func (vs *VideoStore) ListVideos(limit, offset uint64) ([]*models.Video, error) {
	query := squirrel.
		Select(videoColumns...).
		From(consts.DBVideos).
		OrderBy(consts.QVidPublishedAt + " DESC")

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	return vs.queryVideos(query)
}

// ListVideosMissingLocalMedia retrieves videos with no downloaded media,
// newest first. A limit of 0 returns all matches.
func (vs *VideoStore) ListVideosMissingLocalMedia(limit uint64) ([]*models.Video, error) {
	query := squirrel.
		Select(videoColumns...).
		From(consts.DBVideos).
		Where(squirrel.Or{
			squirrel.Eq{consts.QVidLocalPath: nil},
			squirrel.Eq{consts.QVidLocalPath: ""},
		}).
		OrderBy(consts.QVidPublishedAt + " DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	return vs.queryVideos(query)
}

// CountVideos returns the total number of stored videos.
func (vs *VideoStore) CountVideos() (int64, error) {
	var count int64
	query := squirrel.
		Select("COUNT(*)").
		From(consts.DBVideos).
		RunWith(vs.DB)

	if err := query.QueryRow().Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// SearchVideos runs a ranked full-text match over title, description and tags.
func (vs *VideoStore) SearchVideos(match string, limit uint64) ([]*models.Video, error) {
	cols := make([]string, len(videoColumns))
	for i, c := range videoColumns {
		cols[i] = "v." + c
	}

	query := squirrel.
		Select(cols...).
		From(consts.DBVideos + " v").
		Join(consts.DBVideosFTS + " f ON v.rowid = f.rowid").
		Where(consts.DBVideosFTS+" MATCH ?", match).
		OrderBy("rank", "v."+consts.QVidID).
		Limit(limit)

	return vs.queryVideos(query)
}

// DeleteVideo removes a video; its comments cascade away with it.
func (vs *VideoStore) DeleteVideo(videoID string) error {
	query := squirrel.
		Delete(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: videoID}).
		RunWith(vs.DB)

	result, err := query.Exec()
	if err != nil {
		return fmt.Errorf("failed to delete video %q: %w", videoID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video %q: %w", videoID, ErrVideoNotFound)
	}

	logging.S("Deleted video %q", videoID)
	return nil
}

// queryVideos executes a select and collects the scanned video models.
func (vs *VideoStore) queryVideos(query squirrel.SelectBuilder) ([]*models.Video, error) {
	rows, err := query.RunWith(vs.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close video rows: %v", err)
		}
	}()

	var videos []*models.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}
	return videos, nil
}

// videoExists returns true if the video ID already has a row.
func (vs *VideoStore) videoExists(videoID string) (bool, error) {
	var one int
	query := squirrel.
		Select("1").
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidID: videoID}).
		RunWith(vs.DB)

	if err := query.QueryRow().Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return true, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanVideo maps one row onto a Video model, field by field.
// Absent tags decode to an empty slice, never nil.
func scanVideo(row rowScanner) (*models.Video, error) {
	var v models.Video
	var description, thumb, dur, tags, localPath sql.NullString
	var downloadedAt sql.NullTime

	if err := row.Scan(
		&v.ID,
		&v.Title,
		&description,
		&v.PublishedAt,
		&thumb,
		&dur,
		&v.ViewCount,
		&v.LikeCount,
		&v.CommentCount,
		&tags,
		&localPath,
		&downloadedAt,
		&v.LastUpdated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	v.Description = nullString(description)
	v.ThumbnailURL = nullString(thumb)
	v.Duration = nullString(dur)
	v.LocalPath = nullString(localPath)

	if downloadedAt.Valid {
		t := downloadedAt.Time
		v.DownloadedAt = &t
	}

	v.Tags = []string{}
	if tags.Valid && tags.String != "" {
		if err := json.Unmarshal([]byte(tags.String), &v.Tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags for video %q: %w", v.ID, err)
		}
		if v.Tags == nil {
			v.Tags = []string{}
		}
	}

	return &v, nil
}
