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

// CommentStore persists comment records and their search projection.
type CommentStore struct {
	DB *sql.DB
}

// GetCommentStore returns a comment store instance with injected database.
func GetCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{DB: db}
}

// GetDB returns the database.
func (cs *CommentStore) GetDB() *sql.DB {
	return cs.DB
}

// commentColumns are the columns scanned into a Comment model, in table order.
var commentColumns = []string{
	consts.QComID,
	consts.QComVideoID,
	consts.QComAuthorName,
	consts.QComAuthorImage,
	consts.QComAuthorChan,
	consts.QComTextDisplay,
	consts.QComTextOrig,
	consts.QComLikeCount,
	consts.QComPublishedAt,
	consts.QComUpdatedAt,
	consts.QComParentID,
	consts.QComReplyCount,
}

// UpsertComment inserts or updates a comment keyed by its remote ID.
//
// isNew reflects existence before the write. The update clause refreshes only
// text, likes, reply count and the updated timestamp; author identity fields
// are immutable once the comment exists.
func (cs *CommentStore) UpsertComment(c *models.Comment) (isNew bool, err error) {
	if c == nil || c.ID == "" {
		return false, errors.New("comment requires an ID")
	}
	if c.VideoID == "" {
		return false, fmt.Errorf("comment %q requires a video ID", c.ID)
	}

	exists, err := cs.commentExists(c.ID)
	if err != nil {
		return false, err
	}

	const upsertSuffix = `ON CONFLICT(id) DO UPDATE SET
        text_display = excluded.text_display,
        text_original = excluded.text_original,
        like_count = excluded.like_count,
        updated_at = excluded.updated_at,
        total_reply_count = excluded.total_reply_count`

	var parentID any
	if c.ParentID != "" {
		parentID = c.ParentID
	}

	query := squirrel.
		Insert(consts.DBComments).
		Columns(commentColumns...).
		Values(
			c.ID,
			c.VideoID,
			c.AuthorDisplayName,
			c.AuthorProfileImageURL,
			c.AuthorChannelID,
			c.TextDisplay,
			c.TextOriginal,
			c.LikeCount,
			c.PublishedAt.UTC(),
			c.UpdatedAt.UTC(),
			parentID,
			c.TotalReplyCount,
		).
		Suffix(upsertSuffix).
		RunWith(cs.DB)

	if _, err := query.Exec(); err != nil {
		return false, fmt.Errorf("failed to upsert comment %q: %w", c.ID, err)
	}

	return !exists, nil
}

// ListCommentsForVideo retrieves a video's comments ordered by publish time,
// newest first. A limit of 0 returns all comments.
func (cs *CommentStore) ListCommentsForVideo(videoID string, limit uint64) ([]*models.Comment, error) {
	query := squirrel.
		Select(commentColumns...).
		From(consts.DBComments).
		Where(squirrel.Eq{consts.QComVideoID: videoID}).
		OrderBy(consts.QComPublishedAt + " DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	return cs.queryComments(query)
}

// SearchComments runs a ranked full-text match over author and comment text.
func (cs *CommentStore) SearchComments(match string, limit uint64) ([]*models.Comment, error) {
	cols := make([]string, len(commentColumns))
	for i, col := range commentColumns {
		cols[i] = "c." + col
	}

	query := squirrel.
		Select(cols...).
		From(consts.DBComments + " c").
		Join(consts.DBCommentsFTS + " f ON c.rowid = f.rowid").
		Where(consts.DBCommentsFTS+" MATCH ?", match).
		OrderBy("rank", "c."+consts.QComID).
		Limit(limit)

	return cs.queryComments(query)
}

// queryComments executes a select and collects the scanned comment models.
func (cs *CommentStore) queryComments(query squirrel.SelectBuilder) ([]*models.Comment, error) {
	rows, err := query.RunWith(cs.DB).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logging.E("Failed to close comment rows: %v", err)
		}
	}()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// commentExists returns true if the comment ID already has a row.
func (cs *CommentStore) commentExists(commentID string) (bool, error) {
	var one int
	query := squirrel.
		Select("1").
		From(consts.DBComments).
		Where(squirrel.Eq{consts.QComID: commentID}).
		RunWith(cs.DB)

	if err := query.QueryRow().Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check comment existence: %w", err)
	}
	return true, nil
}

// scanComment maps one row onto a Comment model, field by field.
func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	var authorImage, authorChan, parentID sql.NullString

	if err := row.Scan(
		&c.ID,
		&c.VideoID,
		&c.AuthorDisplayName,
		&authorImage,
		&authorChan,
		&c.TextDisplay,
		&c.TextOriginal,
		&c.LikeCount,
		&c.PublishedAt,
		&c.UpdatedAt,
		&parentID,
		&c.TotalReplyCount,
	); err != nil {
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	c.AuthorProfileImageURL = nullString(authorImage)
	c.AuthorChannelID = nullString(authorChan)
	c.ParentID = nullString(parentID)

	return &c, nil
}
