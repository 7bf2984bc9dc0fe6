package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// SyncStore persists sync run bookkeeping rows.
type SyncStore struct {
	DB *sql.DB
}

// GetSyncStore returns a sync store instance with injected database.
func GetSyncStore(db *sql.DB) *SyncStore {
	return &SyncStore{DB: db}
}

// GetDB returns the database.
func (ss *SyncStore) GetDB() *sql.DB {
	return ss.DB
}

// CreateSyncRun opens a new sync run with status running and returns its ID.
func (ss *SyncStore) CreateSyncRun() (int64, error) {
	query := squirrel.
		Insert(consts.DBSyncRuns).
		Columns(consts.QSyncStartedAt, consts.QSyncStatus).
		Values(time.Now().UTC(), consts.SyncRunning).
		RunWith(ss.DB)

	result, err := query.Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to create sync run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get sync run ID: %w", err)
	}

	logging.D(1, "Created sync run %d", id)
	return id, nil
}

// UpdateSyncRun applies the non-nil fields of u to a sync run.
// A fully nil update is a no-op.
func (ss *SyncStore) UpdateSyncRun(id int64, u *models.SyncRunUpdate) error {
	if u == nil {
		return nil
	}

	query := squirrel.Update(consts.DBSyncRuns)
	set := false

	if u.CompletedAt != nil {
		query = query.Set(consts.QSyncCompletedAt, u.CompletedAt.UTC())
		set = true
	}
	if u.Status != nil {
		query = query.Set(consts.QSyncStatus, *u.Status)
		set = true
	}
	if u.VideosAdded != nil {
		query = query.Set(consts.QSyncVideosAdded, *u.VideosAdded)
		set = true
	}
	if u.VideosUpdated != nil {
		query = query.Set(consts.QSyncVideosUpdated, *u.VideosUpdated)
		set = true
	}
	if u.CommentsAdded != nil {
		query = query.Set(consts.QSyncCommentsAdded, *u.CommentsAdded)
		set = true
	}
	if u.Error != nil {
		query = query.Set(consts.QSyncError, *u.Error)
		set = true
	}

	if !set {
		return nil
	}

	result, err := query.
		Where(squirrel.Eq{consts.QSyncID: id}).
		RunWith(ss.DB).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update sync run %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no sync run found with ID %d", id)
	}

	return nil
}

// GetLatestSyncRun retrieves the most recently started sync run.
func (ss *SyncStore) GetLatestSyncRun() (*models.SyncRun, bool, error) {
	var (
		r           models.SyncRun
		completedAt sql.NullTime
		errMsg      sql.NullString
	)

	query := squirrel.
		Select(
			consts.QSyncID,
			consts.QSyncStartedAt,
			consts.QSyncCompletedAt,
			consts.QSyncStatus,
			consts.QSyncVideosAdded,
			consts.QSyncVideosUpdated,
			consts.QSyncCommentsAdded,
			consts.QSyncError,
		).
		From(consts.DBSyncRuns).
		OrderBy(consts.QSyncStartedAt+" DESC", consts.QSyncID+" DESC").
		Limit(1).
		RunWith(ss.DB)

	if err := query.QueryRow().Scan(
		&r.ID,
		&r.StartedAt,
		&completedAt,
		&r.Status,
		&r.VideosAdded,
		&r.VideosUpdated,
		&r.CommentsAdded,
		&errMsg,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to scan sync run: %w", err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	r.Error = nullString(errMsg)

	return &r, true, nil
}
