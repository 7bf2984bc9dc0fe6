package models

import (
	"time"

	"mirarr/internal/domain/consts"
)

// SyncRun tracks one execution of the reconciliation algorithm.
//
// Created with status running, closed exactly once as completed or failed,
// then never mutated again.
type SyncRun struct {
	ID            int64            `json:"id" db:"id"`
	StartedAt     time.Time        `json:"startedAt" db:"started_at"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty" db:"completed_at"`
	Status        consts.SyncState `json:"status" db:"status"`
	VideosAdded   int64            `json:"videosAdded" db:"videos_added"`
	VideosUpdated int64            `json:"videosUpdated" db:"videos_updated"`
	CommentsAdded int64            `json:"commentsAdded" db:"comments_added"`
	Error         string           `json:"error,omitempty" db:"error"`
}

// SyncRunUpdate carries the fields of a partial sync run update.
// Nil fields are left untouched.
type SyncRunUpdate struct {
	CompletedAt   *time.Time
	Status        *consts.SyncState
	VideosAdded   *int64
	VideosUpdated *int64
	CommentsAdded *int64
	Error         *string
}
