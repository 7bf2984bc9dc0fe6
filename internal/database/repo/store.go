// Package repo implements the SQLite-backed stores.
package repo

import (
	"database/sql"
	"errors"

	"mirarr/internal/contracts"
)

// ErrVideoNotFound is returned when an operation targets a video ID with no row.
var ErrVideoNotFound = errors.New("video not found")

// Store bundles the individual stores over one database handle.
type Store struct {
	db *sql.DB

	channelStore *ChannelStore
	videoStore   *VideoStore
	commentStore *CommentStore
	syncStore    *SyncStore
}

// GetStore returns a store instance with injected database.
func GetStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		channelStore: GetChannelStore(db),
		videoStore:   GetVideoStore(db),
		commentStore: GetCommentStore(db),
		syncStore:    GetSyncStore(db),
	}
}

// ChannelStore returns the channel snapshot store.
func (s *Store) ChannelStore() contracts.ChannelStore { return s.channelStore }

// VideoStore returns the video store.
func (s *Store) VideoStore() contracts.VideoStore { return s.videoStore }

// CommentStore returns the comment store.
func (s *Store) CommentStore() contracts.CommentStore { return s.commentStore }

// SyncStore returns the sync run store.
func (s *Store) SyncStore() contracts.SyncStore { return s.syncStore }

// nullString converts an sql.NullString into a string, or "".
func nullString(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}
