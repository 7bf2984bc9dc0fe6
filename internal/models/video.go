package models

import "time"

// Video is one mirrored video's metadata.
//
// LocalPath and DownloadedAt are owned by the download manager and are never
// touched by a metadata upsert.
type Video struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	PublishedAt  time.Time  `json:"publishedAt" db:"published_at"`
	ThumbnailURL string     `json:"thumbnailUrl" db:"thumbnail_url"`
	Duration     string     `json:"duration" db:"duration"` // ISO-8601, e.g. "PT4M13S"
	ViewCount    int64      `json:"viewCount" db:"view_count"`
	LikeCount    int64      `json:"likeCount" db:"like_count"`
	CommentCount int64      `json:"commentCount" db:"comment_count"`
	Tags         []string   `json:"tags" db:"tags"`
	LocalPath    string     `json:"localPath,omitempty" db:"local_path"`
	DownloadedAt *time.Time `json:"downloadedAt,omitempty" db:"downloaded_at"`
	LastUpdated  time.Time  `json:"lastUpdated" db:"last_updated"`
}
