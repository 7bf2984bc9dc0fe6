// Package models holds structs modelling channel, video, comment and sync data.
package models

import "time"

// ChannelInfo is the most recently observed state of the mirrored channel.
//
// At most one row exists; every sync overwrites it in place.
type ChannelInfo struct {
	ID              string    `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	CustomURL       string    `json:"customUrl,omitempty" db:"custom_url"`
	PublishedAt     time.Time `json:"publishedAt" db:"published_at"`
	ThumbnailURL    string    `json:"thumbnailUrl" db:"thumbnail_url"`
	SubscriberCount int64     `json:"subscriberCount" db:"subscriber_count"`
	VideoCount      int64     `json:"videoCount" db:"video_count"`
	ViewCount       int64     `json:"viewCount" db:"view_count"`
	LastSynced      time.Time `json:"lastSynced" db:"last_synced"`
}
