package models

import "time"

// Comment is one mirrored comment.
//
// Top-level comments have an empty ParentID and carry the thread's true reply
// count. Replies reference their thread's top-level comment ID and always
// store a reply count of zero.
type Comment struct {
	ID                    string    `json:"id" db:"id"`
	VideoID               string    `json:"videoId" db:"video_id"`
	AuthorDisplayName     string    `json:"authorDisplayName" db:"author_display_name"`
	AuthorProfileImageURL string    `json:"authorProfileImageUrl" db:"author_profile_image_url"`
	AuthorChannelID       string    `json:"authorChannelId" db:"author_channel_id"`
	TextDisplay           string    `json:"textDisplay" db:"text_display"`
	TextOriginal          string    `json:"textOriginal" db:"text_original"`
	LikeCount             int64     `json:"likeCount" db:"like_count"`
	PublishedAt           time.Time `json:"publishedAt" db:"published_at"`
	UpdatedAt             time.Time `json:"updatedAt" db:"updated_at"`
	ParentID              string    `json:"parentId,omitempty" db:"parent_id"`
	TotalReplyCount       int64     `json:"totalReplyCount" db:"total_reply_count"`
}

// IsReply reports whether the comment is a reply to a top-level comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != ""
}
