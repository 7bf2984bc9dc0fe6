package consts

// Tables
const (
	DBChannelInfo = "channel_info"
	DBVideos      = "videos"
	DBComments    = "comments"
	DBSyncRuns    = "sync_runs"
	DBVideosFTS   = "videos_fts"
	DBCommentsFTS = "comments_fts"
)

// Channel info
const (
	QChanID          = "id"
	QChanTitle       = "title"
	QChanDescription = "description"
	QChanCustomURL   = "custom_url"
	QChanPublishedAt = "published_at"
	QChanThumbnail   = "thumbnail_url"
	QChanSubCount    = "subscriber_count"
	QChanVideoCount  = "video_count"
	QChanViewCount   = "view_count"
	QChanLastSynced  = "last_synced"
)

// Videos
const (
	QVidID           = "id"
	QVidTitle        = "title"
	QVidDescription  = "description"
	QVidPublishedAt  = "published_at"
	QVidThumbnail    = "thumbnail_url"
	QVidDuration     = "duration"
	QVidViewCount    = "view_count"
	QVidLikeCount    = "like_count"
	QVidCommentCount = "comment_count"
	QVidTags         = "tags"
	QVidLocalPath    = "local_path"
	QVidDownloadedAt = "downloaded_at"
	QVidLastUpdated  = "last_updated"
)

// Comments
const (
	QComID          = "id"
	QComVideoID     = "video_id"
	QComAuthorName  = "author_display_name"
	QComAuthorImage = "author_profile_image_url"
	QComAuthorChan  = "author_channel_id"
	QComTextDisplay = "text_display"
	QComTextOrig    = "text_original"
	QComLikeCount   = "like_count"
	QComPublishedAt = "published_at"
	QComUpdatedAt   = "updated_at"
	QComParentID    = "parent_id"
	QComReplyCount  = "total_reply_count"
)

// Sync runs
const (
	QSyncID            = "id"
	QSyncStartedAt     = "started_at"
	QSyncCompletedAt   = "completed_at"
	QSyncStatus        = "status"
	QSyncVideosAdded   = "videos_added"
	QSyncVideosUpdated = "videos_updated"
	QSyncCommentsAdded = "comments_added"
	QSyncError         = "error"
)
