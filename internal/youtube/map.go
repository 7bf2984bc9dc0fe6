package youtube

import (
	"time"

	"mirarr/internal/models"

	"github.com/araddon/dateparse"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// channelToModel maps an API channel resource onto a ChannelInfo snapshot.
func channelToModel(ch *youtubeapi.Channel) *models.ChannelInfo {
	info := &models.ChannelInfo{
		ID:         ch.Id,
		LastSynced: time.Now().UTC(),
	}

	if ch.Snippet != nil {
		info.Title = ch.Snippet.Title
		info.Description = ch.Snippet.Description
		info.CustomURL = ch.Snippet.CustomUrl
		info.PublishedAt = parseTimestamp(ch.Snippet.PublishedAt)
		info.ThumbnailURL = bestThumbnail(ch.Snippet.Thumbnails)
	}

	if ch.Statistics != nil {
		info.SubscriberCount = int64(ch.Statistics.SubscriberCount)
		info.VideoCount = int64(ch.Statistics.VideoCount)
		info.ViewCount = int64(ch.Statistics.ViewCount)
	}

	return info
}

// videoToModel maps an API video resource onto a Video model.
// Absent tags map to an empty list, never nil.
func videoToModel(v *youtubeapi.Video) *models.Video {
	video := &models.Video{
		ID:          v.Id,
		Tags:        []string{},
		LastUpdated: time.Now().UTC(),
	}

	if v.Snippet != nil {
		video.Title = v.Snippet.Title
		video.Description = v.Snippet.Description
		video.PublishedAt = parseTimestamp(v.Snippet.PublishedAt)
		video.ThumbnailURL = bestThumbnail(v.Snippet.Thumbnails)
		if len(v.Snippet.Tags) > 0 {
			video.Tags = v.Snippet.Tags
		}
	}

	if v.ContentDetails != nil {
		video.Duration = v.ContentDetails.Duration
	}

	if v.Statistics != nil {
		video.ViewCount = int64(v.Statistics.ViewCount)
		video.LikeCount = int64(v.Statistics.LikeCount)
		video.CommentCount = int64(v.Statistics.CommentCount)
	}

	return video
}

// collectThreads flattens comment threads into models: the top-level comment
// first, then its replies with ParentID set to the thread's top-level ID.
// Only top-level comments carry the thread's reply count.
func collectThreads(threads []*youtubeapi.CommentThread, videoID string) []*models.Comment {
	var comments []*models.Comment

	for _, thread := range threads {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
			continue
		}

		top := commentToModel(thread.Snippet.TopLevelComment, videoID, "")
		top.TotalReplyCount = thread.Snippet.TotalReplyCount
		comments = append(comments, top)

		if thread.Replies == nil {
			continue
		}
		for _, reply := range thread.Replies.Comments {
			comments = append(comments, commentToModel(reply, videoID, top.ID))
		}
	}

	return comments
}

// commentToModel maps an API comment resource onto a Comment model.
func commentToModel(c *youtubeapi.Comment, videoID, parentID string) *models.Comment {
	comment := &models.Comment{
		ID:       c.Id,
		VideoID:  videoID,
		ParentID: parentID,
	}

	if c.Snippet == nil {
		return comment
	}

	comment.AuthorDisplayName = c.Snippet.AuthorDisplayName
	comment.AuthorProfileImageURL = c.Snippet.AuthorProfileImageUrl
	if c.Snippet.AuthorChannelId != nil {
		comment.AuthorChannelID = c.Snippet.AuthorChannelId.Value
	}
	comment.TextDisplay = c.Snippet.TextDisplay
	comment.TextOriginal = c.Snippet.TextOriginal
	comment.LikeCount = c.Snippet.LikeCount
	comment.PublishedAt = parseTimestamp(c.Snippet.PublishedAt)
	comment.UpdatedAt = parseTimestamp(c.Snippet.UpdatedAt)

	return comment
}

// parseTimestamp parses a remote timestamp string, zero time on failure.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// bestThumbnail picks the highest-quality thumbnail URL available.
func bestThumbnail(t *youtubeapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtubeapi.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
