package youtube

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	youtubeapi "google.golang.org/api/youtube/v3"
)

func TestVideoToModel(t *testing.T) {
	v := &youtubeapi.Video{
		Id: "vid1",
		Snippet: &youtubeapi.VideoSnippet{
			Title:       "A Video",
			Description: "about things",
			PublishedAt: "2024-06-01T12:00:00Z",
			Tags:        []string{"go", "testing"},
			Thumbnails: &youtubeapi.ThumbnailDetails{
				Default: &youtubeapi.Thumbnail{Url: "http://img/default.jpg"},
				High:    &youtubeapi.Thumbnail{Url: "http://img/high.jpg"},
			},
		},
		ContentDetails: &youtubeapi.VideoContentDetails{Duration: "PT4M13S"},
		Statistics: &youtubeapi.VideoStatistics{
			ViewCount:    1200,
			LikeCount:    34,
			CommentCount: 5,
		},
	}

	m := videoToModel(v)

	require.Equal(t, "vid1", m.ID)
	require.Equal(t, "A Video", m.Title)
	require.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), m.PublishedAt)
	require.Equal(t, "http://img/high.jpg", m.ThumbnailURL)
	require.Equal(t, "PT4M13S", m.Duration)
	require.EqualValues(t, 1200, m.ViewCount)
	require.Equal(t, []string{"go", "testing"}, m.Tags)
}

func TestVideoToModelSparseResource(t *testing.T) {
	m := videoToModel(&youtubeapi.Video{Id: "vid1"})

	require.Equal(t, "vid1", m.ID)
	require.NotNil(t, m.Tags)
	require.Empty(t, m.Tags)
	require.True(t, m.PublishedAt.IsZero())
}

func TestCollectThreads(t *testing.T) {
	threads := []*youtubeapi.CommentThread{
		{
			Snippet: &youtubeapi.CommentThreadSnippet{
				TotalReplyCount: 2,
				TopLevelComment: &youtubeapi.Comment{
					Id: "top1",
					Snippet: &youtubeapi.CommentSnippet{
						AuthorDisplayName: "alice",
						TextDisplay:       "top level",
						PublishedAt:       "2024-06-01T12:00:00Z",
					},
				},
			},
			Replies: &youtubeapi.CommentThreadReplies{
				Comments: []*youtubeapi.Comment{
					{
						Id: "reply1",
						Snippet: &youtubeapi.CommentSnippet{
							AuthorDisplayName: "bob",
							TextDisplay:       "a reply",
						},
					},
				},
			},
		},
		{
			// Malformed thread without a top-level comment is dropped.
			Snippet: &youtubeapi.CommentThreadSnippet{},
		},
	}

	comments := collectThreads(threads, "vid1")
	require.Len(t, comments, 2)

	top := comments[0]
	require.Equal(t, "top1", top.ID)
	require.Equal(t, "vid1", top.VideoID)
	require.Empty(t, top.ParentID)
	require.EqualValues(t, 2, top.TotalReplyCount)
	require.False(t, top.IsReply())

	reply := comments[1]
	require.Equal(t, "reply1", reply.ID)
	require.Equal(t, "top1", reply.ParentID)
	require.EqualValues(t, 0, reply.TotalReplyCount)
	require.True(t, reply.IsReply())
}

func TestParseTimestamp(t *testing.T) {
	require.True(t, parseTimestamp("").IsZero())
	require.True(t, parseTimestamp("not a time").IsZero())

	got := parseTimestamp("2024-06-01T12:00:00Z")
	require.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), got)
}

func TestBestThumbnail(t *testing.T) {
	require.Empty(t, bestThumbnail(nil))

	details := &youtubeapi.ThumbnailDetails{
		Default: &youtubeapi.Thumbnail{Url: "default"},
		Medium:  &youtubeapi.Thumbnail{Url: "medium"},
	}
	require.Equal(t, "medium", bestThumbnail(details))

	details.Maxres = &youtubeapi.Thumbnail{Url: "maxres"}
	require.Equal(t, "maxres", bestThumbnail(details))
}
