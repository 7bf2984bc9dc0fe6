// Package youtube implements the remote metadata source against the YouTube
// Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"
)

// ErrCommentsDisabled signals that a video does not accept comments.
// Consumers tolerate it per video instead of aborting a sync.
var ErrCommentsDisabled = errors.New("comments disabled for video")

// ErrChannelNotFound signals that the remote source knows no such channel.
var ErrChannelNotFound = errors.New("channel not found")

// Client calls the YouTube Data API v3, pacing requests with a rate limiter.
type Client struct {
	svc     *youtubeapi.Service
	limiter *rate.Limiter
}

// NewClient returns a client authenticated with the given API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("youtube API key required")
	}

	svc, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	// ~5 requests/sec keeps well inside the default quota pacing.
	return &Client{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}, nil
}

// Channel fetches the channel snapshot.
func (c *Client) Channel(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Channels.
		List([]string{"snippet", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel %q: %w", channelID, err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("channel %q: %w", channelID, ErrChannelNotFound)
	}

	return channelToModel(resp.Items[0]), nil
}

// ChannelVideos streams the channel's videos in date-descending page order.
// Each page of IDs is resolved to full detail records before fn is called.
func (c *Client) ChannelVideos(ctx context.Context, channelID string, fn func(batch []*models.Video) error) error {
	pageToken := ""

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		call := c.svc.Search.
			List([]string{"snippet"}).
			ChannelId(channelID).
			MaxResults(consts.VideoPageSize).
			Order("date").
			Type("video").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return fmt.Errorf("failed to list videos for channel %q: %w", channelID, err)
		}

		videoIDs := make([]string, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Id != nil && item.Id.VideoId != "" {
				videoIDs = append(videoIDs, item.Id.VideoId)
			}
		}

		if len(videoIDs) > 0 {
			videos, err := c.VideosByIDs(ctx, videoIDs)
			if err != nil {
				return err
			}
			if err := fn(videos); err != nil {
				return err
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return nil
		}
	}
}

// VideosByIDs fetches full video details, batching IDs per request.
func (c *Client) VideosByIDs(ctx context.Context, videoIDs []string) ([]*models.Video, error) {
	videos := make([]*models.Video, 0, len(videoIDs))

	for start := 0; start < len(videoIDs); start += consts.StatsBatchSize {
		end := min(start+consts.StatsBatchSize, len(videoIDs))
		batch := videoIDs[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.svc.Videos.
			List([]string{"snippet", "contentDetails", "statistics"}).
			Id(batch...).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch video details: %w", err)
		}

		for _, item := range resp.Items {
			videos = append(videos, videoToModel(item))
		}
	}

	return videos, nil
}

// VideoComments streams a video's comment threads, top-level comments first
// within each thread, replies carrying the thread's top-level comment ID.
func (c *Client) VideoComments(ctx context.Context, videoID string, fn func(batch []*models.Comment) error) error {
	pageToken := ""

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		call := c.svc.CommentThreads.
			List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(consts.CommentPageSize).
			TextFormat("plainText").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			if isCommentsDisabled(err) {
				logging.D(1, "Comments disabled for video %q", videoID)
				return fmt.Errorf("video %q: %w", videoID, ErrCommentsDisabled)
			}
			return fmt.Errorf("failed to list comments for video %q: %w", videoID, err)
		}

		comments := collectThreads(resp.Items, videoID)
		if len(comments) > 0 {
			if err := fn(comments); err != nil {
				return err
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return nil
		}
	}
}

// isCommentsDisabled reports whether the API error means the video does not
// accept comments (403 with a commentsDisabled reason).
func isCommentsDisabled(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}
	if gErr.Code != 403 {
		return false
	}
	for _, e := range gErr.Errors {
		if strings.Contains(strings.ToLower(e.Reason), "disabled") {
			return true
		}
	}
	return strings.Contains(strings.ToLower(gErr.Message), "disabled")
}
