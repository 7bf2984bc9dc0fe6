// Package syncer reconciles the local mirror with the remote channel state.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mirarr/internal/contracts"
	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"
	"mirarr/internal/youtube"
)

// Orchestrator drives full and incremental sync runs against one channel.
type Orchestrator struct {
	store     contracts.Store
	source    contracts.MetadataSource
	dl        contracts.Downloader
	channelID string

	// downloadAfterSync appends a media download pass to every sync run.
	downloadAfterSync bool
	downloadLimit     uint64
}

// NewOrchestrator returns an orchestrator for the given channel. dl may be
// nil when downloadAfterSync is false.
func NewOrchestrator(store contracts.Store, source contracts.MetadataSource, dl contracts.Downloader, channelID string, downloadAfterSync bool, downloadLimit uint64) *Orchestrator {
	return &Orchestrator{
		store:             store,
		source:            source,
		dl:                dl,
		channelID:         channelID,
		downloadAfterSync: downloadAfterSync,
		downloadLimit:     downloadLimit,
	}
}

// counters accumulates per-run statistics.
type counters struct {
	videosAdded   int64
	videosUpdated int64
	commentsAdded int64
}

// FullSync walks every video of the channel, refreshing metadata and pulling
// the complete comment tree for each one. Videos whose comments cannot be
// fetched are logged and skipped; any other failure closes the run as failed.
func (o *Orchestrator) FullSync(ctx context.Context) (*models.SyncRun, error) {
	return o.run(ctx, true)
}

// IncrementalSync walks the full video listing like a full sync, but pulls
// comments for newly discovered videos only and batch-refreshes statistics
// for stored videos the listing no longer surfaces.
func (o *Orchestrator) IncrementalSync(ctx context.Context) (*models.SyncRun, error) {
	return o.run(ctx, false)
}

func (o *Orchestrator) run(ctx context.Context, full bool) (*models.SyncRun, error) {
	runID, err := o.store.SyncStore().CreateSyncRun()
	if err != nil {
		return nil, err
	}

	mode := "incremental"
	if full {
		mode = "full"
	}
	logging.I("Starting %s sync for channel %q (run %d)", mode, o.channelID, runID)

	var c counters
	if err := o.sync(ctx, full, &c); err != nil {
		o.closeRun(runID, consts.SyncFailed, &c, err)
		return nil, fmt.Errorf("sync run %d failed: %w", runID, err)
	}

	o.closeRun(runID, consts.SyncCompleted, &c, nil)
	logging.S("Sync run %d complete: %d added, %d updated, %d comments",
		runID, c.videosAdded, c.videosUpdated, c.commentsAdded)

	run, _, err := o.store.SyncStore().GetLatestSyncRun()
	if err != nil {
		return nil, err
	}
	return run, nil
}

// sync performs the reconciliation work shared by both modes.
func (o *Orchestrator) sync(ctx context.Context, full bool, c *counters) error {
	channel, err := o.source.Channel(ctx, o.channelID)
	if err != nil {
		return err
	}
	if err := o.store.ChannelStore().UpsertChannel(channel); err != nil {
		return err
	}

	// seen collects every video surfaced by the listing so the incremental
	// stats pass only touches videos the listing missed. The listing is
	// always walked to exhaustion; a backdated upload can appear on any page.
	seen := make(map[string]bool)
	var newVideos []*models.Video

	err = o.source.ChannelVideos(ctx, o.channelID, func(batch []*models.Video) error {
		for _, v := range batch {
			isNew, err := o.store.VideoStore().UpsertVideo(v)
			if err != nil {
				return err
			}
			seen[v.ID] = true
			if isNew {
				c.videosAdded++
				newVideos = append(newVideos, v)
			} else {
				c.videosUpdated++
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Full sync pulls comments for the entire library; incremental only for
	// videos first seen this run.
	commentTargets := newVideos
	if full {
		videos, err := o.store.VideoStore().ListVideos(0, 0)
		if err != nil {
			return err
		}
		commentTargets = videos
	}

	for _, v := range commentTargets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := o.syncComments(ctx, v.ID, c); err != nil {
			return err
		}
	}

	if !full {
		if err := o.refreshStats(ctx, seen, c); err != nil {
			return err
		}
	}

	if o.downloadAfterSync && o.dl != nil {
		o.downloadMissing(ctx)
	}

	return nil
}

// syncComments pulls one video's comment tree. Fetch failures, including
// videos with comments disabled, are tolerated so one video cannot sink the
// whole run.
func (o *Orchestrator) syncComments(ctx context.Context, videoID string, c *counters) error {
	err := o.source.VideoComments(ctx, videoID, func(batch []*models.Comment) error {
		for _, comment := range batch {
			isNew, err := o.store.CommentStore().UpsertComment(comment)
			if err != nil {
				return err
			}
			if isNew {
				c.commentsAdded++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, youtube.ErrCommentsDisabled) {
			logging.D(1, "Skipping comments for video %q: disabled", videoID)
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		logging.W("Failed to fetch comments for video %q: %v", videoID, err)
		return nil
	}
	return nil
}

// refreshStats re-fetches statistics for stored videos the paging pass did
// not reach, batching IDs per request.
func (o *Orchestrator) refreshStats(ctx context.Context, seen map[string]bool, c *counters) error {
	videos, err := o.store.VideoStore().ListVideos(0, 0)
	if err != nil {
		return err
	}

	var stale []string
	for _, v := range videos {
		if !seen[v.ID] {
			stale = append(stale, v.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	logging.D(1, "Refreshing statistics for %d videos", len(stale))

	for start := 0; start < len(stale); start += consts.StatsBatchSize {
		end := min(start+consts.StatsBatchSize, len(stale))

		fresh, err := o.source.VideosByIDs(ctx, stale[start:end])
		if err != nil {
			return err
		}
		for _, v := range fresh {
			if _, err := o.store.VideoStore().UpsertVideo(v); err != nil {
				return err
			}
			c.videosUpdated++
		}
	}
	return nil
}

// downloadMissing fetches media for videos without a local file, continuing
// past individual failures. Download trouble never fails the sync run.
func (o *Orchestrator) downloadMissing(ctx context.Context) {
	videos, err := o.store.VideoStore().ListVideosMissingLocalMedia(o.downloadLimit)
	if err != nil {
		logging.E("Failed to list videos missing media: %v", err)
		return
	}
	if len(videos) == 0 {
		return
	}

	logging.I("Downloading media for %d videos", len(videos))

	for _, v := range videos {
		if ctx.Err() != nil {
			return
		}
		localPath, err := o.dl.Download(ctx, v.ID, v.Title)
		if err != nil {
			logging.E("Download failed for video %q: %v", v.ID, err)
			continue
		}
		if err := o.store.VideoStore().UpdateLocalPath(v.ID, localPath); err != nil {
			logging.E("Failed to record local path for video %q: %v", v.ID, err)
		}
	}
}

// closeRun transitions the run to its terminal state exactly once.
func (o *Orchestrator) closeRun(runID int64, status consts.SyncState, c *counters, runErr error) {
	now := time.Now().UTC()
	update := &models.SyncRunUpdate{
		CompletedAt:   &now,
		Status:        &status,
		VideosAdded:   &c.videosAdded,
		VideosUpdated: &c.videosUpdated,
		CommentsAdded: &c.commentsAdded,
	}
	if runErr != nil {
		msg := runErr.Error()
		update.Error = &msg
	}

	if err := o.store.SyncStore().UpdateSyncRun(runID, update); err != nil {
		logging.E("Failed to close sync run %d: %v", runID, err)
	}
}
