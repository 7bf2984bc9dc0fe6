package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"

	"github.com/go-chi/chi/v5"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.E("Failed to encode JSON response: %v", err)
	}
}

// handleHealth reports liveness and basic library counts.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.VideoStore().CountVideos()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	downloaded, err := s.dl.CountDownloaded()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"videos":     count,
		"downloaded": downloaded,
		"syncing":    s.Syncing(),
		"time":       time.Now().UTC(),
	})
}

// handleGetChannel returns the mirrored channel snapshot.
func (s *Server) handleGetChannel(w http.ResponseWriter, r *http.Request) {
	c, found, err := s.store.ChannelStore().GetChannel()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "channel not synced yet", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// handleListVideos lists videos newest first, paged by limit and offset.
func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	limit := queryUint(r, "limit", consts.VideoPageSize)
	offset := queryUint(r, "offset", 0)

	videos, err := s.store.VideoStore().ListVideos(limit, offset)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	total, err := s.store.VideoStore().CountVideos()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"videos": emptyIfNilVideos(videos),
		"total":  total,
	})
}

// handleGetVideo returns one video by ID.
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	v, found, err := s.store.VideoStore().GetVideo(id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

// handleListComments lists a video's comments, newest first.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, found, err := s.store.VideoStore().GetVideo(id); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	} else if !found {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}

	limit := queryUint(r, "limit", 0)
	comments, err := s.store.CommentStore().ListCommentsForVideo(id, limit)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNilComments(comments))
}

// handleExportComments streams a video's comments as CSV.
func (s *Server) handleExportComments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, found, err := s.store.VideoStore().GetVideo(id); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	} else if !found {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}

	comments, err := s.store.CommentStore().ListCommentsForVideo(id, 0)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", id+"-comments.csv"))

	cw := csv.NewWriter(w)
	record := []string{"id", "author", "text", "likeCount", "publishedAt", "isReply", "parentId"}
	if err := cw.Write(record); err != nil {
		logging.E("Failed to write CSV header: %v", err)
		return
	}

	for _, c := range comments {
		record = []string{
			c.ID,
			c.AuthorDisplayName,
			c.TextOriginal,
			strconv.FormatInt(c.LikeCount, 10),
			c.PublishedAt.UTC().Format(time.RFC3339),
			strconv.FormatBool(c.IsReply()),
			c.ParentID,
		}
		if err := cw.Write(record); err != nil {
			logging.E("Failed to write CSV row: %v", err)
			return
		}
	}
	cw.Flush()
}

// handleSearchVideos runs a ranked full-text search over video metadata.
func (s *Server) handleSearchVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	videos, err := s.store.VideoStore().SearchVideos(q, queryUint(r, "limit", consts.VideoPageSize))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNilVideos(videos))
}

// handleSearchComments runs a ranked full-text search over comments.
func (s *Server) handleSearchComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter q", http.StatusBadRequest)
		return
	}

	comments, err := s.store.CommentStore().SearchComments(q, queryUint(r, "limit", consts.CommentPageSize))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNilComments(comments))
}

// handleSyncStatus returns the latest sync run plus the live syncing flag.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	run, found, err := s.store.SyncStore().GetLatestSyncRun()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"syncing": s.Syncing()}
	if found {
		resp["lastRun"] = run
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSyncStart launches a background sync. A second start while one is in
// flight gets 409.
func (s *Server) handleSyncStart(w http.ResponseWriter, r *http.Request) {
	full := r.URL.Query().Get("full") == "true"

	if !s.StartSync(full) {
		http.Error(w, "sync already in progress", http.StatusConflict)
		return
	}

	mode := "incremental"
	if full {
		mode = "full"
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "started",
		"mode":   mode,
	})
}

// handleDownloadVideo queues a media download for one video.
func (s *Server) handleDownloadVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	v, found, err := s.store.VideoStore().GetVideo(id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}

	if v.LocalPath != "" && s.dl.IsDownloaded(v.ID) {
		writeJSON(w, http.StatusOK, map[string]string{
			"videoId": id,
			"status":  "already-downloaded",
		})
		return
	}

	s.dl.Queue(v.ID, v.Title)
	go s.downloadAndRecord(v)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"videoId": id,
		"status":  "queued",
	})
}

// handleDownloadAll queues downloads for every video missing local media.
func (s *Server) handleDownloadAll(w http.ResponseWriter, r *http.Request) {
	videos, err := s.store.VideoStore().ListVideosMissingLocalMedia(queryUint(r, "limit", 0))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Register every task up front so videos awaiting their turn show as
	// queued in the registry.
	for _, v := range videos {
		s.dl.Queue(v.ID, v.Title)
	}

	go func() {
		for _, v := range videos {
			s.downloadAndRecord(v)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "started",
		"queued": len(videos),
	})
}

// handleDownloadsStatus lists all registered download tasks.
func (s *Server) handleDownloadsStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks":  s.dl.ListAll(),
		"failed": s.dl.ListFailed(),
	})
}

// handleClearQueue drops completed tasks from the download registry.
// Failed tasks stay visible until cleared explicitly.
func (s *Server) handleClearQueue(w http.ResponseWriter, r *http.Request) {
	s.dl.ClearQueue()
	w.WriteHeader(http.StatusNoContent)
}

// downloadAndRecord runs one download and persists the resulting local path.
func (s *Server) downloadAndRecord(v *models.Video) {
	localPath, err := s.dl.Download(context.Background(), v.ID, v.Title)
	if err != nil {
		logging.E("Download failed for video %q: %v", v.ID, err)
		return
	}
	if err := s.store.VideoStore().UpdateLocalPath(v.ID, localPath); err != nil {
		logging.E("Failed to record local path for video %q: %v", v.ID, err)
	}
}

// queryUint parses an unsigned query parameter, falling back on def.
func queryUint(r *http.Request, key string, def uint64) uint64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

// emptyIfNilVideos keeps JSON list responses as [] rather than null.
func emptyIfNilVideos(v []*models.Video) []*models.Video {
	if v == nil {
		return []*models.Video{}
	}
	return v
}

func emptyIfNilComments(c []*models.Comment) []*models.Comment {
	if c == nil {
		return []*models.Comment{}
	}
	return c
}
