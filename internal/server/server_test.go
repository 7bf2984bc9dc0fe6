package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mirarr/internal/contracts"
	"mirarr/internal/database"
	"mirarr/internal/database/repo"
	"mirarr/internal/downloads"
	"mirarr/internal/models"
	"mirarr/internal/syncer"

	"github.com/stretchr/testify/require"
)

// stubSource blocks inside Channel until released, keeping a background sync
// in flight for as long as a test needs it.
type stubSource struct {
	release chan struct{}
}

func (s *stubSource) Channel(ctx context.Context, channelID string) (*models.ChannelInfo, error) {
	if s.release != nil {
		<-s.release
	}
	return &models.ChannelInfo{ID: channelID, Title: "Stub", LastSynced: time.Now().UTC()}, nil
}

func (s *stubSource) ChannelVideos(ctx context.Context, channelID string, fn func([]*models.Video) error) error {
	return nil
}

func (s *stubSource) VideoComments(ctx context.Context, videoID string, fn func([]*models.Comment) error) error {
	return nil
}

func (s *stubSource) VideosByIDs(ctx context.Context, videoIDs []string) ([]*models.Video, error) {
	return nil, nil
}

func newTestServer(t *testing.T, src contracts.MetadataSource) (*Server, contracts.Store) {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repo.GetStore(db)

	dl, err := downloads.NewManager(filepath.Join(dir, "downloads"))
	require.NoError(t, err)

	orch := syncer.NewOrchestrator(store, src, dl, "UC123", false, 0)

	return New(store, orch, dl), store
}

func seedVideo(t *testing.T, store contracts.Store, id, title string) {
	t.Helper()

	_, err := store.VideoStore().UpsertVideo(&models.Video{
		ID:          id,
		Title:       title,
		PublishedAt: time.Now().UTC(),
		Tags:        []string{},
		LastUpdated: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func seedComment(t *testing.T, store contracts.Store, id, videoID, text string) {
	t.Helper()

	now := time.Now().UTC()
	_, err := store.CommentStore().UpsertComment(&models.Comment{
		ID:                id,
		VideoID:           videoID,
		AuthorDisplayName: "someone",
		TextDisplay:       text,
		TextOriginal:      text,
		PublishedAt:       now,
		UpdatedAt:         now,
	})
	require.NoError(t, err)
}

func doRequest(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "Video")
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.EqualValues(t, 1, body["videos"])
	require.Equal(t, false, body["syncing"])
}

func TestChannelNotSynced(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/channel")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListAndGetVideos(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "First")
	seedVideo(t, store, "vid2", "Second")
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/videos")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Videos []models.Video `json:"videos"`
		Total  int64          `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Videos, 2)
	require.EqualValues(t, 2, listing.Total)

	rec = doRequest(t, h, http.MethodGet, "/api/videos/vid1")
	require.Equal(t, http.StatusOK, rec.Code)

	var v models.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "First", v.Title)

	rec = doRequest(t, h, http.MethodGet, "/api/videos/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentsEndpoints(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "Video")
	seedComment(t, store, "com1", "vid1", "nice one")
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/videos/vid1/comments")
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)

	rec = doRequest(t, h, http.MethodGet, "/api/videos/missing/comments")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCommentsCSV(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "Video")
	seedComment(t, store, "com1", "vid1", "nice one")

	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/videos/vid1/comments/export")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "vid1-comments.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "id,author,text,likeCount,publishedAt,isReply,parentId", lines[0])
	require.Contains(t, lines[1], "nice one")
}

func TestSearchEndpoints(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "Baking sourdough")
	seedComment(t, store, "com1", "vid1", "crusty perfection")
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/search/videos?q=sourdough")
	require.Equal(t, http.StatusOK, rec.Code)

	var videos []models.Video
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &videos))
	require.Len(t, videos, 1)

	rec = doRequest(t, h, http.MethodGet, "/api/search/comments?q=crusty")
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &comments))
	require.Len(t, comments, 1)

	rec = doRequest(t, h, http.MethodGet, "/api/search/videos")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchMissesReturnEmptyList(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/search/videos?q=nothing")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestSyncStartConflict(t *testing.T) {
	src := &stubSource{release: make(chan struct{})}
	srv, _ := newTestServer(t, src)
	h := srv.Router()

	rec := doRequest(t, h, http.MethodPost, "/api/sync/start")
	require.Equal(t, http.StatusAccepted, rec.Code)

	// A second start while the first is in flight is refused.
	rec = doRequest(t, h, http.MethodPost, "/api/sync/start")
	require.Equal(t, http.StatusConflict, rec.Code)

	close(src.release)
	require.Eventually(t, func() bool { return !srv.Syncing() },
		2*time.Second, 10*time.Millisecond)
}

func TestSyncStatusNoRuns(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	rec := doRequest(t, srv.Router(), http.MethodGet, "/api/sync/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, false, body["syncing"])
	require.NotContains(t, body, "lastRun")
}

func TestDownloadVideoNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})

	rec := doRequest(t, srv.Router(), http.MethodPost, "/api/videos/missing/download")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadVideoRegistersTask(t *testing.T) {
	srv, store := newTestServer(t, &stubSource{})
	seedVideo(t, store, "vid1", "Video")
	h := srv.Router()

	rec := doRequest(t, h, http.MethodPost, "/api/videos/vid1/download")
	require.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "queued", body["status"])

	// The task is registered before the response, so a status poll that
	// follows immediately already sees it.
	rec = doRequest(t, h, http.MethodGet, "/api/downloads/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Tasks []models.DownloadTask `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Len(t, status.Tasks, 1)
	require.Equal(t, "vid1", status.Tasks[0].VideoID)
}

func TestDownloadsStatusAndClear(t *testing.T) {
	srv, _ := newTestServer(t, &stubSource{})
	h := srv.Router()

	rec := doRequest(t, h, http.MethodGet, "/api/downloads/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Contains(t, body, "tasks")
	require.Contains(t, body, "failed")

	rec = doRequest(t, h, http.MethodDelete, "/api/downloads/queue")
	require.Equal(t, http.StatusNoContent, rec.Code)
}
