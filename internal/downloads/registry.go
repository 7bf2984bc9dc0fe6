package downloads

import (
	"sync"
	"time"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"

	"github.com/google/uuid"
)

// registry tracks download tasks keyed by video ID. All access is guarded;
// callers only ever see copies of task records.
type registry struct {
	mu     sync.RWMutex
	tasks  map[string]*models.DownloadTask
	failed []string
}

func newRegistry() *registry {
	return &registry{
		tasks: make(map[string]*models.DownloadTask),
	}
}

// queue registers a task in the queued state when a download is requested.
// A video already downloading keeps its in-flight task.
func (r *registry) queue(videoID, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task, ok := r.tasks[videoID]; ok && task.Status == consts.DLStatusDownloading {
		return
	}
	r.tasks[videoID] = &models.DownloadTask{
		TaskID:  uuid.NewString(),
		VideoID: videoID,
		Title:   title,
		Status:  consts.DLStatusQueued,
	}
}

// start moves a queued task into the downloading state, keeping its task ID.
// A video with no queued task gets a fresh one; a previous outcome is
// discarded.
func (r *registry) start(videoID, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if task, ok := r.tasks[videoID]; ok && task.Status == consts.DLStatusQueued {
		task.Status = consts.DLStatusDownloading
		task.StartedAt = now
		return
	}
	r.tasks[videoID] = &models.DownloadTask{
		TaskID:    uuid.NewString(),
		VideoID:   videoID,
		Title:     title,
		Status:    consts.DLStatusDownloading,
		StartedAt: now,
	}
}

func (r *registry) complete(videoID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[videoID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	task.Status = consts.DLStatusCompleted
	task.CompletedAt = &now
	task.Error = ""
}

func (r *registry) fail(videoID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[videoID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	task.Status = consts.DLStatusFailed
	task.CompletedAt = &now
	if err != nil {
		task.Error = err.Error()
	}

	for _, id := range r.failed {
		if id == videoID {
			return
		}
	}
	r.failed = append(r.failed, videoID)
}

func (r *registry) get(videoID string) (models.DownloadTask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[videoID]
	if !ok {
		return models.DownloadTask{}, false
	}
	return *task, true
}

func (r *registry) list() []models.DownloadTask {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]models.DownloadTask, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, *task)
	}
	return tasks
}

func (r *registry) failedIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.failed))
	copy(ids, r.failed)
	return ids
}

// clear removes all tasks except failed ones.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, task := range r.tasks {
		if task.Status != consts.DLStatusFailed {
			delete(r.tasks, id)
		}
	}
}

// clearFailed removes failed tasks and resets the failed-ID list.
func (r *registry) clearFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, task := range r.tasks {
		if task.Status == consts.DLStatusFailed {
			delete(r.tasks, id)
		}
	}
	r.failed = nil
}
