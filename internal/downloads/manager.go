// Package downloads fetches playable media through yt-dlp and tracks each
// download's lifecycle in an in-memory task registry.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mirarr/internal/domain/consts"
	"mirarr/internal/models"
	"mirarr/internal/utils/logging"
)

// ErrCascadeExhausted signals that every format candidate failed.
var ErrCascadeExhausted = errors.New("all download format attempts failed")

// fetchFunc invokes the external fetch tool for one format candidate.
type fetchFunc func(ctx context.Context, videoID, outputTemplate, format string) error

// Manager downloads media into a single directory and owns the task registry.
type Manager struct {
	dir      string
	registry *registry
	fetch    fetchFunc
}

// NewManager returns a download manager storing media under dir.
func NewManager(dir string) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("downloads directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to make downloads directory: %w", err)
	}

	return &Manager{
		dir:      dir,
		registry: newRegistry(),
		fetch:    runYTDLP,
	}, nil
}

// Dir returns the downloads directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Queue registers a queued task for the video ahead of its Download call, so
// requests awaiting their turn are visible in the registry.
func (m *Manager) Queue(videoID, title string) {
	m.registry.queue(videoID, title)
}

// Download fetches media for a video, walking the format cascade from highest
// to lowest quality until one candidate produces an output file prefixed with
// the video ID. Returns the stored path relative to the downloads directory's
// parent, or ErrCascadeExhausted (wrapping the last attempt error) when every
// candidate fails.
//
// Concurrent calls for the same video ID are not deduplicated; callers guard.
func (m *Manager) Download(ctx context.Context, videoID, title string) (string, error) {
	m.registry.start(videoID, title)

	safeTitle := sanitizeTitle(title)
	outputTemplate := filepath.Join(m.dir, videoID+"-"+safeTitle+".%(ext)s")

	var lastErr error
	for _, format := range consts.FormatCascade {
		logging.D(1, "Attempting format %q for video %q", format, videoID)

		if err := m.fetch(ctx, videoID, outputTemplate, format); err != nil {
			lastErr = err
			logging.W("Format %q failed for video %q: %v", format, videoID, err)
			continue
		}

		name, found := m.findByPrefix(videoID)
		if !found {
			lastErr = fmt.Errorf("fetch reported success but no output file for video %q", videoID)
			continue
		}

		localPath := filepath.Join(filepath.Base(m.dir), name)
		m.registry.complete(videoID)
		logging.S("Downloaded video %q to %s", videoID, localPath)
		return localPath, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no format candidates configured")
	}
	err := fmt.Errorf("video %q: %w: %w", videoID, ErrCascadeExhausted, lastErr)
	m.registry.fail(videoID, err)
	return "", err
}

// IsDownloaded reports whether media for the video exists on disk.
func (m *Manager) IsDownloaded(videoID string) bool {
	_, found := m.findByPrefix(videoID)
	return found
}

// ResolvePath returns the on-disk path of the video's media, if present.
func (m *Manager) ResolvePath(videoID string) (string, bool) {
	name, found := m.findByPrefix(videoID)
	if !found {
		return "", false
	}
	return filepath.Join(m.dir, name), true
}

// Delete removes the video's media file. Returns true if a file was removed.
func (m *Manager) Delete(videoID string) (bool, error) {
	name, found := m.findByPrefix(videoID)
	if !found {
		return false, nil
	}

	if err := os.Remove(filepath.Join(m.dir, name)); err != nil {
		return false, fmt.Errorf("failed to delete media for video %q: %w", videoID, err)
	}

	logging.S("Deleted media file %q", name)
	return true, nil
}

// CountDownloaded counts media files in the downloads directory.
func (m *Manager) CountDownloaded() (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read downloads directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		for _, mediaExt := range consts.MediaExtensions {
			if ext == mediaExt {
				count++
				break
			}
		}
	}
	return count, nil
}

// findByPrefix locates a file in the downloads directory whose name starts
// with the video ID.
func (m *Manager) findByPrefix(videoID string) (string, bool) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), videoID) && !strings.HasSuffix(entry.Name(), ".part") {
			return entry.Name(), true
		}
	}
	return "", false
}

// sanitizeTitle reduces a title to a filesystem-safe fragment: letters,
// digits, spaces and hyphens survive, everything else becomes an underscore.
// Capped at MaxSafeTitleRunes runes.
func sanitizeTitle(title string) string {
	var b strings.Builder
	runes := 0

	for _, r := range title {
		if runes >= consts.MaxSafeTitleRunes {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
		runes++
	}

	return b.String()
}

// Status returns a copy of the task for the video, if one is registered.
func (m *Manager) Status(videoID string) (models.DownloadTask, bool) {
	return m.registry.get(videoID)
}

// ListAll returns copies of every registered task.
func (m *Manager) ListAll() []models.DownloadTask {
	return m.registry.list()
}

// ListFailed returns the IDs of videos whose downloads exhausted the cascade.
func (m *Manager) ListFailed() []string {
	return m.registry.failedIDs()
}

// ClearQueue drops completed and queued tasks from the registry.
// Failed tasks and the failed-ID list survive for operator audit.
func (m *Manager) ClearQueue() {
	m.registry.clear()
}

// ClearFailed drops failed tasks and the failed-ID list.
func (m *Manager) ClearFailed() {
	m.registry.clearFailed()
}
