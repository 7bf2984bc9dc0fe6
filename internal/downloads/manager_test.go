package downloads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mirarr/internal/domain/consts"

	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager(filepath.Join(t.TempDir(), "downloads"))
	require.NoError(t, err)
	return m
}

// fakeFetch drops a media file into dir after failUntil failed attempts.
func fakeFetch(dir string, failUntil int, attempts *int) fetchFunc {
	return func(ctx context.Context, videoID, outputTemplate, format string) error {
		*attempts++
		if *attempts <= failUntil {
			return errors.New("requested format is not available")
		}
		name := filepath.Base(strings.Replace(outputTemplate, "%(ext)s", "mp4", 1))
		return os.WriteFile(filepath.Join(dir, name), []byte("media"), 0o644)
	}
}

func TestDownloadCascadeFallsBack(t *testing.T) {
	m := newTestManager(t)

	attempts := 0
	m.fetch = fakeFetch(m.dir, 2, &attempts)

	localPath, err := m.Download(context.Background(), "vid1", "My Video")
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
	require.Equal(t, filepath.Join("downloads", "vid1-My Video.mp4"), localPath)

	require.True(t, m.IsDownloaded("vid1"))

	task, ok := m.Status("vid1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusCompleted, task.Status)
	require.NotNil(t, task.CompletedAt)
	require.NotEmpty(t, task.TaskID)
}

func TestQueueThenDownloadLifecycle(t *testing.T) {
	m := newTestManager(t)

	m.Queue("vid1", "My Video")

	task, ok := m.Status("vid1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusQueued, task.Status)
	require.True(t, task.StartedAt.IsZero())
	require.NotEmpty(t, task.TaskID)
	queuedID := task.TaskID

	attempts := 0
	m.fetch = fakeFetch(m.dir, 0, &attempts)
	_, err := m.Download(context.Background(), "vid1", "My Video")
	require.NoError(t, err)

	// The queued task transitions in place rather than being replaced.
	task, ok = m.Status("vid1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusCompleted, task.Status)
	require.Equal(t, queuedID, task.TaskID)
	require.False(t, task.StartedAt.IsZero())
}

func TestDownloadCascadeExhausted(t *testing.T) {
	m := newTestManager(t)

	attempts := 0
	m.fetch = func(ctx context.Context, videoID, outputTemplate, format string) error {
		attempts++
		return errors.New("video unavailable")
	}

	_, err := m.Download(context.Background(), "vid1", "My Video")
	require.ErrorIs(t, err, ErrCascadeExhausted)
	require.Equal(t, len(consts.FormatCascade), attempts)

	require.False(t, m.IsDownloaded("vid1"))
	require.Equal(t, []string{"vid1"}, m.ListFailed())

	task, ok := m.Status("vid1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusFailed, task.Status)
	require.Contains(t, task.Error, "video unavailable")
}

func TestDownloadRetryAfterFailure(t *testing.T) {
	m := newTestManager(t)

	m.fetch = func(ctx context.Context, videoID, outputTemplate, format string) error {
		return errors.New("network down")
	}
	_, err := m.Download(context.Background(), "vid1", "Video")
	require.ErrorIs(t, err, ErrCascadeExhausted)

	attempts := 0
	m.fetch = fakeFetch(m.dir, 0, &attempts)
	_, err = m.Download(context.Background(), "vid1", "Video")
	require.NoError(t, err)

	task, ok := m.Status("vid1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusCompleted, task.Status)
	require.Empty(t, task.Error)
}

func TestClearQueueRetainsFailed(t *testing.T) {
	m := newTestManager(t)

	attempts := 0
	m.fetch = fakeFetch(m.dir, 0, &attempts)
	_, err := m.Download(context.Background(), "ok1", "Fine")
	require.NoError(t, err)

	m.fetch = func(ctx context.Context, videoID, outputTemplate, format string) error {
		return errors.New("broken")
	}
	_, err = m.Download(context.Background(), "bad1", "Broken")
	require.ErrorIs(t, err, ErrCascadeExhausted)

	m.ClearQueue()

	require.Len(t, m.ListAll(), 1)
	task, ok := m.Status("bad1")
	require.True(t, ok)
	require.Equal(t, consts.DLStatusFailed, task.Status)
	require.Equal(t, []string{"bad1"}, m.ListFailed())

	m.ClearFailed()
	require.Empty(t, m.ListAll())
	require.Empty(t, m.ListFailed())
}

func TestResolveAndDelete(t *testing.T) {
	m := newTestManager(t)

	attempts := 0
	m.fetch = fakeFetch(m.dir, 0, &attempts)
	_, err := m.Download(context.Background(), "vid1", "Video")
	require.NoError(t, err)

	path, found := m.ResolvePath("vid1")
	require.True(t, found)
	require.FileExists(t, path)

	count, err := m.CountDownloaded()
	require.NoError(t, err)
	require.Equal(t, 1, count)

	removed, err := m.Delete("vid1")
	require.NoError(t, err)
	require.True(t, removed)
	require.False(t, m.IsDownloaded("vid1"))

	removed, err = m.Delete("vid1")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Plain Title", "Plain Title"},
		{"Slash/Colon: Pipe|", "Slash_Colon_ Pipe_"},
		{"emoji \U0001F600 title", "emoji _ title"},
		{strings.Repeat("a", 150), strings.Repeat("a", consts.MaxSafeTitleRunes)},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, sanitizeTitle(tc.in), "input %q", tc.in)
	}
}
