package models

import (
	"time"

	"mirarr/internal/domain/consts"
)

// DownloadTask tracks one media download through its lifecycle.
// Tasks live in the download manager's in-memory registry only.
type DownloadTask struct {
	TaskID      string          `json:"taskId"`
	VideoID     string          `json:"videoId"`
	Title       string          `json:"title"`
	Status      consts.DLStatus `json:"status"`
	Error       string          `json:"error,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}
