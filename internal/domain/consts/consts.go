// Package consts holds global, unchanging values.
package consts

// SyncState holds constant sync run status strings.
type SyncState string

const (
	SyncRunning   SyncState = "running"
	SyncCompleted SyncState = "completed"
	SyncFailed    SyncState = "failed"
)

// DLStatus holds constant download status strings.
type DLStatus string

const (
	DLStatusQueued      DLStatus = "queued"
	DLStatusDownloading DLStatus = "downloading"
	DLStatusCompleted   DLStatus = "completed"
	DLStatusFailed      DLStatus = "failed"
)

// FormatCascade lists yt-dlp format selectors from highest to lowest quality.
// Attempted in order until one produces an output file.
var FormatCascade = [...]string{
	"bestvideo[height<=1080]+bestaudio",
	"best[height<=1080]",
	"bestvideo[height<=720]+bestaudio",
	"best[height<=720]",
	"best",
}

// MediaExtensions is the set of extensions counted as downloaded media.
var MediaExtensions = [...]string{".mp4", ".mkv", ".webm"}

// Remote fetch page and batch sizes.
const (
	VideoPageSize     = 50
	CommentPageSize   = 100
	StatsBatchSize    = 50
	MaxSafeTitleRunes = 100
)

// YTDLP is the external media fetch binary.
const YTDLP = "yt-dlp"

// WatchURLPrefix prefixes a video ID to form a watch URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="
