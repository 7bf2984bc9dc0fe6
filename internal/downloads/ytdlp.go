package downloads

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"mirarr/internal/domain/consts"
	"mirarr/internal/utils/logging"
)

// runYTDLP shells out to yt-dlp for a single format attempt. Separate streams
// are merged into mp4 so the output extension stays predictable.
func runYTDLP(ctx context.Context, videoID, outputTemplate, format string) error {
	args := []string{
		"-f", format,
		"--merge-output-format", "mp4",
		"--no-playlist",
		"-o", outputTemplate,
		consts.WatchURLPrefix + videoID,
	}

	cmd := exec.CommandContext(ctx, consts.YTDLP, args...)
	logging.D(2, "Executing: %s %s", consts.YTDLP, strings.Join(args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed for video %q: %w: %s",
			consts.YTDLP, videoID, err, lastLine(output))
	}
	return nil
}

// lastLine trims command output to its final non-empty line, which is where
// yt-dlp puts its error message.
func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
