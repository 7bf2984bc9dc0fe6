// Command mirarr mirrors a YouTube channel's metadata, comments and media
// into a local SQLite database and downloads directory.
//
// Build with the sqlite_fts5 tag so the bundled SQLite includes full-text
// search:
//
//	go build -tags sqlite_fts5 ./cmd/mirarr
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mirarr/internal/cfg"
	"mirarr/internal/utils/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.Execute(ctx); err != nil {
		logging.E("%v", err)
		os.Exit(1)
	}
}
