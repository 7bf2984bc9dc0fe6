//go:build !sqlite_fts5

package database

// The search schema needs SQLite compiled with the FTS5 extension, which
// go-sqlite3 only includes under the sqlite_fts5 build tag. Without it every
// Open call would fail at runtime with "no such module: fts5", so refuse to
// build instead:
//
//	go build -tags sqlite_fts5 ./...
//	go test -tags sqlite_fts5 ./...
var _ = buildRequiresTag_sqlite_fts5
