package database

import (
	"database/sql"
	"fmt"
)

// initTables initializes the SQL tables inside one transaction.
func initTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := initChannelInfoTable(tx); err != nil {
		return err
	}

	if err := initVideosTable(tx); err != nil {
		return err
	}

	if err := initCommentsTable(tx); err != nil {
		return err
	}

	if err := initSyncRunsTable(tx); err != nil {
		return err
	}

	if err := initSearchTables(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// initChannelInfoTable initializes the single-row channel snapshot table.
func initChannelInfoTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS channel_info (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT,
        custom_url TEXT,
        published_at TIMESTAMP NOT NULL,
        thumbnail_url TEXT,
        subscriber_count INTEGER DEFAULT 0,
        video_count INTEGER DEFAULT 0,
        view_count INTEGER DEFAULT 0,
        last_synced TIMESTAMP NOT NULL
    );
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create channel_info table: %w", err)
	}
	return nil
}

// initVideosTable initializes the videos table.
func initVideosTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS videos (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT,
        published_at TIMESTAMP NOT NULL,
        thumbnail_url TEXT,
        duration TEXT,
        view_count INTEGER DEFAULT 0,
        like_count INTEGER DEFAULT 0,
        comment_count INTEGER DEFAULT 0,
        tags TEXT,
        local_path TEXT,
        downloaded_at TIMESTAMP,
        last_updated TIMESTAMP NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_videos_published_at ON videos(published_at DESC);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create videos table: %w", err)
	}
	return nil
}

// initCommentsTable initializes the comments table.
func initCommentsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS comments (
        id TEXT PRIMARY KEY,
        video_id TEXT NOT NULL,
        author_display_name TEXT NOT NULL,
        author_profile_image_url TEXT,
        author_channel_id TEXT,
        text_display TEXT NOT NULL,
        text_original TEXT NOT NULL,
        like_count INTEGER DEFAULT 0,
        published_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        parent_id TEXT,
        total_reply_count INTEGER DEFAULT 0,
        FOREIGN KEY (video_id) REFERENCES videos(id) ON DELETE CASCADE
    );
    CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id);
    CREATE INDEX IF NOT EXISTS idx_comments_parent_id ON comments(parent_id);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create comments table: %w", err)
	}
	return nil
}

// initSyncRunsTable initializes the sync run bookkeeping table.
func initSyncRunsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS sync_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        started_at TIMESTAMP NOT NULL,
        completed_at TIMESTAMP,
        status TEXT NOT NULL CHECK(status IN ('running', 'completed', 'failed')),
        videos_added INTEGER DEFAULT 0,
        videos_updated INTEGER DEFAULT 0,
        comments_added INTEGER DEFAULT 0,
        error TEXT
    );
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create sync_runs table: %w", err)
	}
	return nil
}

// initSearchTables initializes the FTS5 projections and the triggers keeping
// them synchronized with the base tables. The triggers fire in the same
// transaction as the base-table write, so a committed row is always
// searchable and a deleted row never is.
func initSearchTables(tx *sql.Tx) error {
	query := `
    CREATE VIRTUAL TABLE IF NOT EXISTS videos_fts USING fts5(
        id UNINDEXED,
        title,
        description,
        tags,
        content='videos',
        content_rowid='rowid'
    );

    CREATE VIRTUAL TABLE IF NOT EXISTS comments_fts USING fts5(
        id UNINDEXED,
        video_id UNINDEXED,
        author_display_name,
        text_display,
        text_original,
        content='comments',
        content_rowid='rowid'
    );

    CREATE TRIGGER IF NOT EXISTS videos_ai AFTER INSERT ON videos BEGIN
        INSERT INTO videos_fts(rowid, id, title, description, tags)
        VALUES (new.rowid, new.id, new.title, new.description, new.tags);
    END;

    CREATE TRIGGER IF NOT EXISTS videos_ad AFTER DELETE ON videos BEGIN
        INSERT INTO videos_fts(videos_fts, rowid, id, title, description, tags)
        VALUES ('delete', old.rowid, old.id, old.title, old.description, old.tags);
    END;

    CREATE TRIGGER IF NOT EXISTS videos_au AFTER UPDATE ON videos BEGIN
        INSERT INTO videos_fts(videos_fts, rowid, id, title, description, tags)
        VALUES ('delete', old.rowid, old.id, old.title, old.description, old.tags);
        INSERT INTO videos_fts(rowid, id, title, description, tags)
        VALUES (new.rowid, new.id, new.title, new.description, new.tags);
    END;

    CREATE TRIGGER IF NOT EXISTS comments_ai AFTER INSERT ON comments BEGIN
        INSERT INTO comments_fts(rowid, id, video_id, author_display_name, text_display, text_original)
        VALUES (new.rowid, new.id, new.video_id, new.author_display_name, new.text_display, new.text_original);
    END;

    CREATE TRIGGER IF NOT EXISTS comments_ad AFTER DELETE ON comments BEGIN
        INSERT INTO comments_fts(comments_fts, rowid, id, video_id, author_display_name, text_display, text_original)
        VALUES ('delete', old.rowid, old.id, old.video_id, old.author_display_name, old.text_display, old.text_original);
    END;

    CREATE TRIGGER IF NOT EXISTS comments_au AFTER UPDATE ON comments BEGIN
        INSERT INTO comments_fts(comments_fts, rowid, id, video_id, author_display_name, text_display, text_original)
        VALUES ('delete', old.rowid, old.id, old.video_id, old.author_display_name, old.text_display, old.text_original);
        INSERT INTO comments_fts(rowid, id, video_id, author_display_name, text_display, text_original)
        VALUES (new.rowid, new.id, new.video_id, new.author_display_name, new.text_display, new.text_original);
    END;
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create search tables: %w", err)
	}
	return nil
}
