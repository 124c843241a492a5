package library

import (
	"database/sql"
)

const currentSchemaVersion = 1

// InitSchema creates the song tables if they do not exist.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS songs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			hash TEXT NOT NULL,
			mtime INTEGER NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			genre TEXT,
			year TEXT,
			charter TEXT,
			playlist TEXT,
			source TEXT,
			length_ms INTEGER,
			instruments TEXT,
			added_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_songs_hash ON songs(hash);
		CREATE INDEX IF NOT EXISTS idx_songs_added_at ON songs(added_at);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}
