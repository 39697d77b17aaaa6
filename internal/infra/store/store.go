// Package store implements the repositories on SQLite via database/sql.
package store

import (
	"database/sql"

	"github.com/cockroachdb/errors"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tunecrate/tunecrate/internal/apperr"
)

// Open opens (or creates) the database and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	// modernc/sqlite serializes writes internally; a single writer
	// connection avoids SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA foreign_keys = ON;`); err != nil {
		return nil, errors.Wrap(err, "failed to set pragmas")
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS songs (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	title              TEXT NOT NULL,
	artist             TEXT NOT NULL,
	album              TEXT NOT NULL DEFAULT '',
	genre              TEXT NOT NULL DEFAULT '',
	duration           INTEGER NOT NULL DEFAULT 0,
	audio_filename     TEXT NOT NULL DEFAULT '',
	audio_content_type TEXT NOT NULL DEFAULT '',
	cover_filename     TEXT NOT NULL DEFAULT '',
	cover_content_type TEXT NOT NULL DEFAULT '',
	created_at         INTEGER NOT NULL,
	updated_at         INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS song_blobs (
	song_id      INTEGER NOT NULL,
	kind         TEXT NOT NULL,
	data         BLOB NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	filename     TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (song_id, kind)
);

CREATE TABLE IF NOT EXISTS playlists (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	owner       TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_playlists_owner ON playlists(owner);

CREATE TABLE IF NOT EXISTS playlist_songs (
	playlist_id INTEGER NOT NULL,
	song_id     INTEGER NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (playlist_id, song_id)
);

CREATE TABLE IF NOT EXISTS playback_sessions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	username     TEXT NOT NULL UNIQUE,
	song_id      INTEGER,
	state        TEXT NOT NULL,
	position     INTEGER NOT NULL DEFAULT 0,
	last_updated INTEGER NOT NULL
);
`
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// translate converts SQLite constraint violations into the Conflict kind;
// everything else passes through for the Internal fallback.
func translate(err error) error {
	var serr *sqlite.Error
	if errors.As(err, &serr) && serr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return apperr.Conflict("A record with this information already exists", err)
	}
	return err
}
