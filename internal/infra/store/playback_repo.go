package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tunecrate/tunecrate/internal/domain/playback"
)

// PlaybackRepo persists playback sessions, one row per user.
type PlaybackRepo struct {
	db *sql.DB
}

// NewPlaybackRepo creates a playback session repository.
func NewPlaybackRepo(db *sql.DB) *PlaybackRepo {
	return &PlaybackRepo{db: db}
}

func (r *PlaybackRepo) GetByUser(ctx context.Context, username string) (*playback.Session, error) {
	var s playback.Session
	var songID sql.NullInt64
	var lastUpdated int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, song_id, state, position, last_updated
		FROM playback_sessions WHERE username = ?`, username).
		Scan(&s.ID, &s.Username, &songID, &s.State, &s.Position, &lastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan session")
	}
	if songID.Valid {
		s.SongID = &songID.Int64
	}
	s.LastUpdated = time.Unix(lastUpdated, 0)
	return &s, nil
}

// Save upserts the session row keyed by username and backfills the row id
// on first insert.
func (r *PlaybackRepo) Save(ctx context.Context, s *playback.Session) error {
	var songID any
	if s.SongID != nil {
		songID = *s.SongID
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO playback_sessions (username, song_id, state, position, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			song_id = excluded.song_id,
			state = excluded.state,
			position = excluded.position,
			last_updated = excluded.last_updated
		RETURNING id`,
		s.Username, songID, string(s.State), s.Position, s.LastUpdated.Unix()).
		Scan(&s.ID)
	if err != nil {
		return translate(err)
	}
	return nil
}
