package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tunecrate/tunecrate/internal/domain/playlist"
)

// PlaylistRepo persists playlists and their song memberships.
type PlaylistRepo struct {
	db *sql.DB
}

// NewPlaylistRepo creates a playlist repository.
func NewPlaylistRepo(db *sql.DB) *PlaylistRepo {
	return &PlaylistRepo{db: db}
}

func (r *PlaylistRepo) GetByID(ctx context.Context, id int64) (*playlist.Playlist, error) {
	var p playlist.Playlist
	var createdAt int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, owner, created_at FROM playlists WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Owner, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan playlist")
	}
	p.CreatedAt = time.Unix(createdAt, 0)

	if p.SongIDs, err = r.songIDs(ctx, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlaylistRepo) ListByOwner(ctx context.Context, owner string) ([]*playlist.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, owner, created_at
		FROM playlists WHERE owner = ? ORDER BY created_at DESC, id DESC`, owner)
	if err != nil {
		return nil, errors.Wrap(err, "playlist query failed")
	}
	defer rows.Close()

	var lists []*playlist.Playlist
	for rows.Next() {
		var p playlist.Playlist
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Owner, &createdAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan playlist")
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		lists = append(lists, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range lists {
		if p.SongIDs, err = r.songIDs(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return lists, nil
}

func (r *PlaylistRepo) Create(ctx context.Context, p *playlist.Playlist) (*playlist.Playlist, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO playlists (name, description, owner, created_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Description, p.Owner, now.Unix())
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inserted id")
	}
	p.ID = id
	p.CreatedAt = now
	return p, nil
}

// Update rewrites the playlist row and its whole membership in one
// transaction, preserving song order.
func (r *PlaylistRepo) Update(ctx context.Context, p *playlist.Playlist) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE playlists SET name = ?, description = ? WHERE id = ?`,
		p.Name, p.Description, p.ID); err != nil {
		return translate(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ?`, p.ID); err != nil {
		return translate(err)
	}
	for i, songID := range p.SongIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO playlist_songs (playlist_id, song_id, position) VALUES (?, ?, ?)`,
			p.ID, songID, i); err != nil {
			return translate(err)
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit playlist update")
}

func (r *PlaylistRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ?`, id); err != nil {
		return translate(err)
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	return translate(err)
}

func (r *PlaylistRepo) CountByOwner(ctx context.Context, owner string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM playlists WHERE owner = ?`, owner).Scan(&count)
	return count, err
}

func (r *PlaylistRepo) songIDs(ctx context.Context, playlistID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position`, playlistID)
	if err != nil {
		return nil, errors.Wrap(err, "membership query failed")
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "failed to scan song id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
