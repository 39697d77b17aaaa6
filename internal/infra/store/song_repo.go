package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tunecrate/tunecrate/internal/domain/song"
)

// SongRepo persists catalog entries and their BLOB assets.
type SongRepo struct {
	db *sql.DB
}

// NewSongRepo creates a song repository.
func NewSongRepo(db *sql.DB) *SongRepo {
	return &SongRepo{db: db}
}

const songColumns = `id, title, artist, album, genre, duration,
	audio_filename, audio_content_type, cover_filename, cover_content_type,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (*song.Song, error) {
	var s song.Song
	var createdAt, updatedAt int64
	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.Album, &s.Genre, &s.Duration,
		&s.AudioFilename, &s.AudioContentType, &s.CoverFilename, &s.CoverContentType,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)
	return &s, nil
}

func (r *SongRepo) querySongs(ctx context.Context, query string, args ...any) ([]*song.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "song query failed")
	}
	defer rows.Close()

	var songs []*song.Song
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan song")
		}
		songs = append(songs, s)
	}
	return songs, rows.Err()
}

func (r *SongRepo) List(ctx context.Context) ([]*song.Song, error) {
	return r.querySongs(ctx, `SELECT `+songColumns+` FROM songs ORDER BY title COLLATE NOCASE`)
}

func (r *SongRepo) GetByID(ctx context.Context, id int64) (*song.Song, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	s, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan song")
	}
	return s, nil
}

func (r *SongRepo) Search(ctx context.Context, term string) ([]*song.Song, error) {
	pattern := "%" + term + "%"
	return r.querySongs(ctx, `
		SELECT `+songColumns+` FROM songs
		WHERE title LIKE ? OR artist LIKE ? OR album LIKE ?
		ORDER BY title COLLATE NOCASE`,
		pattern, pattern, pattern)
}

func (r *SongRepo) ByGenre(ctx context.Context, genre song.Genre) ([]*song.Song, error) {
	return r.querySongs(ctx, `
		SELECT `+songColumns+` FROM songs WHERE genre = ? ORDER BY title COLLATE NOCASE`,
		string(genre))
}

func (r *SongRepo) ByArtist(ctx context.Context, artist string) ([]*song.Song, error) {
	return r.querySongs(ctx, `
		SELECT `+songColumns+` FROM songs WHERE artist LIKE ? ORDER BY title COLLATE NOCASE`,
		"%"+artist+"%")
}

func (r *SongRepo) Create(ctx context.Context, s *song.Song) (*song.Song, error) {
	now := time.Now()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO songs (title, artist, album, genre, duration,
			audio_filename, audio_content_type, cover_filename, cover_content_type,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Title, s.Artist, s.Album, string(s.Genre), s.Duration,
		s.AudioFilename, s.AudioContentType, s.CoverFilename, s.CoverContentType,
		now.Unix(), now.Unix())
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inserted id")
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *SongRepo) Update(ctx context.Context, s *song.Song) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		UPDATE songs SET title = ?, artist = ?, album = ?, genre = ?, duration = ?,
			audio_filename = ?, audio_content_type = ?,
			cover_filename = ?, cover_content_type = ?, updated_at = ?
		WHERE id = ?`,
		s.Title, s.Artist, s.Album, string(s.Genre), s.Duration,
		s.AudioFilename, s.AudioContentType, s.CoverFilename, s.CoverContentType,
		now.Unix(), s.ID)
	if err != nil {
		return translate(err)
	}
	s.UpdatedAt = now
	return nil
}

func (r *SongRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	// Song removal also retires its playlist memberships.
	_, err = r.db.ExecContext(ctx, `DELETE FROM playlist_songs WHERE song_id = ?`, id)
	return err
}

// SaveBlob stores or replaces one asset blob of a song.
func (r *SongRepo) SaveBlob(ctx context.Context, songID int64, kind string, data []byte, contentType, filename string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO song_blobs (song_id, kind, data, content_type, filename)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (song_id, kind) DO UPDATE SET
			data = excluded.data,
			content_type = excluded.content_type,
			filename = excluded.filename`,
		songID, kind, data, contentType, filename)
	return translate(err)
}

// LoadBlob returns one asset blob, or a zero blob when nothing is stored.
func (r *SongRepo) LoadBlob(ctx context.Context, songID int64, kind string) ([]byte, string, string, error) {
	var data []byte
	var contentType, filename string
	err := r.db.QueryRowContext(ctx, `
		SELECT data, content_type, filename FROM song_blobs WHERE song_id = ? AND kind = ?`,
		songID, kind).Scan(&data, &contentType, &filename)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", nil
	}
	if err != nil {
		return nil, "", "", errors.Wrap(err, "failed to load blob")
	}
	return data, contentType, filename, nil
}

// DeleteBlobs drops all asset blobs of a song.
func (r *SongRepo) DeleteBlobs(ctx context.Context, songID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM song_blobs WHERE song_id = ?`, songID)
	return err
}
