// Package memory provides in-memory repository implementations backing
// the service-layer test suites.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tunecrate/tunecrate/internal/domain/playback"
	"github.com/tunecrate/tunecrate/internal/domain/playlist"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// Store keeps everything in maps guarded by a single mutex. Entities are
// copied on the way in and out so callers cannot alias internal state.
type Store struct {
	mu sync.Mutex

	users     map[string]*user.User          // by username
	songs     map[int64]*song.Song           // by id
	playlists map[int64]*playlist.Playlist   // by id
	sessions  map[string]*playback.Session   // by username
	blobs     map[int64]map[string]blobEntry // by song id, kind

	nextUserID     int64
	nextSongID     int64
	nextPlaylistID int64
	nextSessionID  int64
}

type blobEntry struct {
	data        []byte
	contentType string
	filename    string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*user.User),
		songs:     make(map[int64]*song.Song),
		playlists: make(map[int64]*playlist.Playlist),
		sessions:  make(map[string]*playback.Session),
		blobs:     make(map[int64]map[string]blobEntry),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Songs returns the song repository view of the store.
func (s *Store) Songs() *SongRepo { return &SongRepo{s: s} }

// Playlists returns the playlist repository view of the store.
func (s *Store) Playlists() *PlaylistRepo { return &PlaylistRepo{s: s} }

// Sessions returns the playback session repository view of the store.
func (s *Store) Sessions() *PlaybackRepo { return &PlaybackRepo{s: s} }

// UserRepo implements the auth service's user repository.
type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[username]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextUserID++
	clone := *u
	clone.ID = r.s.nextUserID
	clone.CreatedAt = time.Now()
	r.s.users[clone.Username] = &clone
	out := clone
	return &out, nil
}

// SongRepo implements the catalog repository and the blob repository.
type SongRepo struct {
	s *Store
}

func (r *SongRepo) List(ctx context.Context) ([]*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(*song.Song) bool { return true }), nil
}

func (r *SongRepo) GetByID(ctx context.Context, id int64) (*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sng, ok := r.s.songs[id]
	if !ok {
		return nil, nil
	}
	clone := *sng
	return &clone, nil
}

func (r *SongRepo) Search(ctx context.Context, term string) ([]*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := strings.ToLower(term)
	return r.collect(func(sng *song.Song) bool {
		return strings.Contains(strings.ToLower(sng.Title), t) ||
			strings.Contains(strings.ToLower(sng.Artist), t) ||
			strings.Contains(strings.ToLower(sng.Album), t)
	}), nil
}

func (r *SongRepo) ByGenre(ctx context.Context, genre song.Genre) ([]*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.collect(func(sng *song.Song) bool { return sng.Genre == genre }), nil
}

func (r *SongRepo) ByArtist(ctx context.Context, artist string) ([]*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t := strings.ToLower(artist)
	return r.collect(func(sng *song.Song) bool {
		return strings.Contains(strings.ToLower(sng.Artist), t)
	}), nil
}

func (r *SongRepo) Create(ctx context.Context, sng *song.Song) (*song.Song, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextSongID++
	now := time.Now()
	clone := *sng
	clone.ID = r.s.nextSongID
	clone.CreatedAt = now
	clone.UpdatedAt = now
	r.s.songs[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *SongRepo) Update(ctx context.Context, sng *song.Song) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *sng
	clone.UpdatedAt = time.Now()
	r.s.songs[clone.ID] = &clone
	return nil
}

func (r *SongRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.songs, id)
	for _, p := range r.s.playlists {
		p.Remove(id)
	}
	return nil
}

func (r *SongRepo) SaveBlob(ctx context.Context, songID int64, kind string, data []byte, contentType, filename string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.blobs[songID] == nil {
		r.s.blobs[songID] = make(map[string]blobEntry)
	}
	r.s.blobs[songID][kind] = blobEntry{data: data, contentType: contentType, filename: filename}
	return nil
}

func (r *SongRepo) LoadBlob(ctx context.Context, songID int64, kind string) ([]byte, string, string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.blobs[songID][kind]
	if !ok {
		return nil, "", "", nil
	}
	return b.data, b.contentType, b.filename, nil
}

func (r *SongRepo) DeleteBlobs(ctx context.Context, songID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.blobs, songID)
	return nil
}

func (r *SongRepo) collect(keep func(*song.Song) bool) []*song.Song {
	var out []*song.Song
	for _, sng := range r.s.songs {
		if keep(sng) {
			clone := *sng
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PlaylistRepo implements the playlist repository.
type PlaylistRepo struct {
	s *Store
}

func (r *PlaylistRepo) GetByID(ctx context.Context, id int64) (*playlist.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.playlists[id]
	if !ok {
		return nil, nil
	}
	return clonePlaylist(p), nil
}

func (r *PlaylistRepo) ListByOwner(ctx context.Context, owner string) ([]*playlist.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*playlist.Playlist
	for _, p := range r.s.playlists {
		if p.Owner == owner {
			out = append(out, clonePlaylist(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *PlaylistRepo) Create(ctx context.Context, p *playlist.Playlist) (*playlist.Playlist, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextPlaylistID++
	clone := clonePlaylist(p)
	clone.ID = r.s.nextPlaylistID
	clone.CreatedAt = time.Now()
	r.s.playlists[clone.ID] = clone
	return clonePlaylist(clone), nil
}

func (r *PlaylistRepo) Update(ctx context.Context, p *playlist.Playlist) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.playlists[p.ID] = clonePlaylist(p)
	return nil
}

func (r *PlaylistRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.playlists, id)
	return nil
}

func (r *PlaylistRepo) CountByOwner(ctx context.Context, owner string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, p := range r.s.playlists {
		if p.Owner == owner {
			count++
		}
	}
	return count, nil
}

func clonePlaylist(p *playlist.Playlist) *playlist.Playlist {
	clone := *p
	clone.SongIDs = append([]int64(nil), p.SongIDs...)
	return &clone
}

// PlaybackRepo implements the playback session store.
type PlaybackRepo struct {
	s *Store
}

func (r *PlaybackRepo) GetByUser(ctx context.Context, username string) (*playback.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[username]
	if !ok {
		return nil, nil
	}
	return cloneSession(sess), nil
}

func (r *PlaybackRepo) Save(ctx context.Context, sess *playback.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.sessions[sess.Username]; ok {
		sess.ID = existing.ID
	} else {
		r.s.nextSessionID++
		sess.ID = r.s.nextSessionID
	}
	r.s.sessions[sess.Username] = cloneSession(sess)
	return nil
}

func cloneSession(sess *playback.Session) *playback.Session {
	clone := *sess
	if sess.SongID != nil {
		id := *sess.SongID
		clone.SongID = &id
	}
	return &clone
}
