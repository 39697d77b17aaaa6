// Package playback owns the per-user playback session lifecycle.
package playback

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/playback"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// SessionStore persists playback sessions keyed by username with upsert
// semantics. Get returns (nil, nil) when the user has no session yet.
type SessionStore interface {
	GetByUser(ctx context.Context, username string) (*playback.Session, error)
	Save(ctx context.Context, s *playback.Session) error
}

// UserLookup resolves users by username. Returns (nil, nil) when absent.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// SongLookup resolves songs by id. Returns (nil, nil) when absent.
type SongLookup interface {
	GetByID(ctx context.Context, id int64) (*song.Song, error)
}

// Engine maintains exactly one playback session per user and serializes
// mutations of the same user's session. Distinct users never contend.
type Engine struct {
	sessions SessionStore
	users    UserLookup
	songs    SongLookup

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-user, lazily created, never removed
}

// NewEngine creates a playback engine over the given collaborators.
func NewEngine(sessions SessionStore, users UserLookup, songs SongLookup) *Engine {
	return &Engine{
		sessions: sessions,
		users:    users,
		songs:    songs,
		locks:    make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing operations for one user.
func (e *Engine) userLock(username string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[username]
	if !ok {
		l = &sync.Mutex{}
		e.locks[username] = l
	}
	return l
}

// Play starts playing the given song, creating the user's session on first
// use. The position is fully reset even when re-playing the same song.
func (e *Engine) Play(ctx context.Context, username string, songID int64) (View, error) {
	l := e.userLock(username)
	l.Lock()
	defer l.Unlock()

	if err := e.requireUser(ctx, username); err != nil {
		return View{}, err
	}

	sng, err := e.songs.GetByID(ctx, songID)
	if err != nil {
		return View{}, errors.Wrap(err, "song lookup failed")
	}
	if sng == nil {
		return View{}, apperr.NotFound("Song", "id", songID)
	}

	sess, err := e.sessions.GetByUser(ctx, username)
	if err != nil {
		return View{}, errors.Wrap(err, "session lookup failed")
	}
	if sess == nil {
		sess = playback.New(username)
	}

	sess.Play(songID)
	if err := e.sessions.Save(ctx, sess); err != nil {
		return View{}, errors.Wrap(err, "session save failed")
	}

	zlog.Debug().Str("user", username).Int64("song", songID).Msg("playback started")
	return e.view(ctx, sess), nil
}

// Pause pauses the user's session. Accepted from any state; pausing an
// already paused session succeeds with no change besides the timestamp.
func (e *Engine) Pause(ctx context.Context, username string) (View, error) {
	return e.mutate(ctx, username, func(s *playback.Session) { s.Pause() })
}

// Resume puts the user's session back into the playing state from any
// prior state, keeping the position.
func (e *Engine) Resume(ctx context.Context, username string) (View, error) {
	return e.mutate(ctx, username, func(s *playback.Session) { s.Resume() })
}

// Stop stops the session and rewinds the position to zero.
func (e *Engine) Stop(ctx context.Context, username string) (View, error) {
	return e.mutate(ctx, username, func(s *playback.Session) { s.Stop() })
}

// UpdatePosition stores the playhead position. The state is unchanged.
// Negative positions are rejected before any storage access.
func (e *Engine) UpdatePosition(ctx context.Context, username string, position int) (View, error) {
	if position < 0 {
		return View{}, apperr.Validation([]apperr.FieldError{{
			Field:         "position",
			RejectedValue: position,
			Message:       "position must be zero or positive",
		}})
	}
	return e.mutate(ctx, username, func(s *playback.Session) { s.Seek(position) })
}

// Current returns the user's playback state. A user with no session yet
// gets a default stopped view, never an error.
func (e *Engine) Current(ctx context.Context, username string) (View, error) {
	if err := e.requireUser(ctx, username); err != nil {
		return View{}, err
	}

	sess, err := e.sessions.GetByUser(ctx, username)
	if err != nil {
		return View{}, errors.Wrap(err, "session lookup failed")
	}
	if sess == nil {
		return View{State: playback.StateStopped, Position: 0}, nil
	}
	return e.view(ctx, sess), nil
}

// mutate runs the read-transition-persist cycle for one existing session
// under the user's lock, so concurrent requests from the same user cannot
// lose updates.
func (e *Engine) mutate(ctx context.Context, username string, apply func(*playback.Session)) (View, error) {
	l := e.userLock(username)
	l.Lock()
	defer l.Unlock()

	if err := e.requireUser(ctx, username); err != nil {
		return View{}, err
	}

	sess, err := e.sessions.GetByUser(ctx, username)
	if err != nil {
		return View{}, errors.Wrap(err, "session lookup failed")
	}
	if sess == nil {
		return View{}, apperr.NotFoundMsg("No active playback session found")
	}

	apply(sess)
	if err := e.sessions.Save(ctx, sess); err != nil {
		return View{}, errors.Wrap(err, "session save failed")
	}
	return e.view(ctx, sess), nil
}

func (e *Engine) requireUser(ctx context.Context, username string) error {
	u, err := e.users.GetByUsername(ctx, username)
	if err != nil {
		return errors.Wrap(err, "user lookup failed")
	}
	if u == nil {
		return apperr.NotFound("User", "username", username)
	}
	return nil
}

// view builds the DTO returned after every operation. It reflects the
// just-applied state; the song is resolved best-effort and omitted if it
// has disappeared from the catalog since.
func (e *Engine) view(ctx context.Context, sess *playback.Session) View {
	v := View{
		ID:          sess.ID,
		State:       sess.State,
		Position:    sess.Position,
		LastUpdated: sess.LastUpdated,
	}
	if sess.SongID == nil {
		return v
	}
	sng, err := e.songs.GetByID(ctx, *sess.SongID)
	if err != nil || sng == nil {
		zlog.Warn().Int64("song", *sess.SongID).Msg("current song missing from catalog")
		return v
	}
	sv := catalog.NewView(sng)
	v.CurrentSong = &sv
	return v
}
