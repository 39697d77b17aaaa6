// Package playback provides the per-user playback session entity and its
// state machine.
package playback

import "time"

// State represents the playback state.
type State string

const (
	StateStopped State = "STOPPED"
	StatePlaying State = "PLAYING"
	StatePaused  State = "PAUSED"
)

// Session is the single persisted playback state record for one user.
// At most one session exists per user; it is created lazily on the first
// play and never deleted.
//
// Invariants: StateStopped implies Position == 0, and a session without a
// current song is always StateStopped.
type Session struct {
	ID          int64
	Username    string // owning user, unique
	SongID      *int64 // current song, nil until the first play
	State       State
	Position    int // seconds, never negative
	LastUpdated time.Time
}

// New returns a fresh session for the user in the initial stopped state.
func New(username string) *Session {
	return &Session{Username: username, State: StateStopped}
}

// Play switches to the given song and starts playing from the beginning.
// Position is fully reset even when re-playing the current song.
func (s *Session) Play(songID int64) {
	s.SongID = &songID
	s.State = StatePlaying
	s.Position = 0
	s.touch()
}

// Pause marks the session paused. The transition is accepted from any state
// and the position is left untouched; pausing an already paused session
// only refreshes the timestamp.
func (s *Session) Pause() {
	s.State = StatePaused
	s.touch()
}

// Resume marks the session playing. Accepted from any state; the position
// is left untouched.
func (s *Session) Resume() {
	s.State = StatePlaying
	s.touch()
}

// Stop marks the session stopped and rewinds the position to zero. The
// current song reference is kept.
func (s *Session) Stop() {
	s.State = StateStopped
	s.Position = 0
	s.touch()
}

// Seek moves the position. Callers validate non-negativity before calling.
func (s *Session) Seek(position int) {
	s.Position = position
	s.touch()
}

func (s *Session) touch() {
	s.LastUpdated = time.Now()
}
