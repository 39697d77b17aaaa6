// Package playlist provides the Playlist domain entity.
package playlist

import "time"

// Playlist represents a user-owned, ordered collection of songs.
type Playlist struct {
	ID          int64
	Name        string
	Description string
	Owner       string  // owning username
	SongIDs     []int64 // song ids in playlist order
	CreatedAt   time.Time
}

// Contains reports whether the playlist already holds the given song.
func (p *Playlist) Contains(songID int64) bool {
	for _, id := range p.SongIDs {
		if id == songID {
			return true
		}
	}
	return false
}

// Add appends a song unless it is already present. Returns true if added.
func (p *Playlist) Add(songID int64) bool {
	if p.Contains(songID) {
		return false
	}
	p.SongIDs = append(p.SongIDs, songID)
	return true
}

// Remove deletes a song from the playlist. Removing an absent song is a no-op.
func (p *Playlist) Remove(songID int64) {
	for i, id := range p.SongIDs {
		if id == songID {
			p.SongIDs = append(p.SongIDs[:i], p.SongIDs[i+1:]...)
			return
		}
	}
}

// SongCount returns the number of songs in the playlist.
func (p *Playlist) SongCount() int {
	return len(p.SongIDs)
}
