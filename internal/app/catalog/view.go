package catalog

import "github.com/tunecrate/tunecrate/internal/domain/song"

// View is the catalog entry DTO shared by song, playlist and playback
// responses.
type View struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Artist   string     `json:"artist"`
	Album    string     `json:"album,omitempty"`
	Genre    song.Genre `json:"genre,omitempty"`
	Duration int        `json:"duration"`
	HasAudio bool       `json:"hasAudioData"`
	HasCover bool       `json:"hasCoverImage"`
}

// NewView converts a catalog entity to its response shape.
func NewView(s *song.Song) View {
	return View{
		ID:       s.ID,
		Title:    s.Title,
		Artist:   s.Artist,
		Album:    s.Album,
		Genre:    s.Genre,
		Duration: s.Duration,
		HasAudio: s.HasAudio(),
		HasCover: s.HasCover(),
	}
}

// NewViews converts a slice of entities, preserving order.
func NewViews(songs []*song.Song) []View {
	views := make([]View, len(songs))
	for i, s := range songs {
		views[i] = NewView(s)
	}
	return views
}
