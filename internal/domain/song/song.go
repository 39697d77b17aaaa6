// Package song provides the Song domain entity.
package song

import (
	"strings"
	"time"
)

// Genre classifies a song in the catalog.
type Genre string

const (
	GenrePop         Genre = "POP"
	GenreRock        Genre = "ROCK"
	GenreJazz        Genre = "JAZZ"
	GenreClassical   Genre = "CLASSICAL"
	GenreHipHop      Genre = "HIP_HOP"
	GenreElectronic  Genre = "ELECTRONIC"
	GenreCountry     Genre = "COUNTRY"
	GenreRAndB       Genre = "R_AND_B"
	GenreReggae      Genre = "REGGAE"
	GenreBlues       Genre = "BLUES"
	GenreFolk        Genre = "FOLK"
	GenreMetal       Genre = "METAL"
	GenrePunk        Genre = "PUNK"
	GenreAlternative Genre = "ALTERNATIVE"
	GenreIndie       Genre = "INDIE"
	GenreWorld       Genre = "WORLD"
	GenreOther       Genre = "OTHER"
)

var genres = map[Genre]bool{
	GenrePop: true, GenreRock: true, GenreJazz: true, GenreClassical: true,
	GenreHipHop: true, GenreElectronic: true, GenreCountry: true, GenreRAndB: true,
	GenreReggae: true, GenreBlues: true, GenreFolk: true, GenreMetal: true,
	GenrePunk: true, GenreAlternative: true, GenreIndie: true, GenreWorld: true,
	GenreOther: true,
}

// ParseGenre parses a genre name case-insensitively.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.ToUpper(s))
	return g, genres[g]
}

// Song represents a catalog entry. Audio and cover bytes are stored
// separately by the asset store; the entity carries only their metadata.
type Song struct {
	ID       int64
	Title    string
	Artist   string
	Album    string
	Genre    Genre
	Duration int // seconds

	AudioFilename    string
	AudioContentType string // e.g. "audio/mpeg"
	CoverFilename    string
	CoverContentType string // e.g. "image/jpeg"

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAudio reports whether audio has been uploaded for the song.
func (s *Song) HasAudio() bool {
	return s.AudioFilename != ""
}

// HasCover reports whether a cover image has been uploaded for the song.
func (s *Song) HasCover() bool {
	return s.CoverFilename != ""
}
