package playlist

import "github.com/tunecrate/tunecrate/internal/app/catalog"

// View is the playlist DTO.
type View struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Username    string         `json:"username"`
	SongCount   int            `json:"songCount"`
	Songs       []catalog.View `json:"songs"`
}
