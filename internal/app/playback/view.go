package playback

import (
	"time"

	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/domain/playback"
)

// View is the playback session DTO returned after every operation. A user
// with no session yet gets the default stopped view.
type View struct {
	ID          int64          `json:"id,omitempty"`
	State       playback.State `json:"state"`
	Position    int            `json:"currentPosition"`
	CurrentSong *catalog.View  `json:"currentSong,omitempty"`
	LastUpdated time.Time      `json:"lastUpdated,omitzero"`
}
