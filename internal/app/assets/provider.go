// Package assets stores and serves the binary audio and cover data attached
// to catalog entries. The storage backend is pluggable and chosen from
// configuration.
package assets

import (
	"context"

	"github.com/tunecrate/tunecrate/internal/apperr"
)

// Asset is one stored binary with the metadata needed to serve it.
type Asset struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Provider is the storage backend for song assets. Load returns NotFound
// when no asset has been uploaded for the song.
type Provider interface {
	SaveAudio(ctx context.Context, songID int64, a Asset) error
	LoadAudio(ctx context.Context, songID int64) (Asset, error)
	SaveCover(ctx context.Context, songID int64, a Asset) error
	LoadCover(ctx context.Context, songID int64) (Asset, error)
	// Remove drops all assets of a song. Removing a song without assets
	// is a no-op.
	Remove(ctx context.Context, songID int64) error
}

func notFound(kind string, songID int64) error {
	return apperr.NotFound(kind, "songId", songID)
}
