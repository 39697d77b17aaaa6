package assets

import (
	"context"

	"github.com/cockroachdb/errors"
)

// BlobRepository persists asset bytes in the database alongside the song
// rows. Loads return a zero blob when nothing was uploaded.
type BlobRepository interface {
	SaveBlob(ctx context.Context, songID int64, kind string, data []byte, contentType, filename string) error
	LoadBlob(ctx context.Context, songID int64, kind string) (data []byte, contentType, filename string, err error)
	DeleteBlobs(ctx context.Context, songID int64) error
}

// Blob kinds used by the db provider.
const (
	BlobAudio = "audio"
	BlobCover = "cover"
)

// DBProvider keeps assets as BLOB columns next to the catalog, the default
// for single-node deployments.
type DBProvider struct {
	blobs BlobRepository
}

// NewDBProvider creates a database-backed asset provider.
func NewDBProvider(blobs BlobRepository) *DBProvider {
	return &DBProvider{blobs: blobs}
}

func (p *DBProvider) SaveAudio(ctx context.Context, songID int64, a Asset) error {
	return p.save(ctx, songID, BlobAudio, a)
}

func (p *DBProvider) LoadAudio(ctx context.Context, songID int64) (Asset, error) {
	return p.load(ctx, songID, BlobAudio, "Audio")
}

func (p *DBProvider) SaveCover(ctx context.Context, songID int64, a Asset) error {
	return p.save(ctx, songID, BlobCover, a)
}

func (p *DBProvider) LoadCover(ctx context.Context, songID int64) (Asset, error) {
	return p.load(ctx, songID, BlobCover, "Cover")
}

func (p *DBProvider) Remove(ctx context.Context, songID int64) error {
	if err := p.blobs.DeleteBlobs(ctx, songID); err != nil {
		return errors.Wrap(err, "failed to delete blobs")
	}
	return nil
}

func (p *DBProvider) save(ctx context.Context, songID int64, kind string, a Asset) error {
	if err := p.blobs.SaveBlob(ctx, songID, kind, a.Data, a.ContentType, a.Filename); err != nil {
		return errors.Wrapf(err, "failed to save %s blob", kind)
	}
	return nil
}

func (p *DBProvider) load(ctx context.Context, songID int64, kind, label string) (Asset, error) {
	data, contentType, filename, err := p.blobs.LoadBlob(ctx, songID, kind)
	if err != nil {
		return Asset{}, errors.Wrapf(err, "failed to load %s blob", kind)
	}
	if len(data) == 0 {
		return Asset{}, notFound(label, songID)
	}
	return Asset{Data: data, ContentType: contentType, Filename: filename}, nil
}
