package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// FSProvider stores assets as files under a root directory, one
// subdirectory per asset kind, plus a JSON sidecar carrying the metadata.
type FSProvider struct {
	root string
}

// NewFSProvider creates a filesystem-backed asset provider rooted at root.
func NewFSProvider(root string) (*FSProvider, error) {
	for _, kind := range []string{BlobAudio, BlobCover} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create asset directory")
		}
	}
	return &FSProvider{root: root}, nil
}

type sidecar struct {
	ContentType string `json:"contentType"`
	Filename    string `json:"filename"`
}

func (p *FSProvider) SaveAudio(ctx context.Context, songID int64, a Asset) error {
	return p.save(songID, BlobAudio, a)
}

func (p *FSProvider) LoadAudio(ctx context.Context, songID int64) (Asset, error) {
	return p.load(songID, BlobAudio, "Audio")
}

func (p *FSProvider) SaveCover(ctx context.Context, songID int64, a Asset) error {
	return p.save(songID, BlobCover, a)
}

func (p *FSProvider) LoadCover(ctx context.Context, songID int64) (Asset, error) {
	return p.load(songID, BlobCover, "Cover")
}

func (p *FSProvider) Remove(ctx context.Context, songID int64) error {
	for _, kind := range []string{BlobAudio, BlobCover} {
		for _, path := range []string{p.dataPath(songID, kind), p.metaPath(songID, kind)} {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, "failed to remove asset file")
			}
		}
	}
	return nil
}

// save writes data and sidecar through temp files so readers never observe
// a partial asset.
func (p *FSProvider) save(songID int64, kind string, a Asset) error {
	meta, err := json.Marshal(sidecar{ContentType: a.ContentType, Filename: a.Filename})
	if err != nil {
		return errors.Wrap(err, "failed to marshal sidecar")
	}
	if err := writeAtomic(p.dataPath(songID, kind), a.Data); err != nil {
		return err
	}
	return writeAtomic(p.metaPath(songID, kind), meta)
}

func (p *FSProvider) load(songID int64, kind, label string) (Asset, error) {
	data, err := os.ReadFile(p.dataPath(songID, kind))
	if os.IsNotExist(err) {
		return Asset{}, notFound(label, songID)
	}
	if err != nil {
		return Asset{}, errors.Wrap(err, "failed to read asset file")
	}

	var meta sidecar
	raw, err := os.ReadFile(p.metaPath(songID, kind))
	if err == nil {
		_ = json.Unmarshal(raw, &meta)
	}
	return Asset{Data: data, ContentType: meta.ContentType, Filename: meta.Filename}, nil
}

func (p *FSProvider) dataPath(songID int64, kind string) string {
	return filepath.Join(p.root, kind, fmt.Sprintf("%d.bin", songID))
}

func (p *FSProvider) metaPath(songID int64, kind string) string {
	return filepath.Join(p.root, kind, fmt.Sprintf("%d.json", songID))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write asset file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to finalize asset file")
	}
	return nil
}
