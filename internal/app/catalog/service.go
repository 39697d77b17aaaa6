// Package catalog provides the song catalog operations. Browsing is open to
// every authenticated user; mutations require the admin role.
package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/app/authz"
	"github.com/tunecrate/tunecrate/internal/app/validate"
	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// Repository persists catalog entries. Lookups return (nil, nil) when the
// song does not exist.
type Repository interface {
	List(ctx context.Context) ([]*song.Song, error)
	GetByID(ctx context.Context, id int64) (*song.Song, error)
	Search(ctx context.Context, term string) ([]*song.Song, error)
	ByGenre(ctx context.Context, genre song.Genre) ([]*song.Song, error)
	ByArtist(ctx context.Context, artist string) ([]*song.Song, error)
	Create(ctx context.Context, s *song.Song) (*song.Song, error)
	Update(ctx context.Context, s *song.Song) error
	Delete(ctx context.Context, id int64) error
}

// Service implements the catalog operations.
type Service struct {
	songs  Repository
	assets assets.Provider
}

// NewService creates a catalog service.
func NewService(songs Repository, store assets.Provider) *Service {
	return &Service{songs: songs, assets: store}
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]View, error) {
	songs, err := s.songs.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "song list failed")
	}
	return NewViews(songs), nil
}

// Get returns one song by id.
func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	sng, err := s.requireSong(ctx, id)
	if err != nil {
		return View{}, err
	}
	return NewView(sng), nil
}

// Search returns songs whose title, artist or album match the term.
func (s *Service) Search(ctx context.Context, term string) ([]View, error) {
	if term == "" {
		return nil, apperr.MissingParameter("q")
	}
	songs, err := s.songs.Search(ctx, term)
	if err != nil {
		return nil, errors.Wrap(err, "song search failed")
	}
	return NewViews(songs), nil
}

// ByGenre returns songs of one genre. Unknown genre names are a type
// mismatch, matching path-variable conversion semantics.
func (s *Service) ByGenre(ctx context.Context, genreName string) ([]View, error) {
	genre, ok := song.ParseGenre(genreName)
	if !ok {
		return nil, apperr.TypeMismatch("genre", "Genre")
	}
	songs, err := s.songs.ByGenre(ctx, genre)
	if err != nil {
		return nil, errors.Wrap(err, "song genre query failed")
	}
	return NewViews(songs), nil
}

// ByArtist returns songs whose artist contains the given term.
func (s *Service) ByArtist(ctx context.Context, artist string) ([]View, error) {
	if artist == "" {
		return nil, apperr.MissingParameter("artist")
	}
	songs, err := s.songs.ByArtist(ctx, artist)
	if err != nil {
		return nil, errors.Wrap(err, "song artist query failed")
	}
	return NewViews(songs), nil
}

// Input carries a song create/update request.
type Input struct {
	Title    string `json:"title" validate:"required"`
	Artist   string `json:"artist" validate:"required"`
	Album    string `json:"album"`
	Genre    string `json:"genre"`
	Duration int    `json:"duration" validate:"gte=0"`
}

func (in Input) apply(sng *song.Song) error {
	if in.Genre != "" {
		genre, ok := song.ParseGenre(in.Genre)
		if !ok {
			return apperr.TypeMismatch("genre", "Genre")
		}
		sng.Genre = genre
	}
	sng.Title = in.Title
	sng.Artist = in.Artist
	sng.Album = in.Album
	sng.Duration = in.Duration
	return nil
}

// Add creates a catalog entry. Admin only; the role guard runs before any
// lookup since it needs none.
func (s *Service) Add(ctx context.Context, role user.Role, in Input) (View, error) {
	if err := authz.RequireRole(role, user.RoleAdmin); err != nil {
		return View{}, err
	}
	if err := validate.Struct(in); err != nil {
		return View{}, err
	}

	var sng song.Song
	if err := in.apply(&sng); err != nil {
		return View{}, err
	}
	created, err := s.songs.Create(ctx, &sng)
	if err != nil {
		return View{}, errors.Wrap(err, "song create failed")
	}

	zlog.Info().Int64("song", created.ID).Str("title", created.Title).Msg("song added")
	return NewView(created), nil
}

// Update rewrites a catalog entry. Admin only.
func (s *Service) Update(ctx context.Context, role user.Role, id int64, in Input) (View, error) {
	if err := authz.RequireRole(role, user.RoleAdmin); err != nil {
		return View{}, err
	}
	if err := validate.Struct(in); err != nil {
		return View{}, err
	}

	sng, err := s.requireSong(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := in.apply(sng); err != nil {
		return View{}, err
	}
	if err := s.songs.Update(ctx, sng); err != nil {
		return View{}, errors.Wrap(err, "song update failed")
	}
	return NewView(sng), nil
}

// Delete removes a catalog entry and its stored assets. Admin only.
func (s *Service) Delete(ctx context.Context, role user.Role, id int64) error {
	if err := authz.RequireRole(role, user.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.requireSong(ctx, id); err != nil {
		return err
	}
	if err := s.assets.Remove(ctx, id); err != nil {
		return errors.Wrap(err, "asset remove failed")
	}
	if err := s.songs.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "song delete failed")
	}

	zlog.Info().Int64("song", id).Msg("song deleted")
	return nil
}

// UploadAudio attaches audio bytes to a song. Admin only.
func (s *Service) UploadAudio(ctx context.Context, role user.Role, id int64, a assets.Asset) (View, error) {
	return s.upload(ctx, role, id, a, s.assets.SaveAudio, func(sng *song.Song) {
		sng.AudioFilename = a.Filename
		sng.AudioContentType = a.ContentType
	})
}

// UploadCover attaches a cover image to a song. Admin only.
func (s *Service) UploadCover(ctx context.Context, role user.Role, id int64, a assets.Asset) (View, error) {
	return s.upload(ctx, role, id, a, s.assets.SaveCover, func(sng *song.Song) {
		sng.CoverFilename = a.Filename
		sng.CoverContentType = a.ContentType
	})
}

func (s *Service) upload(
	ctx context.Context,
	role user.Role,
	id int64,
	a assets.Asset,
	save func(context.Context, int64, assets.Asset) error,
	stamp func(*song.Song),
) (View, error) {
	if err := authz.RequireRole(role, user.RoleAdmin); err != nil {
		return View{}, err
	}
	if len(a.Data) == 0 {
		return View{}, apperr.MissingParameter("file")
	}

	sng, err := s.requireSong(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := save(ctx, id, a); err != nil {
		return View{}, errors.Wrap(err, "asset save failed")
	}
	stamp(sng)
	if err := s.songs.Update(ctx, sng); err != nil {
		return View{}, errors.Wrap(err, "song update failed")
	}
	return NewView(sng), nil
}

func (s *Service) requireSong(ctx context.Context, id int64) (*song.Song, error) {
	sng, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "song lookup failed")
	}
	if sng == nil {
		return nil, apperr.NotFound("Song", "id", id)
	}
	return sng, nil
}
