// Package playlist provides the playlist operations. Every operation on an
// existing playlist resolves it first (NotFound) and only then checks
// ownership (Forbidden); the ordering keeps other users' playlist ids
// unguessable.
package playlist

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tunecrate/tunecrate/internal/app/authz"
	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/app/validate"
	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/playlist"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// Repository persists playlists. Lookups return (nil, nil) when absent.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*playlist.Playlist, error)
	ListByOwner(ctx context.Context, owner string) ([]*playlist.Playlist, error)
	Create(ctx context.Context, p *playlist.Playlist) (*playlist.Playlist, error)
	Update(ctx context.Context, p *playlist.Playlist) error
	Delete(ctx context.Context, id int64) error
	CountByOwner(ctx context.Context, owner string) (int, error)
}

// SongLookup resolves songs by id. Returns (nil, nil) when absent.
type SongLookup interface {
	GetByID(ctx context.Context, id int64) (*song.Song, error)
}

// UserLookup resolves users by username. Returns (nil, nil) when absent.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// Service implements the playlist operations.
type Service struct {
	playlists Repository
	songs     SongLookup
	users     UserLookup
}

// NewService creates a playlist service.
func NewService(playlists Repository, songs SongLookup, users UserLookup) *Service {
	return &Service{playlists: playlists, songs: songs, users: users}
}

// CreateInput carries a playlist creation request.
type CreateInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Create creates an empty playlist owned by the principal.
func (s *Service) Create(ctx context.Context, principal string, in CreateInput) (View, error) {
	if err := validate.Struct(in); err != nil {
		return View{}, err
	}

	u, err := s.users.GetByUsername(ctx, principal)
	if err != nil {
		return View{}, errors.Wrap(err, "user lookup failed")
	}
	if u == nil {
		return View{}, apperr.NotFound("User", "username", principal)
	}

	created, err := s.playlists.Create(ctx, &playlist.Playlist{
		Name:        in.Name,
		Description: in.Description,
		Owner:       u.Username,
	})
	if err != nil {
		return View{}, errors.Wrap(err, "playlist create failed")
	}

	zlog.Info().Str("user", principal).Int64("playlist", created.ID).Msg("playlist created")
	return s.view(ctx, created), nil
}

// ListMine returns the principal's playlists, newest first.
func (s *Service) ListMine(ctx context.Context, principal string) ([]View, error) {
	lists, err := s.playlists.ListByOwner(ctx, principal)
	if err != nil {
		return nil, errors.Wrap(err, "playlist list failed")
	}
	views := make([]View, len(lists))
	for i, p := range lists {
		views[i] = s.view(ctx, p)
	}
	return views, nil
}

// Get returns one playlist if it exists and the principal owns it.
func (s *Service) Get(ctx context.Context, principal string, id int64) (View, error) {
	p, err := s.requireOwned(ctx, principal, id, authz.ActionAccess)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, p), nil
}

// AddSong appends a song to an owned playlist. Adding a song that is
// already present leaves the playlist unchanged.
func (s *Service) AddSong(ctx context.Context, principal string, playlistID, songID int64) (View, error) {
	p, err := s.requireOwned(ctx, principal, playlistID, authz.ActionModify)
	if err != nil {
		return View{}, err
	}

	sng, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return View{}, errors.Wrap(err, "song lookup failed")
	}
	if sng == nil {
		return View{}, apperr.NotFound("Song", "id", songID)
	}

	if p.Add(songID) {
		if err := s.playlists.Update(ctx, p); err != nil {
			return View{}, errors.Wrap(err, "playlist update failed")
		}
	}
	return s.view(ctx, p), nil
}

// RemoveSong removes a song from an owned playlist.
func (s *Service) RemoveSong(ctx context.Context, principal string, playlistID, songID int64) (View, error) {
	p, err := s.requireOwned(ctx, principal, playlistID, authz.ActionModify)
	if err != nil {
		return View{}, err
	}

	sng, err := s.songs.GetByID(ctx, songID)
	if err != nil {
		return View{}, errors.Wrap(err, "song lookup failed")
	}
	if sng == nil {
		return View{}, apperr.NotFound("Song", "id", songID)
	}

	p.Remove(songID)
	if err := s.playlists.Update(ctx, p); err != nil {
		return View{}, errors.Wrap(err, "playlist update failed")
	}
	return s.view(ctx, p), nil
}

// Delete removes an owned playlist. The songs themselves are untouched.
func (s *Service) Delete(ctx context.Context, principal string, id int64) error {
	if _, err := s.requireOwned(ctx, principal, id, authz.ActionDelete); err != nil {
		return err
	}
	if err := s.playlists.Delete(ctx, id); err != nil {
		return errors.Wrap(err, "playlist delete failed")
	}

	zlog.Info().Str("user", principal).Int64("playlist", id).Msg("playlist deleted")
	return nil
}

// requireOwned resolves the playlist and then runs the ownership guard, in
// that order.
func (s *Service) requireOwned(ctx context.Context, principal string, id int64, action authz.Action) (*playlist.Playlist, error) {
	p, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "playlist lookup failed")
	}
	if p == nil {
		return nil, apperr.NotFound("Playlist", "id", id)
	}
	if err := authz.RequireOwner(principal, p.Owner, action, "playlist"); err != nil {
		return nil, err
	}
	return p, nil
}

// view resolves the playlist's songs best-effort; ids whose songs have been
// deleted from the catalog are skipped.
func (s *Service) view(ctx context.Context, p *playlist.Playlist) View {
	songs := make([]catalog.View, 0, len(p.SongIDs))
	for _, id := range p.SongIDs {
		sng, err := s.songs.GetByID(ctx, id)
		if err != nil || sng == nil {
			continue
		}
		songs = append(songs, catalog.NewView(sng))
	}
	return View{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Username:    p.Owner,
		SongCount:   len(songs),
		Songs:       songs,
	}
}
