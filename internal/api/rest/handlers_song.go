package rest

import (
	"context"
	"net/http"

	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// uploadFunc is the shared shape of the catalog's asset upload operations.
type uploadFunc func(ctx context.Context, role user.Role, id int64, a assets.Asset) (catalog.View, error)

func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	views, err := s.catalog.List(r.Context())
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSong(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	view, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSongSearch(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	views, err := s.catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSongsByGenre(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	views, err := s.catalog.ByGenre(r.Context(), r.PathValue("genre"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSongsByArtist(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	views, err := s.catalog.ByArtist(r.Context(), r.URL.Query().Get("artist"))
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSongAdd(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	var in catalog.Input
	if err := decodeJSON(r, &in); err != nil {
		apperr.Write(w, r, err)
		return
	}
	view, err := s.catalog.Add(r.Context(), p.Role, in)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleSongAdmin(w http.ResponseWriter, r *http.Request, p principal) {
	id, err := pathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var in catalog.Input
		if err := decodeJSON(r, &in); err != nil {
			apperr.Write(w, r, err)
			return
		}
		view, err := s.catalog.Update(r.Context(), p.Role, id, in)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		if err := s.catalog.Delete(r.Context(), p.Role, id); err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Song deleted successfully",
		})
	default:
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
	}
}

func (s *Server) handleAudioUpload(w http.ResponseWriter, r *http.Request, p principal) {
	s.upload(w, r, p, s.catalog.UploadAudio)
}

func (s *Server) handleCoverUpload(w http.ResponseWriter, r *http.Request, p principal) {
	s.upload(w, r, p, s.catalog.UploadCover)
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, p principal, save uploadFunc) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	a, err := formAsset(r)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	view, err := save(r.Context(), p.Role, id, a)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
