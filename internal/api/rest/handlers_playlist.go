package rest

import (
	"net/http"

	"github.com/tunecrate/tunecrate/internal/app/playlist"
	"github.com/tunecrate/tunecrate/internal/apperr"
)

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request, p principal) {
	switch r.Method {
	case http.MethodGet:
		views, err := s.playlists.ListMine(r.Context(), p.Username)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	case http.MethodPost:
		var in playlist.CreateInput
		if err := decodeJSON(r, &in); err != nil {
			apperr.Write(w, r, err)
			return
		}
		view, err := s.playlists.Create(r.Context(), p.Username, in)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, view)
	default:
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
	}
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request, p principal) {
	id, err := pathID(r, "id")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		view, err := s.playlists.Get(r.Context(), p.Username, id)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		if err := s.playlists.Delete(r.Context(), p.Username, id); err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Playlist deleted successfully",
		})
	default:
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
	}
}

func (s *Server) handlePlaylistSong(w http.ResponseWriter, r *http.Request, p principal) {
	playlistID, err := pathID(r, "playlistId")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	songID, err := pathID(r, "songId")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodPost:
		view, err := s.playlists.AddSong(r.Context(), p.Username, playlistID, songID)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	case http.MethodDelete:
		view, err := s.playlists.RemoveSong(r.Context(), p.Username, playlistID, songID)
		if err != nil {
			apperr.Write(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	default:
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
	}
}
