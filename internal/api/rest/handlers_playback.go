package rest

import (
	"net/http"

	"github.com/tunecrate/tunecrate/internal/apperr"
)

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	songID, err := pathID(r, "songId")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	view, err := s.engine.Play(r.Context(), p.Username, songID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	view, err := s.engine.Pause(r.Context(), p.Username)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	view, err := s.engine.Resume(r.Context(), p.Username)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	view, err := s.engine.Stop(r.Context(), p.Username)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type positionRequest struct {
	Position int `json:"position"`
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodPut {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	var in positionRequest
	if err := decodeJSON(r, &in); err != nil {
		apperr.Write(w, r, err)
		return
	}
	view, err := s.engine.UpdatePosition(r.Context(), p.Username, in.Position)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	view, err := s.engine.Current(r.Context(), p.Username)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
