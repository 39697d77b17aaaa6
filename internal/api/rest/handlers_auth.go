package rest

import (
	"net/http"

	"github.com/tunecrate/tunecrate/internal/app/auth"
	"github.com/tunecrate/tunecrate/internal/apperr"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	var in auth.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		apperr.Write(w, r, err)
		return
	}
	if err := s.auth.Register(r.Context(), in); err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User registered successfully!",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	var in loginRequest
	if err := decodeJSON(r, &in); err != nil {
		apperr.Write(w, r, err)
		return
	}
	res, err := s.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request, p principal) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	profile, err := s.auth.Profile(r.Context(), p.Username)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
