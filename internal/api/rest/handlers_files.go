package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/apperr"
)

func (s *Server) handleAudioDownload(w http.ResponseWriter, r *http.Request, p principal) {
	s.serveAsset(w, r, s.assets.LoadAudio, "inline")
}

func (s *Server) handleCoverDownload(w http.ResponseWriter, r *http.Request, p principal) {
	s.serveAsset(w, r, s.assets.LoadCover, "inline")
}

// serveAsset streams one stored binary back to the client with its original
// content type and filename.
func (s *Server) serveAsset(
	w http.ResponseWriter,
	r *http.Request,
	load func(context.Context, int64) (assets.Asset, error),
	disposition string,
) {
	if r.Method != http.MethodGet {
		apperr.Write(w, r, apperr.MethodNotAllowed(r.Method))
		return
	}
	songID, err := pathID(r, "songId")
	if err != nil {
		apperr.Write(w, r, err)
		return
	}
	a, err := load(r.Context(), songID)
	if err != nil {
		apperr.Write(w, r, err)
		return
	}

	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	if a.Filename != "" {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("%s; filename=%q", disposition, a.Filename))
	}
	w.Header().Set("Content-Length", fmt.Sprint(len(a.Data)))
	_, _ = w.Write(a.Data)
}
