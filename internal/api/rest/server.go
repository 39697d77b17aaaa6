// Package rest exposes the application services as a JSON HTTP API. Every
// error leaving a handler funnels through the apperr envelope, so clients
// always see the same error shape.
package rest

import (
	"net/http"

	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/app/auth"
	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/app/playback"
	"github.com/tunecrate/tunecrate/internal/app/playlist"
	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/infra/token"
)

// Server wires the application services to HTTP routes.
type Server struct {
	auth      *auth.Service
	catalog   *catalog.Service
	playlists *playlist.Service
	engine    *playback.Engine
	assets    assets.Provider
	tokens    *token.Issuer
}

// NewServer creates the API server over the given services.
func NewServer(
	authSvc *auth.Service,
	catalogSvc *catalog.Service,
	playlistSvc *playlist.Service,
	engine *playback.Engine,
	provider assets.Provider,
	tokens *token.Issuer,
) *Server {
	return &Server{
		auth:      authSvc,
		catalog:   catalogSvc,
		playlists: playlistSvc,
		engine:    engine,
		assets:    provider,
		tokens:    tokens,
	}
}

// Handler builds the full route table. Method checks happen inside the
// handlers so an unsupported method yields the 405 envelope instead of the
// mux's default 404.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)
	mux.HandleFunc("/api/auth/profile", s.authed(s.handleProfile))

	mux.HandleFunc("/api/songs", s.authed(s.handleSongs))
	mux.HandleFunc("/api/songs/search", s.authed(s.handleSongSearch))
	mux.HandleFunc("/api/songs/artist", s.authed(s.handleSongsByArtist))
	mux.HandleFunc("/api/songs/genre/{genre}", s.authed(s.handleSongsByGenre))
	mux.HandleFunc("/api/songs/{id}", s.authed(s.handleSong))
	mux.HandleFunc("/api/songs/admin", s.authed(s.handleSongAdd))
	mux.HandleFunc("/api/songs/admin/{id}", s.authed(s.handleSongAdmin))
	mux.HandleFunc("/api/songs/admin/{id}/audio", s.authed(s.handleAudioUpload))
	mux.HandleFunc("/api/songs/admin/{id}/cover", s.authed(s.handleCoverUpload))

	mux.HandleFunc("/api/playlists", s.authed(s.handlePlaylists))
	mux.HandleFunc("/api/playlists/{id}", s.authed(s.handlePlaylist))
	mux.HandleFunc("/api/playlists/{playlistId}/songs/{songId}", s.authed(s.handlePlaylistSong))

	mux.HandleFunc("/api/playback/play/{songId}", s.authed(s.handlePlay))
	mux.HandleFunc("/api/playback/pause", s.authed(s.handlePause))
	mux.HandleFunc("/api/playback/resume", s.authed(s.handleResume))
	mux.HandleFunc("/api/playback/stop", s.authed(s.handleStop))
	mux.HandleFunc("/api/playback/position", s.authed(s.handlePosition))
	mux.HandleFunc("/api/playback/current", s.authed(s.handleCurrent))

	mux.HandleFunc("/api/files/audio/{songId}", s.authed(s.handleAudioDownload))
	mux.HandleFunc("/api/files/cover/{songId}", s.authed(s.handleCoverDownload))

	// Everything the route table does not know lands here.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, apperr.RouteNotFound(r.Method, r.URL.Path))
	})

	return withLogging(withRecovery(mux))
}
