// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tunecrate/tunecrate/internal/api/rest"
	"github.com/tunecrate/tunecrate/internal/app/assets"
	"github.com/tunecrate/tunecrate/internal/app/auth"
	"github.com/tunecrate/tunecrate/internal/app/catalog"
	"github.com/tunecrate/tunecrate/internal/app/playback"
	"github.com/tunecrate/tunecrate/internal/app/playlist"
	"github.com/tunecrate/tunecrate/internal/infra/config"
	"github.com/tunecrate/tunecrate/internal/infra/logger"
	"github.com/tunecrate/tunecrate/internal/infra/store"
	"github.com/tunecrate/tunecrate/internal/infra/token"
)

var (
	app        = kingpin.New("tunecrate-server", "tunecrate music streaming server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	migrateCmd = app.Command("migrate", "Apply the database schema and exit")
)

func init() {
	app.Command("start", "Start the server (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	if command == migrateCmd.FullCommand() {
		if err := migrate(cfg); err != nil {
			zlog.Fatal().Msgf("Migration failed: %v", err)
		}
		zlog.Info().Msg("Schema up to date")
		return
	}

	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// migrate opens the database, which applies the schema as a side effect.
func migrate(cfg *config.Config) error {
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	return db.Close()
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	users := store.NewUserRepo(db)
	songs := store.NewSongRepo(db)
	playlists := store.NewPlaylistRepo(db)
	sessions := store.NewPlaybackRepo(db)

	provider, err := assets.NewProviderFromConfig(cfg.Assets.Provider, cfg.Assets.Settings, songs)
	if err != nil {
		return fmt.Errorf("failed to create asset provider: %w", err)
	}

	tokens := token.NewIssuer(cfg.Auth.JWTSecret, cfg.TokenTTL())

	authSvc := auth.NewService(users, playlists, tokens)
	catalogSvc := catalog.NewService(songs, provider)
	playlistSvc := playlist.NewService(playlists, songs, users)
	engine := playback.NewEngine(sessions, users, songs)

	api := rest.NewServer(authSvc, catalogSvc, playlistSvc, engine, provider, tokens)

	// h2c keeps HTTP/2 available without TLS termination in front.
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: h2c.NewHandler(api.Handler(), &http2.Server{}),
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
