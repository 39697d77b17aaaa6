// Package main provides an operator CLI working directly on the database.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
	"github.com/tunecrate/tunecrate/internal/infra/config"
	"github.com/tunecrate/tunecrate/internal/infra/logger"
	"github.com/tunecrate/tunecrate/internal/infra/store"
)

var (
	app        = kingpin.New("tunecrate-adminctl", "tunecrate operator tool")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()

	createUserCmd  = app.Command("create-user", "Create a user account")
	createUsername = createUserCmd.Arg("username", "Username").Required().String()
	createEmail    = createUserCmd.Arg("email", "Email address").Required().String()
	createPassword = createUserCmd.Arg("password", "Password").Required().String()
	createAdmin    = createUserCmd.Flag("admin", "Grant the ADMIN role").Bool()

	addSongCmd   = app.Command("add-song", "Add a song to the catalog")
	songTitle    = addSongCmd.Arg("title", "Song title").Required().String()
	songArtist   = addSongCmd.Arg("artist", "Artist name").Required().String()
	songAlbum    = addSongCmd.Flag("album", "Album name").String()
	songGenre    = addSongCmd.Flag("genre", "Genre").String()
	songDuration = addSongCmd.Flag("duration", "Duration in seconds").Int()
)

func main() {
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		zlog.Fatal().Msgf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	switch command {
	case createUserCmd.FullCommand():
		err = createUser(ctx, store.NewUserRepo(db))
	case addSongCmd.FullCommand():
		err = addSong(ctx, store.NewSongRepo(db))
	}
	if err != nil {
		zlog.Fatal().Msgf("Command failed: %v", err)
	}
}

func createUser(ctx context.Context, users *store.UserRepo) error {
	existing, err := users.GetByUsername(ctx, *createUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("user %q already exists", *createUsername)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*createPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	role := user.RoleUser
	if *createAdmin {
		role = user.RoleAdmin
	}
	created, err := users.Create(ctx, &user.User{
		Username:     *createUsername,
		Email:        *createEmail,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created user %s (id=%d, role=%s)\n", created.Username, created.ID, created.Role)
	return nil
}

func addSong(ctx context.Context, songs *store.SongRepo) error {
	s := song.Song{
		Title:    *songTitle,
		Artist:   *songArtist,
		Album:    *songAlbum,
		Duration: *songDuration,
	}
	if *songGenre != "" {
		genre, ok := song.ParseGenre(*songGenre)
		if !ok {
			return fmt.Errorf("unknown genre %q", *songGenre)
		}
		s.Genre = genre
	}

	created, err := songs.Create(ctx, &s)
	if err != nil {
		return err
	}

	fmt.Printf("Added song %q by %s (id=%d)\n", created.Title, created.Artist, created.ID)
	return nil
}
