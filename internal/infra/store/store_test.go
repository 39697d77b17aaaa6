package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/playback"
	"github.com/tunecrate/tunecrate/internal/domain/playlist"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &user.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		Role:         user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, user.RoleAdmin, got.Role)
	assert.False(t, got.CreatedAt.IsZero())

	got, err = repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)

	t.Run("absent user is nil, nil", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		_, err := repo.Create(ctx, &user.User{
			Username: "alice", Email: "other@example.com", PasswordHash: "h",
		})
		var appErr *apperr.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, apperr.KindConflict, appErr.Kind)
		assert.Equal(t, "DATA_INTEGRITY_VIOLATION", appErr.Code)
	})
}

func TestSongRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewSongRepo(db)
	ctx := context.Background()

	blue, err := repo.Create(ctx, &song.Song{
		Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue",
		Genre: song.GenreJazz, Duration: 337,
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &song.Song{
		Title: "Blue Monday", Artist: "New Order", Genre: song.GenreElectronic,
	})
	require.NoError(t, err)

	t.Run("list is title-ordered", func(t *testing.T) {
		songs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		assert.Equal(t, "Blue in Green", songs[0].Title)
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, blue.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 337, got.Duration)

		missing, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("search matches title artist album", func(t *testing.T) {
		songs, err := repo.Search(ctx, "blue")
		require.NoError(t, err)
		assert.Len(t, songs, 2)

		songs, err = repo.Search(ctx, "order")
		require.NoError(t, err)
		assert.Len(t, songs, 1)
	})

	t.Run("by genre and artist", func(t *testing.T) {
		songs, err := repo.ByGenre(ctx, song.GenreJazz)
		require.NoError(t, err)
		assert.Len(t, songs, 1)

		songs, err = repo.ByArtist(ctx, "miles")
		require.NoError(t, err)
		assert.Len(t, songs, 1)
	})

	t.Run("update", func(t *testing.T) {
		blue.Album = "Kind of Blue (Legacy Edition)"
		require.NoError(t, repo.Update(ctx, blue))

		got, err := repo.GetByID(ctx, blue.ID)
		require.NoError(t, err)
		assert.Equal(t, "Kind of Blue (Legacy Edition)", got.Album)
	})

	t.Run("blobs", func(t *testing.T) {
		require.NoError(t, repo.SaveBlob(ctx, blue.ID, "audio", []byte("bytes"), "audio/mpeg", "b.mp3"))

		data, ct, name, err := repo.LoadBlob(ctx, blue.ID, "audio")
		require.NoError(t, err)
		assert.Equal(t, []byte("bytes"), data)
		assert.Equal(t, "audio/mpeg", ct)
		assert.Equal(t, "b.mp3", name)

		// Upsert replaces in place.
		require.NoError(t, repo.SaveBlob(ctx, blue.ID, "audio", []byte("v2"), "audio/mpeg", "c.mp3"))
		data, _, name, err = repo.LoadBlob(ctx, blue.ID, "audio")
		require.NoError(t, err)
		assert.Equal(t, []byte("v2"), data)
		assert.Equal(t, "c.mp3", name)

		require.NoError(t, repo.DeleteBlobs(ctx, blue.ID))
		data, _, _, err = repo.LoadBlob(ctx, blue.ID, "audio")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, blue.ID))
		got, err := repo.GetByID(ctx, blue.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPlaylistRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaylistRepo(db)
	songs := NewSongRepo(db)
	ctx := context.Background()

	var songIDs []int64
	for _, title := range []string{"One", "Two", "Three"} {
		s, err := songs.Create(ctx, &song.Song{Title: title, Artist: "Band"})
		require.NoError(t, err)
		songIDs = append(songIDs, s.ID)
	}

	created, err := repo.Create(ctx, &playlist.Playlist{
		Name: "Mix", Description: "test", Owner: "carol",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	t.Run("membership order survives a rewrite", func(t *testing.T) {
		created.SongIDs = []int64{songIDs[2], songIDs[0], songIDs[1]}
		require.NoError(t, repo.Update(ctx, created))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, []int64{songIDs[2], songIDs[0], songIDs[1]}, got.SongIDs)
	})

	t.Run("list by owner", func(t *testing.T) {
		lists, err := repo.ListByOwner(ctx, "carol")
		require.NoError(t, err)
		require.Len(t, lists, 1)
		assert.Len(t, lists[0].SongIDs, 3)

		lists, err = repo.ListByOwner(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, lists)
	})

	t.Run("count by owner", func(t *testing.T) {
		count, err := repo.CountByOwner(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("absent playlist is nil, nil", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete drops memberships", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestPlaybackRepo(t *testing.T) {
	db := openTestDB(t)
	repo := NewPlaybackRepo(db)
	ctx := context.Background()

	t.Run("absent session is nil, nil", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	sess := playback.New("alice")
	sess.Play(42)
	require.NoError(t, repo.Save(ctx, sess))
	assert.NotZero(t, sess.ID, "save backfills the row id")

	t.Run("roundtrip", func(t *testing.T) {
		got, err := repo.GetByUser(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, playback.StatePlaying, got.State)
		require.NotNil(t, got.SongID)
		assert.Equal(t, int64(42), *got.SongID)
	})

	t.Run("save is an upsert keyed by username", func(t *testing.T) {
		firstID := sess.ID
		sess.Seek(90)
		sess.Pause()
		require.NoError(t, repo.Save(ctx, sess))
		assert.Equal(t, firstID, sess.ID)

		got, err := repo.GetByUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, playback.StatePaused, got.State)
		assert.Equal(t, 90, got.Position)
	})

	t.Run("session without a song", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, playback.New("bob")))
		got, err := repo.GetByUser(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.SongID)
		assert.Equal(t, playback.StateStopped, got.State)
	})
}
