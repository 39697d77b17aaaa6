package playlist

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
	"github.com/tunecrate/tunecrate/internal/infra/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store, int64) {
	t.Helper()
	mem := memory.NewStore()
	ctx := context.Background()

	for _, name := range []string{"bob", "carol"} {
		_, err := mem.Users().Create(ctx, &user.User{
			Username: name,
			Email:    name + "@example.com",
			Role:     user.RoleUser,
		})
		require.NoError(t, err)
	}

	sng, err := mem.Songs().Create(ctx, &song.Song{Title: "Roundabout", Artist: "Yes"})
	require.NoError(t, err)

	return NewService(mem.Playlists(), mem.Songs(), mem.Users()), mem, sng.ID
}

func assertKind(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected typed error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Prog Rock", Description: "long songs"})
	require.NoError(t, err)
	assert.Equal(t, "carol", created.Username)
	assert.Equal(t, 0, created.SongCount)

	got, err := svc.Get(ctx, "carol", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prog Rock", got.Name)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "carol", CreateInput{Name: ""})
	assertKind(t, err, apperr.KindInputValidation, "VALIDATION_FAILED")
}

func TestCreate_UnknownPrincipal(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), "ghost", CreateInput{Name: "Mix"})
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_USER")
}

// A missing playlist must answer NotFound even when the caller would not
// have owned it; existence resolves strictly before ownership.
func TestGet_MissingPlaylistIsNotFoundNotForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "bob", 12345)
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_PLAYLIST")
}

func TestGet_OtherUsersPlaylistIsForbidden(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", created.ID)
	assertKind(t, err, apperr.KindForbidden, "UNAUTHORIZED_ACCESS")
}

func TestAddSong(t *testing.T) {
	svc, _, songID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Mix"})
	require.NoError(t, err)

	v, err := svc.AddSong(ctx, "carol", created.ID, songID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.SongCount)

	// Adding the same song again leaves the playlist unchanged.
	v, err = svc.AddSong(ctx, "carol", created.ID, songID)
	require.NoError(t, err)
	assert.Equal(t, 1, v.SongCount)
}

func TestAddSong_Denials(t *testing.T) {
	svc, _, songID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Mix"})
	require.NoError(t, err)

	t.Run("missing playlist wins over ownership", func(t *testing.T) {
		_, err := svc.AddSong(ctx, "bob", 999, songID)
		assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_PLAYLIST")
	})

	t.Run("foreign playlist is forbidden", func(t *testing.T) {
		_, err := svc.AddSong(ctx, "bob", created.ID, songID)
		assertKind(t, err, apperr.KindForbidden, "UNAUTHORIZED_ACCESS")
	})

	t.Run("unknown song", func(t *testing.T) {
		_, err := svc.AddSong(ctx, "carol", created.ID, 999)
		assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_SONG")
	})
}

func TestRemoveSong(t *testing.T) {
	svc, _, songID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Mix"})
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, "carol", created.ID, songID)
	require.NoError(t, err)

	v, err := svc.RemoveSong(ctx, "carol", created.ID, songID)
	require.NoError(t, err)
	assert.Equal(t, 0, v.SongCount)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Mix"})
	require.NoError(t, err)

	t.Run("foreign delete is forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, "bob", created.ID)
		assertKind(t, err, apperr.KindForbidden, "UNAUTHORIZED_ACCESS")
	})

	t.Run("owner delete succeeds", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "carol", created.ID))
		_, err := svc.Get(ctx, "carol", created.ID)
		assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_PLAYLIST")
	})
}

func TestListMine(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "carol", CreateInput{Name: "One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "carol", CreateInput{Name: "Two"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "bob", CreateInput{Name: "Bob's"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, "carol")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	// Newest first.
	assert.Equal(t, "Two", mine[0].Name)
}

func TestView_SkipsDeletedSongs(t *testing.T) {
	svc, mem, songID := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", CreateInput{Name: "Mix"})
	require.NoError(t, err)
	_, err = svc.AddSong(ctx, "carol", created.ID, songID)
	require.NoError(t, err)

	require.NoError(t, mem.Songs().Delete(ctx, songID))

	got, err := svc.Get(ctx, "carol", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.SongCount)
	assert.Empty(t, got.Songs)
}
