package playback

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/domain/playback"
	"github.com/tunecrate/tunecrate/internal/domain/song"
	"github.com/tunecrate/tunecrate/internal/domain/user"
	"github.com/tunecrate/tunecrate/internal/infra/memory"
)

func newTestEngine(t *testing.T) (*Engine, *memory.Store, int64) {
	t.Helper()
	mem := memory.NewStore()

	_, err := mem.Users().Create(context.Background(), &user.User{
		Username: "alice",
		Email:    "alice@example.com",
		Role:     user.RoleUser,
	})
	require.NoError(t, err)

	sng, err := mem.Songs().Create(context.Background(), &song.Song{
		Title:  "Paranoid Android",
		Artist: "Radiohead",
		Genre:  song.GenreAlternative,
	})
	require.NoError(t, err)

	return NewEngine(mem.Sessions(), mem.Users(), mem.Songs()), mem, sng.ID
}

func assertKind(t *testing.T, err error, kind apperr.Kind, code string) {
	t.Helper()
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "expected typed error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
}

func TestEngine_Current_DefaultView(t *testing.T) {
	e, _, _ := newTestEngine(t)

	v, err := e.Current(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StateStopped, v.State)
	assert.Equal(t, 0, v.Position)
	assert.Nil(t, v.CurrentSong)
}

func TestEngine_Play(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	v, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, v.State)
	assert.Equal(t, 0, v.Position)
	require.NotNil(t, v.CurrentSong)
	assert.Equal(t, "Paranoid Android", v.CurrentSong.Title)
}

func TestEngine_Play_UnknownSong(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.Play(context.Background(), "alice", 999)
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_SONG")
}

func TestEngine_UnknownUser(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "mallory", songID)
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_USER")

	_, err = e.Current(ctx, "mallory")
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND_USER")
}

func TestEngine_MutationsRequireSession(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	for name, op := range map[string]func() error{
		"pause":  func() error { _, err := e.Pause(ctx, "alice"); return err },
		"resume": func() error { _, err := e.Resume(ctx, "alice"); return err },
		"stop":   func() error { _, err := e.Stop(ctx, "alice"); return err },
		"seek":   func() error { _, err := e.UpdatePosition(ctx, "alice", 10); return err },
	} {
		t.Run(name, func(t *testing.T) {
			assertKind(t, op(), apperr.KindNotFound, "RESOURCE_NOT_FOUND")
		})
	}
}

func TestEngine_FullListeningFlow(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)

	v, err := e.UpdatePosition(ctx, "alice", 90)
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, v.State)
	assert.Equal(t, 90, v.Position)

	v, err = e.Pause(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StatePaused, v.State)
	assert.Equal(t, 90, v.Position)

	v, err = e.Resume(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, v.State)
	assert.Equal(t, 90, v.Position)

	// Re-playing the same song starts over from the beginning.
	v, err = e.Play(ctx, "alice", songID)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Position)

	_, err = e.UpdatePosition(ctx, "alice", 30)
	require.NoError(t, err)

	v, err = e.Stop(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StateStopped, v.State)
	assert.Equal(t, 0, v.Position)
	require.NotNil(t, v.CurrentSong, "stopped session keeps its last song")

	v, err = e.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StateStopped, v.State)
	assert.Equal(t, 0, v.Position)
}

func TestEngine_UpdatePosition_RejectsNegative(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)

	_, err = e.UpdatePosition(ctx, "alice", -5)
	assertKind(t, err, apperr.KindInputValidation, "VALIDATION_FAILED")

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "position", appErr.Fields[0].Field)
	assert.Equal(t, -5, appErr.Fields[0].RejectedValue)

	// The stored position is untouched by the rejected update.
	v, err := e.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Position)
}

func TestEngine_PauseIsIdempotent(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)
	_, err = e.UpdatePosition(ctx, "alice", 45)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		v, err := e.Pause(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, playback.StatePaused, v.State)
		assert.Equal(t, 45, v.Position)
	}
}

func TestEngine_UsersAreIsolated(t *testing.T) {
	e, mem, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := mem.Users().Create(ctx, &user.User{
		Username: "bob",
		Email:    "bob@example.com",
		Role:     user.RoleUser,
	})
	require.NoError(t, err)

	_, err = e.Play(ctx, "alice", songID)
	require.NoError(t, err)

	// Bob never played anything; Alice's session is not his.
	v, err := e.Current(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, playback.StateStopped, v.State)
	assert.Nil(t, v.CurrentSong)

	_, err = e.Pause(ctx, "bob")
	assertKind(t, err, apperr.KindNotFound, "RESOURCE_NOT_FOUND")
}

func TestEngine_CurrentSongGoneFromCatalog(t *testing.T) {
	e, mem, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)

	require.NoError(t, mem.Songs().Delete(ctx, songID))

	// The view degrades gracefully instead of failing.
	v, err := e.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, v.State)
	assert.Nil(t, v.CurrentSong)
}

func TestEngine_ConcurrentSeeksDoNotRace(t *testing.T) {
	e, _, songID := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Play(ctx, "alice", songID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(pos int) {
			defer wg.Done()
			_, err := e.UpdatePosition(ctx, "alice", pos)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	v, err := e.Current(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, v.State)
	assert.GreaterOrEqual(t, v.Position, 0)
	assert.Less(t, v.Position, 20)
}
