package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

func TestSessionStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSessionStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	saved := &domain.StoredSession{
		UID:          "u1",
		Email:        "a@example.com",
		RefreshToken: "refresh",
		IDToken:      "id",
		Expiry:       expiry,
	}
	require.NoError(t, store.Save(ctx, saved))

	assert.Equal(t, filepath.Join(dir, SessionFileName), store.Path())
	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", loaded.UID)
	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.True(t, expiry.Equal(loaded.Expiry))
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_LoadCorrupt(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	_, err = store.Load(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_LoadWithoutUID(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"refresh_token":"r"}`), 0600))

	_, err = store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Clear(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Save(ctx, &domain.StoredSession{UID: "u1"}))
	require.NoError(t, store.Clear(ctx))

	assert.NoFileExists(t, store.Path())
}

func TestSessionStore_SaveNil(t *testing.T) {
	store, err := NewSessionStore(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
}
