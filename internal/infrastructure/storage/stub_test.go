package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praktis/backend/internal/infrastructure/config"
)

func TestNewPicksProvider(t *testing.T) {
	store, err := New(&config.StorageConfig{Provider: "stub"})
	require.NoError(t, err)
	assert.IsType(t, &StubStorage{}, store)

	store, err = New(&config.StorageConfig{})
	require.NoError(t, err)
	assert.IsType(t, &StubStorage{}, store)

	_, err = New(&config.StorageConfig{Provider: "ftp"})
	assert.Error(t, err)
}

func TestStubUploadFlow(t *testing.T) {
	ctx := context.Background()
	store := NewStubStorage("https://cdn.example.com")

	exists, err := store.ObjectExists(ctx, "qrcodes/a.png")
	require.NoError(t, err)
	assert.False(t, exists)

	url, expiresAt, err := store.GenerateUploadURL(ctx, "qrcodes/a.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "qrcodes/a.png")
	assert.True(t, expiresAt.After(time.Now()))

	exists, err = store.ObjectExists(ctx, "qrcodes/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, "https://cdn.example.com/qrcodes/a.png", store.PublicURL("qrcodes/a.png"))

	require.NoError(t, store.DeleteObject(ctx, "qrcodes/a.png"))
	exists, err = store.ObjectExists(ctx, "qrcodes/a.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStubRejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	store := NewStubStorage("")

	_, _, err := store.GenerateUploadURL(ctx, "", "image/png", time.Minute)
	assert.Error(t, err)
	_, err = store.ObjectExists(ctx, "")
	assert.Error(t, err)
	assert.Error(t, store.DeleteObject(ctx, ""))
}
