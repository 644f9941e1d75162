package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	data := []byte(`{"date":"2026-08-23"}`)
	require.NoError(t, store.Put(ctx, "2026-08-23", data))

	got, err := store.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestFileStoreMiss(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.Get(context.Background(), "2026-08-23")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "2026-08-23", []byte("first")))
	require.NoError(t, store.Put(ctx, "2026-08-23", []byte("second")))

	got, err := store.Get(ctx, "2026-08-23")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got)
}

func TestFileStoreDelete(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "2026-08-23", []byte("x")))
	require.NoError(t, store.Delete(ctx, "2026-08-23"))
	require.NoError(t, store.Delete(ctx, "2026-08-23")) // idempotent

	_, err := store.Get(ctx, "2026-08-23")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreDatesSortedAndFiltered(t *testing.T) {
	store := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "2026-08-23", []byte("a")))
	require.NoError(t, store.Put(ctx, "2026-08-21", []byte("b")))
	require.NoError(t, store.Put(ctx, "2026-08-22", []byte("c")))

	dates, err := store.Dates(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"2026-08-21", "2026-08-22", "2026-08-23"}, dates)
}

func TestFileStoreDatesEmptyDir(t *testing.T) {
	store := NewFileStore(t.TempDir() + "/missing")

	dates, err := store.Dates(context.Background())
	require.NoError(t, err)
	require.Empty(t, dates)
}
