package snapshotstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrips(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("player:p1", []byte(`{"id":"p1"}`)))

	rec, err := store.Get("player:p1")
	require.NoError(t, err)
	require.Equal(t, "player:p1", rec.ViewerID)
	require.Equal(t, []byte(`{"id":"p1"}`), rec.Data)
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Get("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPutOverwritesPriorSnapshot(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put("player:p1", []byte(`{"v":1}`)))
	require.NoError(t, store.Put("player:p1", []byte(`{"v":2}`)))

	rec, err := store.Get("player:p1")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"v":2}`), rec.Data)
}

func TestCloseThenOperateFails(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = store.Put("player:p1", []byte("x"))
	require.Error(t, err)
}
