package apiserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeGame struct {
	snapshots map[string][]byte
	stats     Stats
}

func (f *fakeGame) SerializeForScope(viewerID string) ([]byte, error) {
	data, ok := f.snapshots[viewerID]
	if !ok {
		return nil, errors.New("unknown viewer")
	}
	return data, nil
}

func (f *fakeGame) Stats() Stats { return f.stats }

func TestHealthzReturnsOK(t *testing.T) {
	s := New(Config{Game: &fakeGame{}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ok":true`)
}

func TestStatsReturnsGameStats(t *testing.T) {
	s := New(Config{Game: &fakeGame{stats: Stats{ConnectedPlayers: 3, Worlds: 1, Entities: 12, TickCount: 99}}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"connected_players":3`)
}

func TestSnapshotReturnsStoredBytes(t *testing.T) {
	s := New(Config{Game: &fakeGame{snapshots: map[string][]byte{"p1": []byte(`{"id":"p1"}`)}}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/snapshot/p1", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":"p1"}`, rec.Body.String())
}

func TestSnapshotUnknownViewerReturns404(t *testing.T) {
	s := New(Config{Game: &fakeGame{snapshots: map[string][]byte{}}})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/snapshot/nobody", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsWithoutGameAttachedReturns503(t *testing.T) {
	s := New(Config{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
