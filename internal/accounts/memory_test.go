package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateOrTouchCreatesOnFirstCall(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	p, err := r.CreateOrTouch(ctx, "Hero", "p1")
	require.NoError(t, err)
	require.Equal(t, "p1", p.PlayerID)
	require.Equal(t, "Hero", p.Name)
}

func TestCreateOrTouchReusesExistingPlayerID(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	first, err := r.CreateOrTouch(ctx, "Hero", "p1")
	require.NoError(t, err)

	second, err := r.CreateOrTouch(ctx, "hero", "p2")
	require.NoError(t, err)
	require.Equal(t, first.PlayerID, second.PlayerID)
	require.NotEqual(t, second.LastSeen, first.CreatedAt.Add(0))
}

func TestGetByNameIsCaseInsensitive(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.CreateOrTouch(ctx, "Hero", "p1")
	require.NoError(t, err)

	p, err := r.GetByName(ctx, "HERO")
	require.NoError(t, err)
	require.Equal(t, "p1", p.PlayerID)
}

func TestGetByNameNotFound(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.GetByName(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByPlayerIDNotFound(t *testing.T) {
	r := NewMemoryRepository()
	_, err := r.GetByPlayerID(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}
