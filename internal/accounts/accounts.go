// Package accounts implements the player profile directory: a lookup from
// a client's desired display name to a stable player id across
// reconnects. It sits a layer below the in-memory Player container
// (internal/player) and is consulted once, during the CONNECTION
// handshake, never mid-tick.
package accounts

import (
	"context"
	"errors"
	"time"
)

// Profile is one directory entry.
type Profile struct {
	PlayerID  string
	Name      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Repository persists and resolves profiles. Implementations must treat
// Name lookups case-insensitively.
type Repository interface {
	// GetByName returns the profile for name, or ErrNotFound.
	GetByName(ctx context.Context, name string) (*Profile, error)

	// GetByPlayerID returns the profile for playerID, or ErrNotFound.
	GetByPlayerID(ctx context.Context, playerID string) (*Profile, error)

	// CreateOrTouch returns the existing profile for name, updating its
	// LastSeen, or creates one bound to newPlayerID if none exists yet.
	CreateOrTouch(ctx context.Context, name string, newPlayerID string) (*Profile, error)

	// Close releases the underlying connection.
	Close() error
}

// ErrNotFound is returned by Repository lookups that find nothing.
var ErrNotFound = errors.New("accounts: profile not found")
