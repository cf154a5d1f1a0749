package accounts

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepository is a threadsafe in-memory Repository, useful for tests
// and single-instance runs with no durable account directory.
type MemoryRepository struct {
	mu       sync.RWMutex
	byName   map[string]*Profile
	byPlayer map[string]*Profile
}

// NewMemoryRepository returns an empty in-memory directory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byName:   make(map[string]*Profile),
		byPlayer: make(map[string]*Profile),
	}
}

func (r *MemoryRepository) GetByName(ctx context.Context, name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[normalize(name)]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *MemoryRepository) GetByPlayerID(ctx context.Context, playerID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byPlayer[playerID]
	if !ok {
		return nil, ErrNotFound
	}
	copy := *p
	return &copy, nil
}

func (r *MemoryRepository) CreateOrTouch(ctx context.Context, name string, newPlayerID string) (*Profile, error) {
	key := normalize(name)
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.byName[key]; ok {
		p.LastSeen = time.Now()
		copy := *p
		return &copy, nil
	}

	now := time.Now()
	p := &Profile{PlayerID: newPlayerID, Name: name, CreatedAt: now, LastSeen: now}
	r.byName[key] = p
	r.byPlayer[newPlayerID] = p
	copy := *p
	return &copy, nil
}

func (r *MemoryRepository) Close() error { return nil }

func normalize(name string) string { return strings.ToLower(name) }
