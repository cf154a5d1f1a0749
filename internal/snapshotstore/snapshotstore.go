// Package snapshotstore implements optional, best-effort persistence of
// serialized snapshots (the output of internal/serialize's Game/Entity/
// Player/Team/World builders) for crash-diagnostics and replay tooling.
// It is never consulted to reconstruct authoritative state: the
// simulation core stays in-memory, exactly as spec.md's Non-goals
// require. A store that fails to open, or a write that fails, only costs
// diagnosability — it never blocks or fails a tick.
package snapshotstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// Store persists snapshot bytes keyed by viewer id, each write
// overwriting the previous one (only the latest snapshot per viewer is
// kept; this is a diagnostics dump, not a history).
type Store struct {
	db      *badger.DB
	mu      sync.RWMutex
	isReady bool
}

// Record is one stored snapshot: the raw bytes internal/serialize
// produced, plus when they were written.
type Record struct {
	ViewerID  string
	Data      []byte
	WrittenAt time.Time
}

// Open opens (creating if absent) a Badger store rooted at dataPath.
func Open(dataPath string) (*Store, error) {
	opts := badger.DefaultOptions(dataPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: open badger at %s: %w", dataPath, err)
	}
	return &Store{db: db, isReady: true}, nil
}

// Put stores data as viewerID's latest snapshot, overwriting any prior one.
func (s *Store) Put(viewerID string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isReady {
		return fmt.Errorf("snapshotstore: store is closed")
	}

	rec := Record{ViewerID: viewerID, Data: data, WrittenAt: time.Now()}
	encoded, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("snapshotstore: encode record for %s: %w", viewerID, err)
	}

	key := snapshotKey(viewerID)
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encoded)
	})
}

// Get returns the latest snapshot stored for viewerID, or ErrNotFound.
func (s *Store) Get(viewerID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isReady {
		return nil, fmt.Errorf("snapshotstore: store is closed")
	}

	var raw []byte
	key := snapshotKey(viewerID)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte{}, val...)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: read %s: %w", viewerID, err)
	}

	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("snapshotstore: decode record for %s: %w", viewerID, err)
	}
	return rec, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isReady {
		return nil
	}
	s.isReady = false
	return s.db.Close()
}

func snapshotKey(viewerID string) []byte {
	return []byte("snapshot:" + viewerID)
}
