package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockInvalidator implements Invalidator in memory for tests that don't
// need a real NATS connection.
type mockInvalidator struct {
	mu        sync.Mutex
	published []string
	handler   InvalidationHandler
}

func newMockInvalidator() *mockInvalidator {
	return &mockInvalidator{}
}

func (m *mockInvalidator) PublishInvalidation(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, key)
	if m.handler != nil {
		return m.handler(key)
	}
	return nil
}

func (m *mockInvalidator) SubscribeInvalidations(ctx context.Context, handler InvalidationHandler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	return nil
}

func (m *mockInvalidator) Close() error { return nil }

func TestMockInvalidatorDispatchesToHandler(t *testing.T) {
	inv := newMockInvalidator()
	received := make(chan string, 1)
	require.NoError(t, inv.SubscribeInvalidations(context.Background(), func(key string) error {
		received <- key
		return nil
	}))

	require.NoError(t, inv.PublishInvalidation(context.Background(), "viewer:p1"))
	require.Equal(t, "viewer:p1", <-received)
	require.Equal(t, []string{"viewer:p1"}, inv.published)
}

func TestMetricsHitRatio(t *testing.T) {
	m := Metrics{Hits: 3, Misses: 1}
	require.Equal(t, 0.75, m.HitRatio())

	var empty Metrics
	require.Equal(t, 0.0, empty.HitRatio())
}

func TestIsCacheMiss(t *testing.T) {
	require.True(t, IsCacheMiss(ErrCacheMiss))
	require.False(t, IsCacheMiss(nil))
}
