package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/nats-io/nats.go"
)

// NATSInvalidator implements Invalidator over a plain NATS pub/sub subject
// (not JetStream: invalidation is fire-and-forget, a missed notice just
// means a node serves one stale snapshot until its own TTL expires).
type NATSInvalidator struct {
	conn    *nats.Conn
	subject string
	nodeID  string

	sub          *nats.Subscription
	recentKeys   map[string]time.Time
	recentMu     sync.Mutex
	dedupeWindow time.Duration
}

type invalidationMessage struct {
	Key    string `json:"key"`
	NodeID string `json:"node_id"`
}

// NewNATSInvalidator connects to natsURL and prepares an invalidator for
// nodeID, fanning out on subject.
func NewNATSInvalidator(natsURL, subject, nodeID string) (*NATSInvalidator, error) {
	if subject == "" {
		subject = "cache.invalidation"
	}
	conn, err := nats.Connect(natsURL,
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.LogInfo("nats invalidator reconnected to %s", nc.ConnectedUrl())
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logging.LogWarn("nats invalidator disconnected: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("cache: connect to nats: %w", err)
	}
	return &NATSInvalidator{
		conn:         conn,
		subject:      subject,
		nodeID:       nodeID,
		recentKeys:   make(map[string]time.Time),
		dedupeWindow: 5 * time.Second,
	}, nil
}

func (n *NATSInvalidator) PublishInvalidation(ctx context.Context, key string) error {
	if n.isDuplicate(key) {
		return nil
	}
	data, err := json.Marshal(invalidationMessage{Key: key, NodeID: n.nodeID})
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("cache: publish invalidation: %w", err)
	}
	n.recordKey(key)
	return nil
}

func (n *NATSInvalidator) SubscribeInvalidations(ctx context.Context, handler InvalidationHandler) error {
	if n.sub != nil {
		return fmt.Errorf("cache: already subscribed to invalidations")
	}
	sub, err := n.conn.Subscribe(n.subject, func(msg *nats.Msg) {
		var m invalidationMessage
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			logging.LogError("cache: bad invalidation payload: %v", err)
			return
		}
		if m.NodeID == n.nodeID || n.isDuplicate(m.Key) {
			return
		}
		n.recordKey(m.Key)
		if err := handler(m.Key); err != nil {
			logging.LogError("cache: invalidation handler for %s: %v", m.Key, err)
		}
	})
	if err != nil {
		return fmt.Errorf("cache: subscribe invalidations: %w", err)
	}
	n.sub = sub
	return nil
}

func (n *NATSInvalidator) Close() error {
	if n.sub != nil {
		_ = n.sub.Unsubscribe()
	}
	n.conn.Close()
	return nil
}

func (n *NATSInvalidator) isDuplicate(key string) bool {
	n.recentMu.Lock()
	defer n.recentMu.Unlock()
	last, ok := n.recentKeys[key]
	return ok && time.Since(last) < n.dedupeWindow
}

func (n *NATSInvalidator) recordKey(key string) {
	n.recentMu.Lock()
	defer n.recentMu.Unlock()
	n.recentKeys[key] = time.Now()
}
