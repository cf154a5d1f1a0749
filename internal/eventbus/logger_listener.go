package eventbus

import (
	"context"

	"github.com/and0p/chaos-core/internal/logging"
)

// StartLoggingListener subscribes to every event on the bus and writes a
// trace line per delivery. Non-blocking: registration returns immediately,
// delivery happens on the bus's own dispatch goroutines.
func StartLoggingListener(bus EventBus) error {
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		logging.LogTrace("eventbus %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return err
	}
	logging.LogInfo("eventbus logging listener active")
	return nil
}
