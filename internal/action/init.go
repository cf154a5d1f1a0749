package action

import (
	"github.com/and0p/chaos-core/internal/component"
	"github.com/and0p/chaos-core/internal/logging"
	"github.com/and0p/chaos-core/internal/metrics"
)

func init() {
	component.ListenerPanicHandler = func(componentID string, recovered any) {
		metrics.ListenerPanics.Inc()
		logging.LogListenerPanic(componentID, recovered)
	}
}
