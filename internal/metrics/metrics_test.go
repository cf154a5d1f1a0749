package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestActionsExecutedIncrements(t *testing.T) {
	before := testutil.ToFloat64(ActionsExecuted.WithLabelValues("applied"))
	ActionsExecuted.WithLabelValues("applied").Inc()
	after := testutil.ToFloat64(ActionsExecuted.WithLabelValues("applied"))
	require.Equal(t, before+1, after)
}

func TestPermissionDenialsIncrements(t *testing.T) {
	before := testutil.ToFloat64(PermissionDenials)
	PermissionDenials.Inc()
	after := testutil.ToFloat64(PermissionDenials)
	require.Equal(t, before+1, after)
}
