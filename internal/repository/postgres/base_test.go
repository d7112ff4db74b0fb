package postgres

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/watchnotify/notifier-api/pkg/metrics"
)

func TestTrackCountsStoreOperations(t *testing.T) {
	m := metrics.NewWith(prometheus.NewRegistry(), "test")
	base := NewBaseRepository(nil, m)

	var err error
	base.track("releases.get", &err)

	err = fmt.Errorf("connection refused")
	base.track("releases.get", &err)
	base.track("releases.get", &err)

	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("releases.get", "ok")))
	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("releases.get", "error")))
}

func TestTrackWithoutMetricsIsNoOp(t *testing.T) {
	base := NewBaseRepository(nil, nil)

	var err error
	assert.NotPanics(t, func() { base.track("users.list", &err) })
}
