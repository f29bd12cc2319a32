package command

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"collab-board-api/internal/metrics"
)

type rejectingSubmitter struct{}

func (rejectingSubmitter) Submit(uint) bool { return false }

func droppedCount(t *testing.T, reg *prometheus.Registry) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "collab_board_activity_queue_dropped_total" {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func TestMeteredSubmitter_CountsDrops(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg, zap.NewNop())

	accepted := MeteredSubmitter{Inner: NopSubmitter{}, Metrics: m}
	assert.True(t, accepted.Submit(1))
	assert.Zero(t, droppedCount(t, reg))

	dropped := MeteredSubmitter{Inner: rejectingSubmitter{}, Metrics: m}
	assert.False(t, dropped.Submit(2))
	assert.False(t, dropped.Submit(3))
	assert.Equal(t, 2.0, droppedCount(t, reg))
}
