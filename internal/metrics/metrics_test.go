package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sumFamily(mf *dto.MetricFamily) float64 {
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.GetCounter() != nil:
			total += m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			total += m.GetGauge().GetValue()
		}
	}
	return total
}

func gatherValue(t *testing.T, reg *prometheus.Registry, name string) (float64, bool) {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return sumFamily(mf), true
		}
	}
	return 0, false
}

func TestBusinessCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, zap.NewNop())

	m.IncrementBoardCreated()
	m.IncrementBoardCreated()
	m.IncrementCardCreated()
	m.IncrementAuditAppended("BOARD_CREATED")
	m.IncrementAuditAppended("CARD_CREATED")
	m.IncrementAuditAppended("CARD_CREATED")
	m.IncrementActivityQueueDropped()

	boards, ok := gatherValue(t, reg, "collab_board_board_created_total")
	require.True(t, ok)
	assert.Equal(t, 2.0, boards)

	cards, ok := gatherValue(t, reg, "collab_board_card_created_total")
	require.True(t, ok)
	assert.Equal(t, 1.0, cards)

	audits, ok := gatherValue(t, reg, "collab_board_audit_appended_total")
	require.True(t, ok)
	assert.Equal(t, 3.0, audits)

	dropped, ok := gatherValue(t, reg, "collab_board_activity_queue_dropped_total")
	require.True(t, ok)
	assert.Equal(t, 1.0, dropped)
}

func TestWSSessionGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, zap.NewNop())

	m.WSSessionOpened()
	m.WSSessionOpened()
	m.WSSessionClosed()

	active, ok := gatherValue(t, reg, "collab_board_ws_sessions_active")
	require.True(t, ok)
	assert.Equal(t, 1.0, active)
}

func TestRecordHTTPRequest_CategorizesStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg, zap.NewNop())

	m.RecordHTTPRequest("GET", "/api/boards", 200, 5*time.Millisecond)
	m.RecordHTTPRequest("GET", "/api/boards", 204, 5*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/boards", 403, 5*time.Millisecond)
	m.RecordHTTPRequest("POST", "/api/boards", 500, 5*time.Millisecond)

	total, ok := gatherValue(t, reg, "collab_board_http_requests_total")
	require.True(t, ok)
	assert.Equal(t, 4.0, total)
}

func TestCategorizeStatus(t *testing.T) {
	assert.Equal(t, "2xx", categorizeStatus(201))
	assert.Equal(t, "3xx", categorizeStatus(304))
	assert.Equal(t, "4xx", categorizeStatus(404))
	assert.Equal(t, "5xx", categorizeStatus(503))
	assert.Equal(t, "unknown", categorizeStatus(100))
}

func TestShouldSkipEndpoint(t *testing.T) {
	assert.True(t, ShouldSkipEndpoint("/metrics"))
	assert.True(t, ShouldSkipEndpoint("/health"))
	assert.True(t, ShouldSkipEndpoint("/health/ready"))
	assert.False(t, ShouldSkipEndpoint("/api/boards"))
}

func TestSafeExecute_RecoversPanics(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	m.safeExecute("boom", func() { panic("metric gone wrong") })
}
