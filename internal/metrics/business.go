package metrics

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementCardCreated increments card creation counter
func (m *Metrics) IncrementCardCreated() {
	m.safeExecute("IncrementCardCreated", func() {
		m.CardCreatedTotal.Inc()
	})
}

// IncrementAuditAppended increments the audit counter for an action
func (m *Metrics) IncrementAuditAppended(action string) {
	m.safeExecute("IncrementAuditAppended", func() {
		m.AuditAppendedTotal.WithLabelValues(action).Inc()
	})
}

// IncrementActivityQueueDropped increments the dropped submission counter
func (m *Metrics) IncrementActivityQueueDropped() {
	m.safeExecute("IncrementActivityQueueDropped", func() {
		m.ActivityQueueDropped.Inc()
	})
}

// WSSessionOpened increments the active websocket session gauge
func (m *Metrics) WSSessionOpened() {
	m.safeExecute("WSSessionOpened", func() {
		m.WSSessionsActive.Inc()
	})
}

// WSSessionClosed decrements the active websocket session gauge
func (m *Metrics) WSSessionClosed() {
	m.safeExecute("WSSessionClosed", func() {
		m.WSSessionsActive.Dec()
	})
}
