package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSession(buffer int) *Session {
	return &Session{send: make(chan []byte, buffer)}
}

func TestRegistry_BroadcastReachesBoardSessionsOnly(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	a := newTestSession(4)
	b := newTestSession(4)
	other := newTestSession(4)
	r.Register(1, a)
	r.Register(1, b)
	r.Register(2, other)

	r.Broadcast(1, []byte("hello"))

	assert.Equal(t, []byte("hello"), <-a.send)
	assert.Equal(t, []byte("hello"), <-b.send)
	assert.Empty(t, other.send)
}

func TestRegistry_UnregisterPrunesEmptyBoards(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	s := newTestSession(1)

	r.Register(1, s)
	require.Equal(t, 1, r.Count(1))
	require.Equal(t, []uint{1}, r.Boards())

	r.Unregister(1, s)
	assert.Zero(t, r.Count(1))
	assert.Empty(t, r.Boards())

	// repeated and unknown unregisters are harmless
	r.Unregister(1, s)
	r.Unregister(99, s)
}

func TestRegistry_BroadcastDropsFullSessions(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	healthy := newTestSession(4)
	stuck := newTestSession(1)
	stuck.send <- []byte("backlog")

	r.Register(1, healthy)
	r.Register(1, stuck)

	r.Broadcast(1, []byte("update"))

	assert.Equal(t, 1, r.Count(1))
	assert.Equal(t, []byte("update"), <-healthy.send)

	// the stuck session's channel is closed after its backlog
	assert.Equal(t, []byte("backlog"), <-stuck.send)
	_, open := <-stuck.send
	assert.False(t, open)
}

func TestRegistry_DroppedSessionSurvivesLaterSends(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	stuck := newTestSession(1)
	stuck.send <- []byte("backlog")
	r.Register(1, stuck)

	r.Broadcast(1, []byte("update"))
	require.Zero(t, r.Count(1))

	// the session's read side may still be live and try to answer a
	// frame; sending after the drop must fail cleanly, not panic
	assert.False(t, stuck.trySend([]byte("late")))

	h := &SessionHandler{registry: r, logger: zap.NewNop()}
	h.sendControl(stuck, ServerMessage{Type: "error", Message: "already joined a board"})

	r.Broadcast(1, []byte("again"))
}

func TestRegistry_BroadcastUnknownBoardIsNoop(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	r.Broadcast(42, []byte("nobody listening"))
	assert.Zero(t, r.Count(42))
}
