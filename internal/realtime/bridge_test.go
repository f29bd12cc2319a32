package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"collab-board-api/internal/database"
)

func startBridge(t *testing.T) (*redis.Client, *Registry, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	registry := NewRegistry(zap.NewNop())
	bridge := NewBridge(client, registry, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	bridge.Start(ctx)

	// wait until the pattern subscription is live
	require.Eventually(t, func() bool {
		return client.PubSubNumPat(context.Background()).Val() > 0
	}, 2*time.Second, 10*time.Millisecond)

	return client, registry, func() {
		cancel()
		bridge.Wait()
		client.Close()
	}
}

func receive(t *testing.T, s *Session) []byte {
	t.Helper()
	select {
	case payload := <-s.send:
		return payload
	case <-time.After(2 * time.Second):
		t.Fatal("no payload relayed to session")
		return nil
	}
}

func TestBridge_RelaysEventsToBoardSessions(t *testing.T) {
	client, registry, stop := startBridge(t)
	defer stop()

	s := newTestSession(4)
	registry.Register(7, s)

	ctx := context.Background()
	event := `{"type":"activity","id":1,"board_id":7,"message":"alice created the board 'x', description: y"}`
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), event).Err())

	assert.JSONEq(t, event, string(receive(t, s)))
}

func TestBridge_DeduplicatesByEventID(t *testing.T) {
	client, registry, stop := startBridge(t)
	defer stop()

	s := newTestSession(8)
	registry.Register(7, s)

	ctx := context.Background()
	first := `{"type":"activity","id":5,"board_id":7,"message":"first"}`
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), first).Err())
	receive(t, s)

	// a redelivery and an older event are both dropped
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), first).Err())
	stale := `{"type":"activity","id":3,"board_id":7,"message":"stale"}`
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), stale).Err())

	next := `{"type":"activity","id":6,"board_id":7,"message":"next"}`
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), next).Err())

	assert.JSONEq(t, next, string(receive(t, s)))
	assert.Empty(t, s.send)
}

func TestBridge_CursorsAreIndependentPerBoard(t *testing.T) {
	client, registry, stop := startBridge(t)
	defer stop()

	a := newTestSession(4)
	b := newTestSession(4)
	registry.Register(1, a)
	registry.Register(2, b)

	ctx := context.Background()
	require.NoError(t, client.Publish(ctx, database.BoardChannel(1), `{"id":9,"board_id":1}`).Err())
	receive(t, a)

	// board 2 has its own cursor, so a lower id still goes through
	require.NoError(t, client.Publish(ctx, database.BoardChannel(2), `{"id":4,"board_id":2}`).Err())
	receive(t, b)
}

func TestBridge_IgnoresMalformedPayloads(t *testing.T) {
	client, registry, stop := startBridge(t)
	defer stop()

	s := newTestSession(4)
	registry.Register(7, s)

	ctx := context.Background()
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), "{not json").Err())

	valid := `{"type":"activity","id":1,"board_id":7,"message":"ok"}`
	require.NoError(t, client.Publish(ctx, database.BoardChannel(7), valid).Err())

	assert.JSONEq(t, valid, string(receive(t, s)))
	assert.Empty(t, s.send)
}

func TestParseBoardChannel(t *testing.T) {
	id, err := parseBoardChannel("board:42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = parseBoardChannel("board:abc")
	assert.Error(t, err)

	_, err = parseBoardChannel("other:1")
	assert.Error(t, err)
}
