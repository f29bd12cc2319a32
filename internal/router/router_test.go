package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"collab-board-api/internal/activity"
	"collab-board-api/internal/domain"
	"collab-board-api/internal/dto"
	"collab-board-api/internal/metrics"
	"collab-board-api/internal/realtime"
	"collab-board-api/internal/token"
)

type apiFixture struct {
	server       *httptest.Server
	db           *gorm.DB
	materializer *activity.Materializer
}

func setupAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Board{},
		&domain.BoardMember{},
		&domain.Card{},
		&domain.AuditLog{},
		&domain.ActivityFeed{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zap.NewNop()
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), logger)
	tokens := token.NewManager("integration-secret", time.Hour)
	registry := realtime.NewRegistry(logger)

	publisher := activity.NewRedisPublisher(client, logger)
	materializer := activity.NewMaterializer(db, publisher, logger, 64)

	ctx, cancel := context.WithCancel(context.Background())
	materializer.Start(ctx)

	bridge := realtime.NewBridge(client, registry, logger)
	bridge.Start(ctx)
	require.Eventually(t, func() bool {
		return client.PubSubNumPat(context.Background()).Val() > 0
	}, 2*time.Second, 10*time.Millisecond)

	engine := Setup(Config{
		DB:        db,
		Redis:     client,
		Logger:    logger,
		Metrics:   m,
		Tokens:    tokens,
		Submitter: materializer,
		Registry:  registry,
	})

	server := httptest.NewServer(engine)
	t.Cleanup(func() {
		server.Close()
		materializer.Stop()
		cancel()
		bridge.Wait()
	})

	return &apiFixture{server: server, db: db, materializer: materializer}
}

func (f *apiFixture) request(t *testing.T, method, path, tok string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func (f *apiFixture) registerAndLogin(t *testing.T, name, email string) (uint, string) {
	t.Helper()

	resp, raw := f.request(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "name": name, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var user dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &user))

	resp, raw = f.request(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))
	require.Equal(t, "Bearer", tok.TokenType)
	return user.ID, tok.AccessToken
}

func TestAPI_AuthFlow(t *testing.T) {
	f := setupAPI(t)

	_, tok := f.registerAndLogin(t, "alice", "alice@example.com")

	// duplicate registration is rejected
	resp, _ := f.request(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "alice@example.com", "name": "alice2", "password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// wrong password and unknown email answer identically
	resp, raw := f.request(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "Invalid credentials")

	resp, raw = f.request(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "Invalid credentials")

	// short password fails validation
	resp, _ = f.request(t, http.MethodPost, "/auth/register", "", gin.H{
		"email": "bob@example.com", "name": "bob", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = f.request(t, http.MethodGet, "/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, "alice@example.com", me.Email)

	resp, _ = f.request(t, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.request(t, http.MethodGet, "/api/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_BoardLifecycle(t *testing.T) {
	f := setupAPI(t)

	_, ownerTok := f.registerAndLogin(t, "alice", "alice@example.com")
	bobID, bobTok := f.registerAndLogin(t, "bob", "bob@example.com")

	resp, raw := f.request(t, http.MethodPost, "/api/boards", ownerTok, gin.H{
		"name": "Roadmap", "description": "Q3 planning",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var board dto.BoardResponse
	require.NoError(t, json.Unmarshal(raw, &board))

	boardPath := fmt.Sprintf("/api/boards/%d", board.ID)

	// bob is not a member yet
	resp, _ = f.request(t, http.MethodGet, boardPath, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.request(t, http.MethodPost, boardPath+"/members", ownerTok, gin.H{
		"user_id": bobID, "role": "editor",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = f.request(t, http.MethodGet, boardPath, bobTok, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// card creation stays with the owner
	resp, _ = f.request(t, http.MethodPost, boardPath+"/cards", bobTok, gin.H{
		"title": "nope", "position": 1,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = f.request(t, http.MethodPost, boardPath+"/cards", ownerTok, gin.H{
		"title": "Fix login", "description": "500 on submit", "position": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var card dto.CardResponse
	require.NoError(t, json.Unmarshal(raw, &card))

	// an editor can update cards
	resp, raw = f.request(t, http.MethodPatch, fmt.Sprintf("%s/cards/%d", boardPath, card.ID), bobTok, gin.H{
		"is_complete": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated dto.CardResponse
	require.NoError(t, json.Unmarshal(raw, &updated))
	assert.True(t, updated.IsComplete)

	// the audit ledger has the whole story in order
	var audits []domain.AuditLog
	require.NoError(t, f.db.Where("board_id = ?", board.ID).Order("id ASC").Find(&audits).Error)
	var actions []domain.AuditAction
	for _, a := range audits {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []domain.AuditAction{
		domain.ActionBoardCreated,
		domain.ActionMemberAdded,
		domain.ActionCardCreated,
		domain.ActionCardUpdated,
	}, actions)

	// the materializer catches up and the feed becomes queryable
	require.Eventually(t, func() bool {
		_, raw := f.request(t, http.MethodGet, boardPath+"/activity", bobTok, nil)
		var feed []dto.ActivityResponse
		if err := json.Unmarshal(raw, &feed); err != nil {
			return false
		}
		return len(feed) == 4
	}, 3*time.Second, 25*time.Millisecond)

	// only the owner can delete the board
	resp, _ = f.request(t, http.MethodDelete, boardPath, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = f.request(t, http.MethodDelete, boardPath, ownerTok, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the deleted board reads as gone for ex-owner and ex-editor alike
	resp, _ = f.request(t, http.MethodGet, boardPath, ownerTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.request(t, http.MethodGet, boardPath, bobTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.request(t, http.MethodGet, boardPath+"/activity", bobTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// history survives the board
	var count int64
	f.db.Model(&domain.AuditLog{}).Where("board_id = ?", board.ID).Count(&count)
	assert.EqualValues(t, 5, count)
}

func TestAPI_MutationsFanOutToWebsocket(t *testing.T) {
	f := setupAPI(t)

	_, ownerTok := f.registerAndLogin(t, "alice", "alice@example.com")

	resp, raw := f.request(t, http.MethodPost, "/api/boards", ownerTok, gin.H{"name": "Live"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var board dto.BoardResponse
	require.NoError(t, json.Unmarshal(raw, &board))

	// attach a websocket session to the board
	resp, raw = f.request(t, http.MethodPost, "/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok dto.TokenResponse
	require.NoError(t, json.Unmarshal(raw, &tok))

	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?token=" + tok.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	join, err := json.Marshal(realtime.ClientMessage{Type: "join", BoardID: board.ID})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, join))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err = conn.ReadMessage()
	require.NoError(t, err)
	var joined realtime.ServerMessage
	require.NoError(t, json.Unmarshal(raw, &joined))
	require.Equal(t, "joined", joined.Type)

	// a mutation flows through audit, materializer, redis and the bridge
	resp, _ = f.request(t, http.MethodPost, fmt.Sprintf("/api/boards/%d/cards", board.ID), ownerTok, gin.H{
		"title": "Ship it", "position": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// earlier activity for the board may arrive first; read until the
	// card event shows up
	deadline := time.Now().Add(3 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, raw, err = conn.ReadMessage()
		require.NoError(t, err)

		var event activity.Event
		require.NoError(t, json.Unmarshal(raw, &event))
		require.Equal(t, "activity", event.Type)
		require.Equal(t, board.ID, event.BoardID)
		if event.ActivityType != "CARD_CREATED" {
			continue
		}
		assert.Contains(t, event.Message, "alice created the card with title: Ship it")
		break
	}
}

func TestAPI_HealthAndMetricsExposed(t *testing.T) {
	f := setupAPI(t)

	resp, raw := f.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "ok")

	resp, _ = f.request(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
