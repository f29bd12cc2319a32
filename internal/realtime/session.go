package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"collab-board-api/internal/metrics"
	"collab-board-api/internal/permission"
	"collab-board-api/internal/token"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ClientMessage is an inbound frame from a websocket client
type ClientMessage struct {
	Type    string `json:"type"`
	BoardID uint   `json:"board_id,omitempty"`
}

// ServerMessage is an outbound control frame (joined / error)
type ServerMessage struct {
	Type    string `json:"type"`
	BoardID uint   `json:"board_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Session is one authenticated websocket connection. It starts detached
// and moves through the join/leave state machine; boardID is zero while
// detached.
type Session struct {
	id     uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
	userID uint

	boardID uint

	sendMu     sync.Mutex
	sendClosed bool
}

// trySend queues an outbound payload. It reports false when the buffer
// is full or the session is already closed; it never blocks. The mutex
// orders sends against closeSend, so a session dropped by a broadcast
// cannot be written to after its channel is closed.
func (s *Session) trySend(payload []byte) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.sendClosed {
		return false
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *Session) closeSend() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.sendClosed {
		return
	}
	s.sendClosed = true
	close(s.send)
}

// SessionHandler upgrades HTTP requests into realtime sessions
type SessionHandler struct {
	registry *Registry
	perm     permission.Service
	verifier token.Verifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewSessionHandler creates a SessionHandler
func NewSessionHandler(registry *Registry, perm permission.Service, verifier token.Verifier, m *metrics.Metrics, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{registry: registry, perm: perm, verifier: verifier, metrics: m, logger: logger}
}

// Handle upgrades the connection and runs the session until the client
// disconnects. Authentication failures close the socket with policy
// violation (1008) before any message exchange.
func (h *SessionHandler) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	userID, err := h.verifier.Verify(c.Query("token"))
	if err != nil {
		h.logger.Warn("Websocket auth failed", zap.Error(err))
		deadline := time.Now().Add(writeWait)
		msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token")
		conn.WriteControl(websocket.CloseMessage, msg, deadline)
		conn.Close()
		return
	}

	session := &Session{
		id:     uuid.New(),
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
	}

	h.metrics.WSSessionOpened()
	h.logger.Info("Websocket session opened",
		zap.String("session_id", session.id.String()),
		zap.Uint("user_id", userID))

	go h.writePump(session)
	h.readPump(c.Request.Context(), session)
}

func (h *SessionHandler) readPump(ctx context.Context, s *Session) {
	defer func() {
		if s.boardID != 0 {
			h.registry.Unregister(s.boardID, s)
			s.boardID = 0
		}
		s.closeSend()
		s.conn.Close()
		h.metrics.WSSessionClosed()
		h.logger.Info("Websocket session closed",
			zap.String("session_id", s.id.String()),
			zap.Uint("user_id", s.userID))
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Websocket read error", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.sendControl(s, ServerMessage{Type: "error", Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case "join":
			h.handleJoin(ctx, s, msg.BoardID)
		case "leave":
			h.handleLeave(s)
		default:
			h.logger.Warn("Unknown message type", zap.String("type", msg.Type))
		}
	}
}

// handleJoin attaches the session to a board after a membership check.
// A session already attached to a board must leave before joining again.
func (h *SessionHandler) handleJoin(ctx context.Context, s *Session, boardID uint) {
	if s.boardID != 0 {
		h.sendControl(s, ServerMessage{Type: "error", Message: "already joined a board"})
		return
	}
	if boardID == 0 {
		h.sendControl(s, ServerMessage{Type: "error", Message: "board_id required"})
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := h.perm.RequireMember(checkCtx, boardID, s.userID); err != nil {
		h.sendControl(s, ServerMessage{Type: "error", Message: "unauthorized board access"})
		return
	}

	s.boardID = boardID
	h.registry.Register(boardID, s)
	h.sendControl(s, ServerMessage{Type: "joined", BoardID: boardID})
}

// handleLeave detaches the session; leaving while detached is a no-op
func (h *SessionHandler) handleLeave(s *Session) {
	if s.boardID == 0 {
		return
	}
	h.registry.Unregister(s.boardID, s)
	s.boardID = 0
}

func (h *SessionHandler) sendControl(s *Session, msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if !s.trySend(payload) {
		h.logger.Warn("Control message dropped, session closed or buffer full",
			zap.String("session_id", s.id.String()))
	}
}

func (h *SessionHandler) writePump(s *Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
