package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Registry tracks which websocket sessions are attached to which board.
// A session appears under at most one board at a time; boards with no
// sessions are pruned from the map.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint]map[*Session]bool
	logger   *zap.Logger
}

// NewRegistry creates an empty Registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sessions: make(map[uint]map[*Session]bool),
		logger:   logger,
	}
}

// Register attaches a session to a board
func (r *Registry) Register(boardID uint, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sessions[boardID] == nil {
		r.sessions[boardID] = make(map[*Session]bool)
	}
	r.sessions[boardID][s] = true

	r.logger.Debug("Session registered",
		zap.Uint("board_id", boardID),
		zap.Int("connections", len(r.sessions[boardID])))
}

// Unregister detaches a session from a board. Unknown sessions are a
// no-op so disconnect cleanup can run unconditionally.
func (r *Registry) Unregister(boardID uint, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions, ok := r.sessions[boardID]
	if !ok {
		return
	}
	if _, exists := sessions[s]; !exists {
		return
	}
	delete(sessions, s)
	if len(sessions) == 0 {
		delete(r.sessions, boardID)
	}
}

// Broadcast delivers a payload to every session on the board. Sessions
// whose outbound buffer is full are dropped from the board; their write
// pump shuts the connection down. An unknown board is a no-op.
func (r *Registry) Broadcast(boardID uint, payload []byte) {
	r.mu.RLock()
	targets := make([]*Session, 0, len(r.sessions[boardID]))
	for s := range r.sessions[boardID] {
		targets = append(targets, s)
	}
	r.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	var dead []*Session
	for _, s := range targets {
		if !s.trySend(payload) {
			dead = append(dead, s)
		}
	}

	for _, s := range dead {
		r.Unregister(boardID, s)
		s.closeSend()
		r.logger.Warn("Dropped unresponsive session",
			zap.Uint("board_id", boardID),
			zap.Uint("user_id", s.userID))
	}
}

// Count returns the number of sessions attached to a board
func (r *Registry) Count(boardID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions[boardID])
}

// Boards returns every board id with at least one attached session
func (r *Registry) Boards() []uint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
