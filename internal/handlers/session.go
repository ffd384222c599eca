// internal/handlers/session.go
package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OutboundMessage is one frame on the wire: a named event with a single
// JSON payload.
type OutboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Session is one authenticated websocket connection. The session id is
// server-assigned at handshake and stable for the connection's lifetime.
type Session struct {
	ID     uuid.UUID
	UserID int64
	Email  string

	Cancel  context.CancelFunc
	OutChan chan OutboundMessage

	log *logrus.Logger
}

// NewSession allocates a session with a fresh server-assigned id.
func NewSession(userID int64, email string, cancel context.CancelFunc, log *logrus.Logger) *Session {
	return &Session{
		ID:      uuid.New(),
		UserID:  userID,
		Email:   email,
		Cancel:  cancel,
		OutChan: make(chan OutboundMessage, 32),
		log:     log,
	}
}

// Send queues an event for the write pump. It never blocks: if the client
// is too slow to drain its channel the message is dropped, and the write
// pump's next failure tears the connection down.
func (s *Session) Send(event string, data interface{}) {
	select {
	case s.OutChan <- OutboundMessage{Event: event, Data: data}:
	default:
		s.log.WithFields(logrus.Fields{
			"session": s.ID,
			"event":   event,
		}).Warn("outbound channel full, dropping message")
	}
}

// SessionStore tracks every live authenticated session. It implements
// game.Sender, so the hub can emit to single sessions and broadcast to all.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	log      *logrus.Logger
}

func NewSessionStore(log *logrus.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[uuid.UUID]*Session),
		log:      log,
	}
}

// Add registers a freshly authenticated session.
func (st *SessionStore) Add(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID] = s
}

// Remove drops a session on channel close.
func (st *SessionStore) Remove(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Get returns a live session, if any.
func (st *SessionStore) Get(id uuid.UUID) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Send delivers an event to one session. Unknown ids are ignored; the
// session may have disconnected between mutation and emission.
func (st *SessionStore) Send(sessionID uuid.UUID, event string, payload interface{}) {
	st.mu.Lock()
	s, ok := st.sessions[sessionID]
	st.mu.Unlock()
	if !ok {
		return
	}
	s.Send(event, payload)
}

// Broadcast delivers an event to every live session.
func (st *SessionStore) Broadcast(event string, payload interface{}) {
	st.mu.Lock()
	targets := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		targets = append(targets, s)
	}
	st.mu.Unlock()

	for _, s := range targets {
		s.Send(event, payload)
	}
}
