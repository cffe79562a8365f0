package server

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// SessionManager manages all active sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool

	config      *SessionConfig
	maxSessions int
	logger      *slog.Logger

	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64
	peak         int

	onSessionCreate func(*Session)
	onSessionClose  func(*Session)
}

// ManagerStats contains aggregated session statistics.
type ManagerStats struct {
	Active       int
	TotalCreated uint64
	TotalClosed  uint64
	Peak         int
}

// NewSessionManager creates a SessionManager. maxSessions 0 means unlimited.
func NewSessionManager(config *SessionConfig, maxSessions int, logger *slog.Logger) *SessionManager {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionManager{
		sessions:    make(map[string]*Session),
		config:      config,
		maxSessions: maxSessions,
		logger:      logger.With("component", "sessions"),
	}
}

// SetOnSessionCreate sets a callback run after a session is registered.
func (sm *SessionManager) SetOnSessionCreate(fn func(*Session)) {
	sm.onSessionCreate = fn
}

// SetOnSessionClose sets a callback run after a session is removed.
func (sm *SessionManager) SetOnSessionClose(fn func(*Session)) {
	sm.onSessionClose = fn
}

// Create registers a new session for conn.
func (sm *SessionManager) Create(conn *websocket.Conn) (*Session, error) {
	sm.mu.Lock()
	if sm.closed {
		sm.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		return nil, ErrMaxSessionsReached
	}
	s := newSession(conn, sm.config, sm.logger)
	sm.sessions[s.ID] = s
	if n := len(sm.sessions); n > sm.peak {
		sm.peak = n
	}
	sm.mu.Unlock()

	sm.totalCreated.Add(1)
	if sm.onSessionCreate != nil {
		sm.onSessionCreate(s)
	}
	return s, nil
}

// Get returns a session by id, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close closes and removes a session.
func (sm *SessionManager) Close(id string) {
	sm.mu.Lock()
	s, ok := sm.sessions[id]
	delete(sm.sessions, id)
	sm.mu.Unlock()
	if !ok {
		return
	}
	s.Close()
	sm.totalClosed.Add(1)
	if sm.onSessionClose != nil {
		sm.onSessionClose(s)
	}
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ForEach calls fn for each session in creation order until fn returns false.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	list := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	sm.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	for _, s := range list {
		if !fn(s) {
			return
		}
	}
}

// Stats returns aggregated session statistics.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return ManagerStats{
		Active:       len(sm.sessions),
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
		Peak:         sm.peak,
	}
}

// Shutdown closes every session and refuses new ones.
func (sm *SessionManager) Shutdown() {
	sm.mu.Lock()
	sm.closed = true
	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	sm.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.Close(id)
		}()
	}
	wg.Wait()

	sm.logger.Info("session manager shutdown", "closed_sessions", len(ids))
}
