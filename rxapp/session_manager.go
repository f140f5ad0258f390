package rxapp

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

// DefaultSessionIdleTimeout is how long a sign-in stays valid without requests.
const DefaultSessionIdleTimeout = 30 * time.Minute

type sessionState struct {
	username   string
	lastActive time.Time
}

// SessionManager tracks signed-in browser sessions and expires idle ones.
type SessionManager struct {
	sessions   map[uuid.UUID]*sessionState
	sessionsMu sync.RWMutex

	idleTimeout time.Duration
	logger      *slog.Logger

	cleanupCtx       context.Context
	cleanupCtxCancel context.CancelFunc
}

type SessionManagerOptions struct {
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// NewSessionManager creates a SessionManager and starts its cleanup goroutine.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	idleTimeout := opts.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cleanupCtx, cleanupCtxCancel := context.WithCancel(context.Background())

	sm := &SessionManager{
		sessions:         make(map[uuid.UUID]*sessionState),
		idleTimeout:      idleTimeout,
		logger:           logger,
		cleanupCtx:       cleanupCtx,
		cleanupCtxCancel: cleanupCtxCancel,
	}

	go sm.cleanupLoop()

	return sm
}

// Create starts a session for username.
func (sm *SessionManager) Create(username string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())

	sm.sessionsMu.Lock()
	sm.sessions[id] = &sessionState{username: username, lastActive: time.Now()}
	sm.sessionsMu.Unlock()

	return id
}

// Get returns the user of a live session and marks it active.
func (sm *SessionManager) Get(id uuid.UUID) (string, bool) {
	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	state, exists := sm.sessions[id]
	if !exists {
		return "", false
	}
	state.lastActive = time.Now()
	return state.username, true
}

func (sm *SessionManager) Delete(id uuid.UUID) {
	sm.sessionsMu.Lock()
	delete(sm.sessions, id)
	sm.sessionsMu.Unlock()
}

// Len returns the number of live sessions.
func (sm *SessionManager) Len() int {
	sm.sessionsMu.RLock()
	defer sm.sessionsMu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) IdleTimeout() time.Duration {
	return sm.idleTimeout
}

// Close stops the cleanup goroutine and drops all sessions.
func (sm *SessionManager) Close() {
	sm.cleanupCtxCancel()

	sm.sessionsMu.Lock()
	clear(sm.sessions)
	sm.sessionsMu.Unlock()
}

func (sm *SessionManager) cleanupLoop() {
	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-sm.cleanupCtx.Done():
			return
		case <-ticker.C:
			sm.cleanupIdleSessions()
		}
	}
}

func (sm *SessionManager) cleanupIdleSessions() {
	now := time.Now()

	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	for id, state := range sm.sessions {
		if idle := now.Sub(state.lastActive); idle > sm.idleTimeout {
			sm.logger.Debug("Expiring idle session", "session", id, "user", state.username, "idle", idle)
			delete(sm.sessions, id)
		}
	}
}
