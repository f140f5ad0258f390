package rxapp

import (
	"testing"
	"time"

	"github.com/gofrs/uuid"
)

func TestSessionManager_Get_NonExistent(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: time.Minute})
	defer sm.Close()

	user, ok := sm.Get(uuid.Must(uuid.NewV4()))

	if ok {
		t.Errorf("expected no session, got user %q", user)
	}
}

func TestSessionManager_CreateAndGet(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: time.Minute})
	defer sm.Close()

	id := sm.Create("Sadman")

	user, ok := sm.Get(id)
	if !ok {
		t.Fatal("expected session to exist")
	}
	if user != "Sadman" {
		t.Errorf("expected user Sadman, got %q", user)
	}
	if sm.Len() != 1 {
		t.Errorf("expected 1 session, got %d", sm.Len())
	}
}

func TestSessionManager_Delete(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: time.Minute})
	defer sm.Close()

	id := sm.Create("Sadman")
	sm.Delete(id)

	if _, ok := sm.Get(id); ok {
		t.Error("expected session to be deleted")
	}
}

func TestSessionManager_DefaultIdleTimeout(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{})
	defer sm.Close()

	if sm.IdleTimeout() != DefaultSessionIdleTimeout {
		t.Errorf("expected default idle timeout %v, got %v", DefaultSessionIdleTimeout, sm.IdleTimeout())
	}
}

func TestSessionManager_ExpiresIdleSessions(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: 40 * time.Millisecond})
	defer sm.Close()

	sm.Create("Sadman")

	deadline := time.Now().Add(2 * time.Second)
	for sm.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected idle session to be cleaned up")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSessionManager_ActivityKeepsSessionAlive(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: 200 * time.Millisecond})
	defer sm.Close()

	id := sm.Create("Sadman")

	for range 10 {
		time.Sleep(40 * time.Millisecond)
		if _, ok := sm.Get(id); !ok {
			t.Fatal("expected active session to survive cleanup")
		}
	}
}

func TestSessionManager_CloseDropsSessions(t *testing.T) {
	sm := NewSessionManager(SessionManagerOptions{IdleTimeout: time.Minute})

	sm.Create("a")
	sm.Create("b")
	sm.Close()

	if sm.Len() != 0 {
		t.Errorf("expected no sessions after close, got %d", sm.Len())
	}
}
