package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionManager(t *testing.T) {
	sm := NewSessionManager(DefaultSessionConfig(), 2, discardLogger())
	var created, closed atomic.Int32
	sm.SetOnSessionCreate(func(*Session) { created.Add(1) })
	sm.SetOnSessionClose(func(*Session) { closed.Add(1) })

	a, err := sm.Create(nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b, err := sm.Create(nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.CartID() == "" || a.CartID() == b.CartID() {
		t.Errorf("cart ids %q and %q", a.CartID(), b.CartID())
	}
	if _, err := sm.Create(nil); !errors.Is(err, ErrMaxSessionsReached) {
		t.Fatalf("third Create() error = %v, want ErrMaxSessionsReached", err)
	}
	if sm.Get(a.ID) != a {
		t.Error("Get() did not return the session")
	}

	var order []string
	sm.ForEach(func(s *Session) bool {
		order = append(order, s.ID)
		return true
	})
	if len(order) != 2 {
		t.Errorf("ForEach visited %d sessions", len(order))
	}

	sm.Close(a.ID)
	sm.Close(a.ID)
	if !a.IsClosed() {
		t.Error("session not closed")
	}
	if sm.Get(a.ID) != nil || sm.Count() != 1 {
		t.Errorf("Count() = %d after close", sm.Count())
	}

	sm.Shutdown()
	if sm.Count() != 0 || !b.IsClosed() {
		t.Errorf("Shutdown left %d sessions", sm.Count())
	}
	if _, err := sm.Create(nil); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("Create() after shutdown error = %v", err)
	}

	stats := sm.Stats()
	if stats.TotalCreated != 2 || stats.TotalClosed != 2 || stats.Peak != 2 || stats.Active != 0 {
		t.Errorf("Stats() = %+v", stats)
	}
	if created.Load() != 2 || closed.Load() != 2 {
		t.Errorf("callbacks created=%d closed=%d", created.Load(), closed.Load())
	}
}

func TestSession_Token(t *testing.T) {
	ctx := context.Background()
	s := newSession(nil, DefaultSessionConfig(), discardLogger())
	defer s.Close()
	if s.Authenticated(ctx) {
		t.Error("new session is authenticated")
	}
	s.SetToken("tok")
	if !s.Authenticated(ctx) || s.Token() != "tok" {
		t.Error("token not stored")
	}
	if err := s.NavigateTo(ctx, "/cart"); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("NavigateTo before start error = %v", err)
	}
}

func TestSession_SlowClientIsClosed(t *testing.T) {
	config := DefaultSessionConfig()
	config.SendBuffer = 1
	s := newSession(nil, config, discardLogger())
	s.Emit("toast", map[string]string{"message": "one"})
	s.Emit("toast", map[string]string{"message": "two"})
	<-s.Done()
}
