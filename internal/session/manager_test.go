package session

import (
	"context"
	"testing"
	"time"
)

func TestManagerCreateAttachEnd(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("Mary Jones", "1990-05-15", "nova")
	if s.ID == "" {
		t.Fatalf("conversation ID should not be empty")
	}
	if s.Status != StatusStarting {
		t.Fatalf("new conversation status = %q, want %q", s.Status, StatusStarting)
	}
	if s.Token == "" {
		t.Fatalf("conversation token should not be empty")
	}

	got, err := m.Attach(s.ID, s.Token)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if got.Status != StatusActive {
		t.Fatalf("attached status = %q, want %q", got.Status, StatusActive)
	}
	if got.ParticipantName != "Mary Jones" || got.BirthDate != "1990-05-15" {
		t.Fatalf("unexpected conversation state: %+v", got)
	}

	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusEnded {
		t.Fatalf("ended status = %q, want %q", ended.Status, StatusEnded)
	}
}

func TestManagerAttachRejectsBadToken(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("Mary Jones", "", "")

	if _, err := m.Attach(s.ID, "wrong-token"); err != ErrBadToken {
		t.Fatalf("Attach() error = %v, want %v", err, ErrBadToken)
	}
	if _, err := m.Attach("no-such-id", s.Token); err != ErrNotFound {
		t.Fatalf("Attach() error = %v, want %v", err, ErrNotFound)
	}
}

func TestManagerAttachRejectsTerminated(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("Mary Jones", "", "")
	if _, err := m.End(s.ID); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if _, err := m.Attach(s.ID, s.Token); err != ErrTerminated {
		t.Fatalf("Attach() after End = %v, want %v", err, ErrTerminated)
	}
}

func TestManagerFailIsTerminal(t *testing.T) {
	m := NewManager(time.Minute)
	s := m.Create("Mary Jones", "", "")

	failed, err := m.Fail(s.ID)
	if err != nil {
		t.Fatalf("Fail() error = %v", err)
	}
	if failed.Status != StatusFailed {
		t.Fatalf("failed status = %q, want %q", failed.Status, StatusFailed)
	}

	// Ending a failed conversation must not resurrect or relabel it.
	ended, err := m.End(s.ID)
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}
	if ended.Status != StatusFailed {
		t.Fatalf("status after End on failed = %q, want %q", ended.Status, StatusFailed)
	}
}

func TestManagerJanitorExpiresInactive(t *testing.T) {
	m := NewManager(30 * time.Millisecond)
	s := m.Create("Mary Jones", "", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartJanitor(ctx, 10*time.Millisecond)

	time.Sleep(90 * time.Millisecond)
	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusEnded {
		t.Fatalf("Status = %q, want %q", got.Status, StatusEnded)
	}
}
