package convo

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/arialabs/aria/internal/observability"
)

type slowStore struct {
	mu    sync.Mutex
	delay time.Duration
	err   error
	saved []Turn
}

func (s *slowStore) SaveTurn(ctx context.Context, turn Turn) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.saved = append(s.saved, turn)
	s.mu.Unlock()
	return nil
}

func (s *slowStore) ListTurns(context.Context, string, int, int) ([]Turn, error) {
	return nil, nil
}

func (s *slowStore) Close() error { return nil }

func (s *slowStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestSinkSubmitReturnsImmediatelyWithSlowStore(t *testing.T) {
	store := &slowStore{delay: 300 * time.Millisecond}
	sink := NewSink(store, observability.NewMetrics("sink_slow_test"), 8)
	defer sink.Close()

	start := time.Now()
	sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "hello"})
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("Submit took %v, want well under store latency", elapsed)
	}
}

func TestSinkWritesEventually(t *testing.T) {
	store := &slowStore{}
	sink := NewSink(store, observability.NewMetrics("sink_write_test"), 8)

	sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "one"})
	sink.Submit(Turn{ConversationID: "c1", Role: RoleAssistant, Content: "two"})
	sink.Close()

	select {
	case <-sink.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sink did not drain in time")
	}
	if got := store.savedCount(); got != 2 {
		t.Fatalf("saved turns = %d, want 2", got)
	}
}

func TestSinkSwallowsStoreErrors(t *testing.T) {
	store := &slowStore{err: errors.New("store down")}
	sink := NewSink(store, observability.NewMetrics("sink_err_test"), 8)

	// Must not panic or block the caller.
	sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "hello"})
	sink.Close()

	select {
	case <-sink.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("sink did not drain in time")
	}
}

func TestSinkSubmitRacingCloseDoesNotPanic(t *testing.T) {
	for round := 0; round < 50; round++ {
		sink := NewSink(&slowStore{}, observability.NewMetrics("sink_race_test_"+strconv.Itoa(round)), 4)

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "x"})
				}
			}()
		}
		sink.Close()
		wg.Wait()

		// Submit after Close is a quiet no-op.
		sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "late"})
	}
}

func TestSinkDropsWhenQueueFull(t *testing.T) {
	store := &slowStore{delay: time.Second}
	sink := NewSink(store, observability.NewMetrics("sink_full_test"), 1)
	defer sink.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			sink.Submit(Turn{ConversationID: "c1", Role: RoleUser, Content: "x"})
		}
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Submit blocked on a saturated queue")
	}
}

func TestInMemoryStoreOrdersByTimestampNotWriteOrder(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Write completion order deliberately scrambled relative to timestamps.
	for _, i := range []int{2, 0, 3, 1} {
		err := store.SaveTurn(ctx, Turn{
			ID:             string(rune('a' + i)),
			ConversationID: "c1",
			Role:           RoleUser,
			Content:        "turn",
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}

	turns, err := store.ListTurns(ctx, "c1", 1, 50)
	if err != nil {
		t.Fatalf("ListTurns() error = %v", err)
	}
	if len(turns) != 4 {
		t.Fatalf("ListTurns() returned %d turns, want 4", len(turns))
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Timestamp.Before(turns[i-1].Timestamp) {
			t.Fatalf("turns out of order at %d: %v before %v", i, turns[i].Timestamp, turns[i-1].Timestamp)
		}
	}
}

func TestInMemoryStorePagination(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.SaveTurn(ctx, Turn{
			ConversationID: "c1",
			Role:           RoleUser,
			Content:        "turn",
			Timestamp:      base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}

	page1, err := store.ListTurns(ctx, "c1", 1, 2)
	if err != nil {
		t.Fatalf("ListTurns(page 1) error = %v", err)
	}
	page3, err := store.ListTurns(ctx, "c1", 3, 2)
	if err != nil {
		t.Fatalf("ListTurns(page 3) error = %v", err)
	}
	if len(page1) != 2 || len(page3) != 1 {
		t.Fatalf("page sizes = %d, %d, want 2, 1", len(page1), len(page3))
	}
	if !page1[0].Timestamp.Equal(base) {
		t.Fatalf("page 1 starts at %v, want %v", page1[0].Timestamp, base)
	}

	empty, err := store.ListTurns(ctx, "c1", 9, 2)
	if err != nil {
		t.Fatalf("ListTurns(page 9) error = %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("past-the-end page returned %d turns, want 0", len(empty))
	}
}
