package convo

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arialabs/aria/internal/observability"
)

const (
	defaultSinkQueueSize = 256
	sinkWriteTimeout     = 5 * time.Second
)

// Sink records turns off the audio path. Submit enqueues and returns
// immediately; a background worker performs the durable write with its own
// timeout. Write failures are logged and counted, never surfaced to the
// caller, and a saturated queue drops the turn rather than blocking the
// live conversation.
type Sink struct {
	store   Store
	metrics *observability.Metrics
	queue   chan Turn
	done    chan struct{}

	// mu orders enqueues against Close so a late Submit from a still-draining
	// connection can never send on a closed queue.
	mu     sync.Mutex
	closed bool
}

func NewSink(store Store, metrics *observability.Metrics, queueSize int) *Sink {
	if queueSize <= 0 {
		queueSize = defaultSinkQueueSize
	}
	s := &Sink{
		store:   store,
		metrics: metrics,
		queue:   make(chan Turn, queueSize),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Submit schedules a durable write for turn and returns without waiting on
// store I/O.
func (s *Sink) Submit(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.queue <- turn:
		s.metrics.TurnWrites.WithLabelValues("queued").Inc()
	default:
		log.Printf("turn sink: queue full, dropping %s turn for conversation %s", turn.Role, turn.ConversationID)
		s.metrics.TurnWrites.WithLabelValues("dropped").Inc()
	}
}

// Close stops intake. In-flight writes finish opportunistically; Close does
// not wait for them.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}

// Done is closed once the worker has drained the queue after Close. Exposed
// for tests; shutdown paths do not wait on it.
func (s *Sink) Done() <-chan struct{} { return s.done }

func (s *Sink) run() {
	defer close(s.done)
	for turn := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sinkWriteTimeout)
		err := s.store.SaveTurn(ctx, turn)
		cancel()
		if err != nil {
			log.Printf("turn sink: save failed for conversation %s: %v", turn.ConversationID, err)
			s.metrics.TurnWrites.WithLabelValues("failed").Inc()
			continue
		}
		s.metrics.TurnWrites.WithLabelValues("written").Inc()
	}
}
