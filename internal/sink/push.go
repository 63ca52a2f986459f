package sink

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/yanun0323/logs"
)

var (
	// ErrSinkFull is returned when the outbound queue has no room.
	ErrSinkFull = errors.New("sink: queue full")
	// ErrSinkClosed is returned once the sink has been closed.
	ErrSinkClosed = errors.New("sink: closed")
)

// Subscriber receives fanned-out messages. A Send failure detaches the
// subscriber (spec.md §6: "a subscriber whose send fails is detached").
type Subscriber interface {
	Send(payload []byte) error
	ID() string
}

// Sink is a thread-safe FIFO of pre-serialized messages, drained by a
// background goroutine that fans them out to every attached subscriber in
// attachment order. Delivery is best-effort. Grounded on the teacher's
// non-blocking bounded queue (internal/bus/queue.go), generalized from a
// single consumer handler to a list of subscribers fanned out in order.
type Sink struct {
	mu          sync.Mutex
	subscribers []Subscriber

	queue  chan []byte
	closed atomic.Bool
}

// NewSink creates a sink with the given outbound queue capacity.
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = 1
	}
	return &Sink{queue: make(chan []byte, capacity)}
}

// Attach registers a subscriber, appended after any already attached.
func (s *Sink) Attach(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, sub)
}

// Detach removes a subscriber by identity.
func (s *Sink) Detach(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLocked(sub)
}

func (s *Sink) detachLocked(sub Subscriber) {
	for i, existing := range s.subscribers {
		if existing == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Publish enqueues payload without blocking.
func (s *Sink) Publish(payload []byte) error {
	if s.closed.Load() {
		return ErrSinkClosed
	}
	select {
	case s.queue <- payload:
		return nil
	default:
		return ErrSinkFull
	}
}

// Close stops the sink from accepting new messages.
func (s *Sink) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.queue)
	}
}

// Run drains the queue until ctx is done or the sink is closed, fanning
// each message out to every attached subscriber in attachment order.
func (s *Sink) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-s.queue:
			if !ok {
				return
			}
			s.fanOut(payload)
		}
	}
}

func (s *Sink) fanOut(payload []byte) {
	s.mu.Lock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	var failed []Subscriber
	for _, sub := range subs {
		if err := sub.Send(payload); err != nil {
			logs.Warnf("sink: subscriber %s send failed, detaching: %v", sub.ID(), err)
			failed = append(failed, sub)
		}
	}
	if len(failed) == 0 {
		return
	}
	s.mu.Lock()
	for _, sub := range failed {
		s.detachLocked(sub)
	}
	s.mu.Unlock()
}
