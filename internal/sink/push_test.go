package sink

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSubscriber struct {
	id      string
	mu      sync.Mutex
	got     [][]byte
	failing bool
}

func (f *fakeSubscriber) ID() string { return f.id }

func (f *fakeSubscriber) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errors.New("fake send failure")
	}
	f.got = append(f.got, payload)
	return nil
}

func (f *fakeSubscriber) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestSinkFanOutDeliversToAllSubscribers(t *testing.T) {
	s := NewSink(4)
	a := &fakeSubscriber{id: "a"}
	b := &fakeSubscriber{id: "b"}
	s.Attach(a)
	s.Attach(b)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	if err := s.Publish([]byte("hello")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if a.received() == 1 && b.received() == 1 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("subscribers did not both receive the message: a=%d b=%d", a.received(), b.received())
}

func TestSinkDetachesFailingSubscriber(t *testing.T) {
	s := NewSink(4)
	bad := &fakeSubscriber{id: "bad", failing: true}
	s.Attach(bad)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	if err := s.Publish([]byte("hello")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		n := len(s.subscribers)
		s.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("failing subscriber was not detached")
}

func TestSinkPublishAfterCloseFails(t *testing.T) {
	s := NewSink(1)
	s.Close()
	if err := s.Publish([]byte("x")); err != ErrSinkClosed {
		t.Fatalf("Publish() after Close() = %v, want ErrSinkClosed", err)
	}
}

func TestSinkPublishFullQueueFails(t *testing.T) {
	s := NewSink(1)
	if err := s.Publish([]byte("first")); err != nil {
		t.Fatalf("first Publish() error = %v", err)
	}
	if err := s.Publish([]byte("second")); err != ErrSinkFull {
		t.Fatalf("second Publish() = %v, want ErrSinkFull", err)
	}
}
