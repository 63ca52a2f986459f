package dashboard

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"main/internal/sink"
)

// sendQueueDepth bounds how far a slow browser client can lag before Send
// fails and the sink detaches it instead of blocking the fan-out (spec.md §6:
// "a subscriber whose send fails is detached"). Detaching does not close the
// socket; it stays open until the peer closes it or a write fails.
const sendQueueDepth = 64

const writeTimeout = 5 * time.Second

// connWriter adapts one WebSocket connection to sink.Subscriber.
type connWriter struct {
	id   uint64
	conn *websocket.Conn

	queue  chan []byte
	closed atomic.Bool
}

func newConnWriter(id uint64, conn *websocket.Conn) *connWriter {
	return &connWriter{
		id:    id,
		conn:  conn,
		queue: make(chan []byte, sendQueueDepth),
	}
}

// ID implements sink.Subscriber.
func (c *connWriter) ID() string {
	return fmt.Sprintf("dashboard-conn-%d", c.id)
}

// Send implements sink.Subscriber: enqueues payload for the writer goroutine
// without blocking the fan-out loop.
func (c *connWriter) Send(payload []byte) error {
	if c.closed.Load() {
		return sink.ErrSinkClosed
	}
	select {
	case c.queue <- payload:
		return nil
	default:
		return fmt.Errorf("dashboard: connection %d send queue full", c.id)
	}
}

// run drains the outbound queue to the socket and watches for the peer
// closing the connection, calling onClose exactly once either way.
func (c *connWriter) run(onClose func()) {
	done := make(chan struct{})
	go c.readPump(done)

	defer func() {
		c.closed.Store(true)
		c.conn.Close()
		onClose()
	}()

	for {
		select {
		case <-done:
			return
		case payload := <-c.queue:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; it exists only to notice the peer
// closing the connection, per gorilla/websocket's documented read-pump
// requirement.
func (c *connWriter) readPump(done chan struct{}) {
	defer close(done)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
