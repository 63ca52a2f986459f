// Package dashboard serves the push sink's opportunity stream to browser
// subscribers over WebSocket (spec.md §6). Grounded in structure on the
// gorilla/websocket server pattern used across the retrieved pack (upgrade
// on HTTP, one goroutine per connection writing from a buffered channel);
// the fan-out/detach contract itself lives in internal/sink.Sink, which this
// package's connWriter satisfies as a Subscriber.
package dashboard

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yanun0323/logs"

	"main/internal/sink"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server exposes a Sink's opportunity stream over /ws.
type Server struct {
	sink *sink.Sink

	mu     sync.Mutex
	nextID uint64
}

// New wraps sink for WebSocket delivery.
func New(s *sink.Sink) *Server {
	return &Server{sink: s}
}

// Handler returns the /ws upgrade handler.
func (s *Server) Handler() http.HandlerFunc {
	return s.serveWS
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logs.Warnf("dashboard: upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	c := newConnWriter(id, conn)
	s.sink.Attach(c)
	go c.run(func() { s.sink.Detach(c) })
}
