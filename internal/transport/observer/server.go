// Package observer serves the read-only board feed: a snapshot on
// connect, then one message per world mutation.
package observer

import (
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"botfield.ai/internal/sim/world"
)

const (
	writeTimeout = 5 * time.Second
	outBuffer    = 32
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

func NewServer(w *world.World, logger *log.Logger) *Server {
	return &Server{
		world: w,
		log:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  8 * 1024,
			WriteBufferSize: 8 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sid := fmt.Sprintf("O%d", s.nextID.Add(1))
		out := make(chan []byte, outBuffer)

		select {
		case s.world.ObserverJoin() <- world.ObserverJoinRequest{ID: sid, Out: out}:
		default:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server busy"),
				time.Now().Add(time.Second))
			return
		}
		// Writer: drains snapshots until the world closes the channel
		// (observer dropped) or a write fails. Closing the conn unblocks
		// the read pump below.
		writeDone := make(chan struct{})
		go func() {
			defer close(writeDone)
			for b := range out {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					_ = conn.Close()
					return
				}
			}
			_ = conn.Close()
		}()

		// Read pump: observers have no inbound protocol; frames are read
		// and discarded so a disconnect is noticed promptly.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		_ = conn.Close()

		// Unsubscribe first so the world closes out and the writer can
		// finish; the send is best-effort in case the loop is stopping.
		select {
		case s.world.ObserverLeave() <- sid:
		default:
		}
		select {
		case <-writeDone:
		case <-time.After(500 * time.Millisecond):
		}
	}
}
