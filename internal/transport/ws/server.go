// Package ws serves the bot protocol: one websocket per bot, one JSON
// update in, one reply out, per tick.
package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"botfield.ai/internal/protocol"
	"botfield.ai/internal/sim/world"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
)

type Server struct {
	world *world.World
	log   *log.Logger

	upgrader websocket.Upgrader
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

// Handler runs the per-connection session loop. The protocol is strictly
// request-response, so a single goroutine both reads and writes; the
// session ends when the client disconnects or the bot dies.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}

			upd, err := protocol.DecodeUpdate(msg)
			if err != nil {
				// Malformed input is recoverable; the session stays open.
				if err := writeJSON(conn, protocol.ErrorReply{Error: "invalid data"}); err != nil {
					return
				}
				continue
			}

			resp := make(chan world.UpdateResult, 1)
			s.world.Updates() <- world.UpdateRequest{Msg: upd, Resp: resp}
			res := <-resp

			if res.Err != "" {
				if err := writeJSON(conn, protocol.ErrorReply{Error: res.Err}); err != nil {
					return
				}
				continue
			}
			if err := writeJSON(conn, res.Reply); err != nil {
				return
			}
			if res.Dead {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "dead"),
					time.Now().Add(time.Second))
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
