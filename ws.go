package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/codecravings/game-builder/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// frameMessage is one streamed frame plus the state it was rendered
// from.
type frameMessage struct {
	Frame     string          `json:"frame"`
	GameState engine.Snapshot `json:"game_state"`
	Timestamp float64         `json:"timestamp"`
}

// controlMessage is what the client may send back over the stream.
type controlMessage struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

// handleStream pushes rendered frames over a WebSocket at the
// configured frame rate until the client goes away. Each tick advances
// the simulation exactly once, same as the polling frame endpoints.
func (s *server) handleStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	if err := s.sess.withEngine(func(*engine.Engine) error { return nil }); err != nil {
		conn.WriteJSON(gin.H{"error": "No game initialized"})
		return
	}

	// The read loop doubles as disconnect detection: it applies
	// input/reset control messages until the client hangs up.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg controlMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				s.log.Debug().Err(err).Msg("discarding malformed websocket message")
				continue
			}
			switch msg.Type {
			case "input":
				keys := normalizeKeys(msg.Keys)
				if err := s.sess.withEngine(func(e *engine.Engine) error {
					return e.ApplyInput(keys)
				}); err != nil {
					s.log.Debug().Err(err).Msg("websocket input dropped")
				}
			case "reset":
				if err := s.sess.withEngine(func(e *engine.Engine) error {
					return e.Reset()
				}); err != nil {
					s.log.Debug().Err(err).Msg("websocket reset dropped")
				}
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.Game.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			s.log.Debug().Msg("websocket client disconnected")
			return
		case <-ticker.C:
			buf, snap, err := s.stepAndRender()
			if err != nil {
				if errors.Is(err, errNoSession) {
					conn.WriteJSON(gin.H{"error": "No game initialized"})
				} else {
					conn.WriteJSON(gin.H{"error": err.Error()})
				}
				return
			}

			msg := frameMessage{
				Frame:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
				GameState: snap,
				Timestamp: float64(time.Now().UnixNano()) / 1e9,
			}
			if err := conn.WriteJSON(msg); err != nil {
				s.log.Debug().Err(err).Msg("websocket write failed, closing stream")
				return
			}
		}
	}
}
