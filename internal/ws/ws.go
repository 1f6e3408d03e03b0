// Package ws pushes room updates over a WebSocket for screens that cannot
// use Server-Sent Events. Frames carry the same events as the SSE stream.
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/sse"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
	maxMessage = 1 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Screens join from any device on the network through the QR link
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame is one pushed event
type Frame struct {
	Event string `json:"event"`
	Data  string `json:"data"`
}

// Serve upgrades the request and streams room events until the peer goes
// away. initial is written before any broadcast.
func Serve(w http.ResponseWriter, r *http.Request, room *models.Room, memberID string, initial []models.SSEMessage) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("ws: upgrade failed")
		return
	}
	defer conn.Close()

	client := make(chan models.SSEMessage, game.SSEBufferSize)
	sse.AddClient(room, client, memberID)
	defer sse.RemoveClient(room, client)

	logger := log.WithFields(log.Fields{"room": room.Code, "member": memberID})
	logger.Info("ws: client connected")

	// Basic timeouts + pong handling
	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// The read loop only notices the peer leaving
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.WithError(err).Warn("ws: read")
				}
				return
			}
		}
	}()

	for _, msg := range initial {
		if err := write(conn, msg); err != nil {
			logger.WithError(err).Debug("ws: write initial")
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			logger.Info("ws: client disconnected")
			return
		case <-r.Context().Done():
			return
		case msg := <-client:
			if err := write(conn, msg); err != nil {
				logger.WithError(err).Debug("ws: write")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func write(conn *websocket.Conn, msg models.SSEMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(Frame{Event: msg.Event, Data: msg.Data})
}
