package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/hub"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/render"
	"github.com/aaronzipp/minequiz/internal/sse"
)

// HandleSSE handles Server-Sent Events for real-time updates
func (ctx *Context) HandleSSE(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	room, memberID, err := ctx.getRoomAndMember(r, roomCode)
	if err != nil {
		// Not a member or unknown room: send the device back through the room page
		log.Debugf("handleSSE: %s refused: %v", roomCode, err)
		to := "/"
		if ctx.Rooms.Exists(roomCode) {
			to = "/room/" + roomCode
		}
		writeEvent(w, sse.EventNavRedirect, render.RedirectSnippet(to))
		flusher.Flush()
		return
	}

	// Create client channel
	clientChan := make(chan models.SSEMessage, game.SSEBufferSize)
	sse.AddClient(room, clientChan, memberID)
	defer sse.RemoveClient(room, clientChan)

	log.WithFields(log.Fields{"room": roomCode, "member": memberID, "clients": sse.ClientCount(room)}).Info("handleSSE: client connected")

	for _, msg := range hub.Initial(room, memberID) {
		writeEvent(w, msg.Event, msg.Data)
	}
	flusher.Flush()

	// Listen for updates
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			log.Printf("handleSSE: client %s disconnected", memberID)
			return
		case msg := <-clientChan:
			log.Debugf("handleSSE: sending event=%s to member %s", msg.Event, memberID)
			writeEvent(w, msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event, prefixing every line of data
func writeEvent(w io.Writer, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}
