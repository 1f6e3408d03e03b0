package handlers

import (
	"net/http"

	"github.com/aaronzipp/minequiz/internal/hub"
	"github.com/aaronzipp/minequiz/internal/ws"
)

// HandleWS streams room updates over a WebSocket
func (ctx *Context) HandleWS(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))
	room, memberID, err := ctx.getRoomAndMember(r, roomCode)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	ws.Serve(w, r, room, memberID, hub.Initial(room, memberID))
}
