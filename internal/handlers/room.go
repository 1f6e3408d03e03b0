package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/hub"
	"github.com/aaronzipp/minequiz/internal/render"
)

// HandleRoom displays the room page and joins the device to the room
func (ctx *Context) HandleRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))

	room, exists := ctx.Rooms.Get(roomCode)
	if !exists {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	memberID := ensureMember(w, r, room)

	s := room.Game.Snapshot()
	room.RLock()
	isHost := room.IsHost(memberID)
	room.RUnlock()

	data := struct {
		RoomCode   string
		MemberID   string
		IsHost     bool
		JoinURL    string
		Board      template.HTML
		Scoreboard template.HTML
		Status     template.HTML
		Quiz       template.HTML
		Effect     template.HTML
		Controls   template.HTML
	}{
		RoomCode:   room.Code,
		MemberID:   memberID,
		IsHost:     isHost,
		JoinURL:    ctx.publicURL(r) + "/room/" + room.Code,
		Board:      template.HTML(render.Board(room.Code, s)),
		Scoreboard: template.HTML(render.Scoreboard(s)),
		Status:     template.HTML(render.Status(room.Code, s)),
		Quiz:       template.HTML(render.Quiz(room.Code, s)),
		Effect:     template.HTML(render.Effect(room.Code, s)),
		Controls:   template.HTML(hub.Controls(room, memberID, s)),
	}

	if err := ctx.Templates.ExecuteTemplate(w, "room.html", data); err != nil {
		log.WithError(err).Error("render room")
	}
}
