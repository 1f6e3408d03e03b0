package handlers

import (
	"html/template"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/render"
)

// HandleResults displays the final standings
func (ctx *Context) HandleResults(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))

	room, exists := ctx.Rooms.Get(roomCode)
	if !exists {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s := room.Game.Snapshot()
	if s.Phase != game.PhaseFinished {
		http.Redirect(w, r, "/room/"+roomCode, http.StatusSeeOther)
		return
	}

	data := struct {
		RoomCode  string
		Standings template.HTML
	}{
		RoomCode:  roomCode,
		Standings: template.HTML(render.Results(s)),
	}
	if err := ctx.Templates.ExecuteTemplate(w, "results.html", data); err != nil {
		log.WithError(err).Error("render results")
	}
}
