package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
)

// HandleAction routes POST /room/{code}/{action}
func (ctx *Context) HandleAction(w http.ResponseWriter, r *http.Request) {
	roomCode := normalizeCode(r.PathValue("code"))
	action := r.PathValue("action")

	room, memberID, err := ctx.getRoomAndMember(r, roomCode)
	if err != nil {
		log.Debugf("HandleAction: %s on %s refused: %v", action, roomCode, err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch action {
	case "start":
		ctx.handleStart(w, room, memberID)
	case "close":
		ctx.handleClose(w, room, memberID)
	case "new-board":
		ctx.handleNewBoard(w, room, memberID)
	case "questions":
		ctx.handleQuestions(w, r, room, memberID)
	case "open", "flag", "unflag", "toggle-flag":
		ctx.handleCell(w, r, room, action)
	case "answer":
		ctx.handleAnswer(w, r, room)
	case "claim":
		writeOutcome(w, room.Game.ClaimEffect())
	case "dismiss":
		writeOutcome(w, room.Game.Dismiss())
	default:
		http.NotFound(w, r)
	}
}

// handleCell opens or flags the cell named by the x and y form values
func (ctx *Context) handleCell(w http.ResponseWriter, r *http.Request, room *models.Room, action string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	x, errX := formInt(r, "x")
	y, errY := formInt(r, "y")
	if errX != nil || errY != nil {
		http.Error(w, "Invalid cell", http.StatusBadRequest)
		return
	}

	var out game.Outcome
	switch action {
	case "open":
		out = room.Game.OpenCell(x, y)
	case "flag":
		out = room.Game.SetFlag(x, y, true)
	case "unflag":
		out = room.Game.SetFlag(x, y, false)
	default:
		out = room.Game.ToggleFlag(x, y)
	}
	log.WithFields(log.Fields{"room": room.Code, "action": action, "x": x, "y": y, "outcome": out}).Debug("cell action")
	writeOutcome(w, out)
}

// handleAnswer selects an option of the open quiz by display index
func (ctx *Context) handleAnswer(w http.ResponseWriter, r *http.Request, room *models.Room) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	i, err := formInt(r, "option")
	if err != nil {
		http.Error(w, "Invalid option", http.StatusBadRequest)
		return
	}
	writeOutcome(w, room.Game.Answer(i))
}
