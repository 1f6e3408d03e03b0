package handlers

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/hub"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/render"
	"github.com/aaronzipp/minequiz/internal/sse"
)

// handleStart begins a game with the room's question bank
func (ctx *Context) handleStart(w http.ResponseWriter, room *models.Room, memberID string) {
	room.RLock()
	isHost := room.IsHost(memberID)
	bank := room.Bank
	room.RUnlock()

	if !isHost {
		log.Printf("handleStart: member %s is not host of %s", memberID, room.Code)
		http.Error(w, "Only host can start game", http.StatusForbidden)
		return
	}
	if len(bank) == 0 {
		http.Error(w, "Load a question bank first", http.StatusBadRequest)
		return
	}

	if err := room.Game.Start(bank); err != nil {
		if errors.Is(err, game.ErrAlreadyRunning) {
			http.Error(w, "Game already in progress", http.StatusConflict)
			return
		}
		log.WithError(err).Errorf("handleStart: room %s", room.Code)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("Started game: room=%s questions=%d", room.Code, len(bank))
	w.WriteHeader(http.StatusNoContent)
}

// handleNewBoard restarts play on a fresh board
func (ctx *Context) handleNewBoard(w http.ResponseWriter, room *models.Room, memberID string) {
	room.RLock()
	isHost := room.IsHost(memberID)
	room.RUnlock()
	if !isHost {
		http.Error(w, "Only host can deal a new board", http.StatusForbidden)
		return
	}
	if room.Game.Busy() {
		http.Error(w, "Finish the open quiz or wheel first", http.StatusConflict)
		return
	}
	writeOutcome(w, room.Game.NewBoard())
}

// handleClose ends the room for every device and forgets it
func (ctx *Context) handleClose(w http.ResponseWriter, room *models.Room, memberID string) {
	room.RLock()
	isHost := room.IsHost(memberID)
	room.RUnlock()
	if !isHost {
		log.Printf("handleClose: member %s is not host of %s", memberID, room.Code)
		http.Error(w, "Only host can close the room", http.StatusForbidden)
		return
	}

	room.Game.Close()
	sse.Broadcast(room, sse.EventNavRedirect, render.RedirectSnippet("/"))
	ctx.Rooms.Delete(room.Code)
	log.Printf("Closed room: code=%s", room.Code)

	w.Header().Set("HX-Redirect", "/")
	w.WriteHeader(http.StatusOK)
}

// handleQuestions replaces the room's question bank. A running game keeps
// the bank it started with.
func (ctx *Context) handleQuestions(w http.ResponseWriter, r *http.Request, room *models.Room, memberID string) {
	room.RLock()
	isHost := room.IsHost(memberID)
	room.RUnlock()
	if !isHost {
		http.Error(w, "Only host can load questions", http.StatusForbidden)
		return
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	bank, source, err := uploadedBank(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if bank == nil {
		http.Error(w, "No questions provided", http.StatusBadRequest)
		return
	}
	switch room.Game.Snapshot().Phase {
	case game.PhaseWaiting, game.PhaseFinished:
	default:
		http.Error(w, "Game in progress", http.StatusConflict)
		return
	}

	room.Lock()
	room.Bank, room.BankSource = bank, source
	room.Unlock()
	log.Printf("Loaded questions: room=%s source=%s count=%d", room.Code, source, len(bank))

	s := room.Game.Snapshot()
	sse.BroadcastPersonalized(room, func(mid string) string {
		return hub.Controls(room, mid, s)
	}, sse.EventControlsUpdate)
	w.WriteHeader(http.StatusNoContent)
}
