package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/config"
	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/hub"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/quiz"
	"github.com/aaronzipp/minequiz/internal/store"
	"github.com/aaronzipp/minequiz/internal/wheel"
)

// Context holds shared application dependencies
type Context struct {
	Rooms     *store.RoomStore
	Templates *template.Template
	Config    *config.Config

	// DefaultBank is used by rooms that never load their own questions
	DefaultBank       []quiz.Question
	DefaultBankSource string

	// Clock drives quiz timers, resets and spins; nil uses the wall clock
	Clock wheel.Clock
}

// HandleIndex serves the landing page
func (ctx *Context) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Teams string
	}{
		Teams: strings.Join(ctx.Config.Teams, "\n"),
	}
	if err := ctx.Templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.WithError(err).Error("render index")
	}
}

// HandleCreate creates a room with its own game and makes the caller host
func (ctx *Context) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	bank, source, err := uploadedBank(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var teams []string
	if raw := strings.TrimSpace(r.FormValue("teams")); raw != "" {
		teams = game.ParseTeams(raw)
	}
	hostID := uuid.New().String()
	room := ctx.Rooms.Create(func(code string) *models.Room {
		return ctx.newRoom(code, hostID, teams)
	})
	if bank != nil {
		room.Lock()
		room.Bank, room.BankSource = bank, source
		room.Unlock()
	}

	log.Printf("Created room: code=%s host=%s teams=%d", room.Code, hostID, len(room.Teams))

	setMemberCookie(w, hostID)
	w.Header().Set("HX-Redirect", "/room/"+room.Code)
	w.WriteHeader(http.StatusOK)
}

// HandleJoin sends a device to the room named in the form
func (ctx *Context) HandleJoin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	code := normalizeCode(r.FormValue("code"))
	if code == "" {
		http.Error(w, "Room code is required", http.StatusBadRequest)
		return
	}
	if !ctx.Rooms.Exists(code) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	w.Header().Set("HX-Redirect", "/room/"+code)
	w.WriteHeader(http.StatusOK)
}

// newRoom wires a room to its game, hub and wheel
func (ctx *Context) newRoom(code, hostID string, teams []string) *models.Room {
	cfg := ctx.Config.Game(teams)
	room := models.NewRoom(code, hostID, cfg.Teams)
	if len(ctx.DefaultBank) > 0 {
		room.Bank = ctx.DefaultBank
		room.BankSource = ctx.DefaultBankSource
	}

	clock := ctx.Clock
	if clock == nil {
		clock = wheel.RealClock{}
	}
	h := hub.New(room)
	src := wheel.NewSource(wheel.NewSeed())
	spinner := &wheel.Animated{
		Picker:   wheel.Immediate{Source: src},
		Surface:  h,
		Clock:    clock,
		Duration: ctx.Config.SpinDuration(),
	}
	room.Game = game.New(cfg, game.Deps{
		Source:   src,
		Clock:    clock,
		Spinner:  spinner,
		Observer: h,
	})
	return room
}
