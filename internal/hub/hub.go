// Package hub connects a room's game to its connected devices. It turns
// game snapshots and notices into broadcast fragments and plays wheel spins
// on every screen.
package hub

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
	"github.com/aaronzipp/minequiz/internal/render"
	"github.com/aaronzipp/minequiz/internal/sse"
)

// ErrNoViewers is returned when a spin has no screen to play on
var ErrNoViewers = errors.New("no connected screens")

// Hub publishes one room
type Hub struct {
	room *models.Room

	mu      sync.Mutex
	version uint64
}

// New creates the hub for room
func New(room *models.Room) *Hub {
	return &Hub{room: room}
}

// Changed broadcasts every fragment of s. Snapshots older than the last one
// sent are dropped.
func (h *Hub) Changed(s game.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.Version <= h.version {
		log.WithFields(log.Fields{"room": h.room.Code, "version": s.Version}).Debug("dropping stale snapshot")
		return
	}
	h.version = s.Version

	for _, msg := range Fragments(h.room.Code, s) {
		sse.Broadcast(h.room, msg.Event, msg.Data)
	}
	sse.BroadcastPersonalized(h.room, func(memberID string) string {
		return Controls(h.room, memberID, s)
	}, sse.EventControlsUpdate)
}

// Announce broadcasts a notice. The end of the game also sends every
// screen to the results page.
func (h *Hub) Announce(n game.Notice) {
	log.WithFields(log.Fields{"room": h.room.Code, "kind": n.Kind}).Info(n.Message)
	sse.Broadcast(h.room, sse.EventNotice, render.Notice(n))
	if n.Kind == game.NoticeGameOver {
		sse.Broadcast(h.room, sse.EventNavRedirect, render.RedirectSnippet("/room/"+h.room.Code+"/results"))
	}
}

// Animate plays a spin towards target on every screen
func (h *Hub) Animate(labels []string, target int, d time.Duration) error {
	if sse.ClientCount(h.room) == 0 {
		return ErrNoViewers
	}
	if sse.Broadcast(h.room, sse.EventWheelSpin, render.Wheel(labels, target, d)) == 0 {
		return ErrNoViewers
	}
	return nil
}

// Fragments renders the shared parts of the room page for s
func Fragments(code string, s game.Snapshot) []models.SSEMessage {
	return []models.SSEMessage{
		{Event: sse.EventBoardUpdate, Data: render.Board(code, s)},
		{Event: sse.EventScoreUpdate, Data: render.Scoreboard(s)},
		{Event: sse.EventStatusUpdate, Data: render.Status(code, s)},
		{Event: sse.EventQuizUpdate, Data: render.Quiz(code, s)},
		{Event: sse.EventEffectUpdate, Data: render.Effect(code, s)},
	}
}

// Controls renders the host panel as memberID sees it
func Controls(room *models.Room, memberID string, s game.Snapshot) string {
	room.RLock()
	isHost := room.IsHost(memberID)
	bankSize := len(room.Bank)
	source := room.BankSource
	room.RUnlock()
	return render.Controls(room.Code, isHost, s, bankSize, source)
}

// Initial is everything a newly connected screen needs
func Initial(room *models.Room, memberID string) []models.SSEMessage {
	s := room.Game.Snapshot()
	msgs := Fragments(room.Code, s)
	return append(msgs, models.SSEMessage{Event: sse.EventControlsUpdate, Data: Controls(room, memberID, s)})
}
