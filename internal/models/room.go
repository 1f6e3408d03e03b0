package models

import (
	"sync"
	"time"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/quiz"
)

// Room is one party: a host device, the joined devices and the game they
// share
type Room struct {
	Code       string
	Host       string             // member ID of the creator
	Members    map[string]*Member // memberID -> Member
	Teams      []string
	Bank       []quiz.Question // loaded question bank; nil until one is loaded
	BankSource string          // file name or "default"
	Game       *game.Game
	Created    time.Time
	mu         sync.RWMutex
	sseClients map[chan SSEMessage]string // channel -> memberID
}

// SSEMessage represents a message pushed to a connected device
type SSEMessage struct {
	Event string // Event type (e.g., "board-update", "nav-redirect")
	Data  string // HTML content or data to send
}

// NewRoom creates a room with its host already joined
func NewRoom(code, hostID string, teams []string) *Room {
	r := &Room{
		Code:    code,
		Host:    hostID,
		Members: make(map[string]*Member),
		Teams:   teams,
		Created: time.Now(),
	}
	r.Members[hostID] = &Member{ID: hostID, Joined: r.Created}
	return r
}

// Lock acquires the room's write lock
func (r *Room) Lock() {
	r.mu.Lock()
}

// Unlock releases the room's write lock
func (r *Room) Unlock() {
	r.mu.Unlock()
}

// RLock acquires the room's read lock
func (r *Room) RLock() {
	r.mu.RLock()
}

// RUnlock releases the room's read lock
func (r *Room) RUnlock() {
	r.mu.RUnlock()
}

// IsHost reports whether memberID created the room
func (r *Room) IsHost(memberID string) bool {
	return memberID != "" && r.Host == memberID
}

// Join adds a member if not yet present (must be called with lock held)
func (r *Room) Join(memberID string) *Member {
	if m, ok := r.Members[memberID]; ok {
		return m
	}
	m := &Member{ID: memberID, Joined: time.Now()}
	r.Members[memberID] = m
	return m
}

// GetSSEClients returns a copy of the SSE clients map (must be called with lock held)
func (r *Room) GetSSEClients() map[chan SSEMessage]string {
	clients := make(map[chan SSEMessage]string, len(r.sseClients))
	for k, v := range r.sseClients {
		clients[k] = v
	}
	return clients
}

// AddSSEClient adds a new push client to the room
func (r *Room) AddSSEClient(client chan SSEMessage, memberID string) {
	if r.sseClients == nil {
		r.sseClients = make(map[chan SSEMessage]string)
	}
	r.sseClients[client] = memberID
}

// RemoveSSEClient removes a push client from the room
func (r *Room) RemoveSSEClient(client chan SSEMessage) {
	delete(r.sseClients, client)
}

// SSEClientCount returns the number of connected push clients
func (r *Room) SSEClientCount() int {
	return len(r.sseClients)
}
