package store

import (
	"errors"
	"sync"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
)

// ErrRoomNotFound is returned when a room code is unknown
var ErrRoomNotFound = errors.New("room not found")

// RoomStore manages room storage
type RoomStore struct {
	rooms map[string]*models.Room
	mu    sync.RWMutex
}

// NewRoomStore creates a new room store
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*models.Room),
	}
}

// Get retrieves a room by code
func (s *RoomStore) Get(code string) (*models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, exists := s.rooms[code]
	return room, exists
}

// Lookup is Get with an error for unknown codes
func (s *RoomStore) Lookup(code string) (*models.Room, error) {
	room, ok := s.Get(code)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Set stores a room
func (s *RoomStore) Set(code string, room *models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[code] = room
}

// Create stores a new room under a fresh unique code. build receives the code.
func (s *RoomStore) Create(build func(code string) *models.Room) *models.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := game.UniqueRoomCode(func(c string) bool {
		_, taken := s.rooms[c]
		return taken
	})
	room := build(code)
	s.rooms[code] = room
	return room
}

// Delete removes a room
func (s *RoomStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// Exists checks if a room code exists
func (s *RoomStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.rooms[code]
	return exists
}

// Len returns the number of open rooms
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
