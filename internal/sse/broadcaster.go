package sse

import (
	"maps"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/aaronzipp/minequiz/internal/game"
	"github.com/aaronzipp/minequiz/internal/models"
)

// AddClient adds a new push client to the room
func AddClient(room *models.Room, client chan models.SSEMessage, memberID string) {
	room.Lock()
	defer room.Unlock()

	// Warn if the same member has multiple connections
	dup := 0
	for _, mid := range room.GetSSEClients() {
		if mid == memberID {
			dup++
		}
	}
	if dup > 0 {
		log.Warnf("member %s opened %d additional connection(s)", memberID, dup)
	}
	room.AddSSEClient(client, memberID)
}

// RemoveClient removes a push client from the room
func RemoveClient(room *models.Room, client chan models.SSEMessage) {
	room.Lock()
	defer room.Unlock()
	room.RemoveSSEClient(client)
	log.Debugf("removeSSEClient: client removed, now have %d total clients", room.SSEClientCount())
}

// ClientCount returns the number of connected push clients
func ClientCount(room *models.Room) int {
	room.RLock()
	defer room.RUnlock()
	return room.SSEClientCount()
}

// Broadcast sends a message to all connected clients and returns how many
// received it
func Broadcast(room *models.Room, event, data string) int {
	room.RLock()
	// Collect all client channels while holding the lock
	clients := room.GetSSEClients()
	room.RUnlock()

	log.Debugf("broadcastSSE: event=%s to %d clients", event, len(clients))

	// Send messages WITHOUT holding the lock
	msg := models.SSEMessage{Event: event, Data: data}
	sent := 0
	for client := range clients {
		if send(client, msg) {
			sent++
		}
	}
	log.Debugf("broadcastSSE: sent to %d/%d clients successfully", sent, len(clients))
	return sent
}

// BroadcastPersonalized sends personalized messages to each client
func BroadcastPersonalized(room *models.Room, renderFunc func(memberID string) string, eventName string) {
	room.RLock()
	// Collect all client channels and their member IDs while holding the lock
	clientMap := maps.Clone(room.GetSSEClients())
	room.RUnlock()

	// Send personalized messages WITHOUT holding the lock
	for client, memberID := range clientMap {
		send(client, models.SSEMessage{Event: eventName, Data: renderFunc(memberID)})
	}
}

func send(client chan models.SSEMessage, msg models.SSEMessage) bool {
	select {
	case client <- msg:
		return true
	case <-time.After(time.Duration(game.SSETimeoutSeconds) * time.Second):
		// Timeout - skip this client to avoid blocking
		log.Debugf("broadcastSSE: timeout sending %s to client", msg.Event)
		return false
	}
}
