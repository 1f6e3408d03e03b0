package sse

import (
	"testing"

	"github.com/aaronzipp/minequiz/internal/models"
)

func TestBroadcastReachesEveryClient(t *testing.T) {
	room := models.NewRoom("ABCDEF", "host", nil)
	a := make(chan models.SSEMessage, 1)
	b := make(chan models.SSEMessage, 1)
	AddClient(room, a, "host")
	AddClient(room, b, "guest")

	if n := Broadcast(room, EventNotice, "hi"); n != 2 {
		t.Fatalf("sent to %d clients, want 2", n)
	}
	for _, ch := range []chan models.SSEMessage{a, b} {
		if msg := <-ch; msg.Event != EventNotice || msg.Data != "hi" {
			t.Errorf("got %+v", msg)
		}
	}
}

func TestBroadcastSkipsFullClient(t *testing.T) {
	room := models.NewRoom("ABCDEF", "host", nil)
	full := make(chan models.SSEMessage) // nobody reads
	AddClient(room, full, "host")
	if n := Broadcast(room, EventNotice, "hi"); n != 0 {
		t.Errorf("sent = %d, want 0", n)
	}
	RemoveClient(room, full)
	if ClientCount(room) != 0 {
		t.Error("client not removed")
	}
}

func TestBroadcastPersonalized(t *testing.T) {
	room := models.NewRoom("ABCDEF", "host", nil)
	host := make(chan models.SSEMessage, 1)
	guest := make(chan models.SSEMessage, 1)
	AddClient(room, host, "host")
	AddClient(room, guest, "guest")

	BroadcastPersonalized(room, func(id string) string { return "for " + id }, EventControlsUpdate)
	if got := (<-host).Data; got != "for host" {
		t.Errorf("host got %q", got)
	}
	if got := (<-guest).Data; got != "for guest" {
		t.Errorf("guest got %q", got)
	}
}
