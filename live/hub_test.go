package live

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	hub := NewHub(slog.Default())
	go hub.Run()
	return hub
}

func register(t *testing.T, hub *Hub, room string) *Client {
	t.Helper()
	client := &Client{
		Hub:  hub,
		Send: make(chan []byte, 4),
		Room: room,
	}
	hub.Register <- client

	// Register обрабатывается горутиной Run; дожидаемся попадания в
	// комнату, прежде чем вещать.
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.rooms[room][client]
	}, time.Second, time.Millisecond)
	return client
}

func TestBroadcastReachesOnlyTargetRoom(t *testing.T) {
	hub := newTestHub()
	inRoom := register(t, hub, "event_1")
	otherRoom := register(t, hub, "event_2")

	hub.BroadcastToRoom("event_1", Message{
		Type:    MessageRegistrationPromoted,
		Payload: map[string]int{"registration_id": 7},
		RoomID:  "event_1",
	})

	select {
	case raw := <-inRoom.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageRegistrationPromoted, msg.Type)
		assert.Equal(t, "event_1", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("expected a message in event_1 room")
	}

	select {
	case <-otherRoom.Send:
		t.Fatal("client in another room must not receive the message")
	default:
	}
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := newTestHub()
	// Не должно паниковать и блокироваться.
	hub.BroadcastToRoom("event_99", Message{Type: MessageMatchCompleted})
}

func TestSlowClientDoesNotBlockBroadcast(t *testing.T) {
	hub := newTestHub()
	slow := &Client{Hub: hub, Send: make(chan []byte), Room: "event_1"} // без буфера
	hub.Register <- slow
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.rooms["event_1"][slow]
	}, time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.BroadcastToRoom("event_1", Message{Type: MessageRegistrationCreated})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func TestUnregisterClosesSendChannel(t *testing.T) {
	hub := newTestHub()
	client := register(t, hub, "event_1")

	hub.Unregister <- client

	require.Eventually(t, func() bool {
		select {
		case _, open := <-client.Send:
			return !open
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}
