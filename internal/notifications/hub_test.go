package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику комнаты.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	ch, unsubscribe := hub.Subscribe(roomID)
	defer unsubscribe()

	hub.Publish(roomID, Event{Type: EventExpenseChanged})

	select {
	case event := <-ch:
		if event.Type != EventExpenseChanged {
			t.Fatalf("expected event type %s, got %s", EventExpenseChanged, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubRoomIsolation проверяет, что события не пересекают границы комнат.
func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe(uuid.New())
	defer unsubscribe()

	hub.Publish(uuid.New(), Event{Type: EventPollChanged})

	select {
	case event := <-ch:
		t.Fatalf("unexpected event %s for another room", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	ch, unsubscribe := hub.Subscribe(roomID)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}
