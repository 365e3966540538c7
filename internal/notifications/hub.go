package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventExpenseChanged  = "expense_changed"
	EventScheduleChanged = "schedule_changed"
	EventPollChanged     = "poll_changed"
	EventHabitChanged    = "habit_changed"
)

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

type Hub struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб SSE-подписок по комнатам.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает на события комнаты и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(roomID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	roomSubs, ok := h.subscribers[roomID]
	if !ok {
		roomSubs = make(map[chan Event]struct{})
		h.subscribers[roomID] = roomSubs
	}
	roomSubs[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subs, exists := h.subscribers[roomID]; exists {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, roomID)
			}
		}
		close(ch)
	}
}

// Publish отправляет событие всем подписчикам комнаты.
func (h *Hub) Publish(roomID uuid.UUID, event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[roomID]
	if !ok {
		return
	}

	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}
