package services

import (
	"context"
	"sync"
	"time"

	"progress-tracker-go/internal/models"
)

type EntryEvent struct {
	Category models.Category `json:"category"`
	Action   string          `json:"action"`
	EntryID  int64           `json:"entry_id"`
	UserID   int64           `json:"user_id"`
	At       time.Time       `json:"at"`
}

// Subscriber is a connected listener; *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

const defaultWriteTimeout = 5 * time.Second

// EntryHub fans entry changes out to subscribers. Broadcast never blocks;
// events are dropped when the buffer is full. A subscriber that cannot take
// an event within WriteTimeout is dropped.
type EntryHub struct {
	WriteTimeout time.Duration

	mu      sync.Mutex
	clients map[Subscriber]bool
	ch      chan EntryEvent
}

func NewEntryHub() *EntryHub {
	return &EntryHub{
		WriteTimeout: defaultWriteTimeout,
		clients:      map[Subscriber]bool{},
		ch:           make(chan EntryEvent, 16),
	}
}

func (h *EntryHub) Run(ctx context.Context) {
	for {
		select {
		case event := <-h.ch:
			for _, conn := range h.snapshot() {
				if err := h.send(conn, event); err != nil {
					h.Remove(conn)
					_ = conn.Close()
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *EntryHub) send(conn Subscriber, event EntryEvent) error {
	timeout := h.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}

func (h *EntryHub) Broadcast(event EntryEvent) {
	select {
	case h.ch <- event:
	default:
	}
}

func (h *EntryHub) Add(conn Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *EntryHub) Remove(conn Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

func (h *EntryHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EntryHub) snapshot() []Subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Subscriber, 0, len(h.clients))
	for conn := range h.clients {
		out = append(out, conn)
	}
	return out
}
