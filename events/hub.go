// events/hub.go
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/domain"
)

const (
	DocumentCreated = "document_created"
	DocumentUpdated = "document_updated"
	DocumentDeleted = "document_deleted"
	FileChanged     = "file_changed"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
// before it is dropped.
const subscriberBuffer = 64

type Event struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Document *domain.Document `json:"document,omitempty"`
	Path     string           `json:"path,omitempty"`
	At       time.Time        `json:"at"`
}

// Subscription receives events until it is closed.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

type Hub struct {
	clients    map[*Subscription]bool
	broadcast  chan Event
	register   chan *Subscription
	unregister chan *Subscription
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Subscription]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		done:       make(chan struct{}),
	}
}

// Run dispatches events to subscribers until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for sub := range h.clients {
				delete(h.clients, sub)
				close(sub.ch)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub] = true
			h.mu.Unlock()

		case sub := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[sub]; ok {
				delete(h.clients, sub)
				close(sub.ch)
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.Lock()
			for sub := range h.clients {
				select {
				case sub.ch <- ev:
				default:
					log.Warn().Str("component", "events").Str("event", ev.Type).Msg("Subscriber too slow, dropping")
					delete(h.clients, sub)
					close(sub.ch)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event. It never blocks the caller; when the queue is
// full the event is discarded.
func (h *Hub) Publish(eventType string, doc *domain.Document, path string) {
	ev := Event{
		ID:       uuid.NewString(),
		Type:     eventType,
		Document: doc,
		Path:     path,
		At:       time.Now().UTC(),
	}
	select {
	case h.broadcast <- ev:
	default:
		log.Warn().Str("component", "events").Str("event", eventType).Msg("Event queue full, dropping")
	}
}

// Subscribe registers a new subscriber. Once the hub has stopped, the
// returned subscription is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, subscriberBuffer)
	sub := &Subscription{C: ch, ch: ch}
	select {
	case h.register <- sub:
	case <-h.done:
		close(ch)
	}
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	select {
	case h.unregister <- sub:
	case <-h.done:
	}
}

// Clients reports the number of live subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
