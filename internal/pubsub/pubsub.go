package pubsub

import (
	"sync"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
)

// EventType names a draft transition
type EventType string

const (
	EventNominate    EventType = "draft:nominate"
	EventWithdraw    EventType = "draft:withdraw"
	EventPick        EventType = "draft:pick"
	EventUndo        EventType = "draft:undo"
	EventStrategy    EventType = "draft:strategy"
	EventReset       EventType = "draft:reset"
	EventProjections EventType = "draft:projections"
)

// Event is published after every state transition. Version is the snapshot
// version the transition produced.
type Event struct {
	Type    EventType      `json:"type"`
	Version int            `json:"version"`
	TS      int64          `json:"ts"`
	Payload map[string]any `json:"payload,omitempty"`
}

// NewEvent stamps an event with the current time
func NewEvent(t EventType, version int, payload map[string]any) Event {
	return Event{Type: t, Version: version, TS: time.Now().UnixMilli(), Payload: payload}
}

// Broker carries events between instances (NATS JetStream, embedded NATS or
// the in-memory broker)
type Broker interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
	Close()
}

const (
	localBuffer  = 10
	brokerBuffer = 100
)

// Hub fans draft events out to in-process subscribers such as SSE streams
type Hub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	broker      Broker // optional, nil for a single instance
}

// New creates a Hub that only delivers locally
func New() *Hub {
	return &Hub{
		subscribers: []chan Event{},
	}
}

// NewWithBroker creates a Hub bridged to a broker. Publish goes to the
// broker, which delivers back to every instance including this one.
func NewWithBroker(broker Broker) *Hub {
	h := &Hub{
		subscribers: []chan Event{},
		broker:      broker,
	}

	ch := broker.Subscribe()
	go func() {
		for event := range ch {
			h.publishLocal(event)
		}
		logger.Debug("Hub: broker channel closed")
	}()

	return h
}

// Subscribe adds a new subscriber and returns a channel for receiving events
func (h *Hub) Subscribe() chan Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, localBuffer)
	h.subscribers = append(h.subscribers, ch)
	logger.Debug("Hub: subscriber added", "total_subscribers", len(h.subscribers))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, sub := range h.subscribers {
		if sub == ch {
			close(ch)
			h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
			break
		}
	}
}

// SubscriberCount returns the number of local subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Publish sends an event to every subscriber on every instance
func (h *Hub) Publish(event Event) {
	logger.Debug("Hub: publish", "type", event.Type, "version", event.Version, "has_broker", h.broker != nil)
	if h.broker != nil {
		h.broker.Publish(event)
		return
	}
	h.publishLocal(event)
}

// publishLocal never blocks: a full subscriber misses the event
func (h *Hub) publishLocal(event Event) {
	h.mu.RLock()
	subs := make([]chan Event, len(h.subscribers))
	copy(subs, h.subscribers)
	h.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// fanout is the subscriber list shared by the broker implementations
type fanout struct {
	name        string
	mu          sync.RWMutex
	subscribers []chan Event
}

func (f *fanout) Subscribe() chan Event {
	ch := make(chan Event, brokerBuffer)

	f.mu.Lock()
	f.subscribers = append(f.subscribers, ch)
	count := len(f.subscribers)
	f.mu.Unlock()

	logger.Debug(f.name+": subscriber added", "total_subscribers", count)
	return ch
}

func (f *fanout) Unsubscribe(ch chan Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, sub := range f.subscribers {
		if sub == ch {
			f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
			close(ch)
			logger.Debug(f.name+": subscriber removed", "remaining_subscribers", len(f.subscribers))
			break
		}
	}
}

func (f *fanout) deliver(event Event) {
	f.mu.RLock()
	subs := make([]chan Event, len(f.subscribers))
	copy(subs, f.subscribers)
	f.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
			logger.Warn(f.name+": skipping slow subscriber", "event_type", event.Type)
		}
	}
}

func (f *fanout) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subscribers {
		close(sub)
	}
	f.subscribers = nil
}

// SubscriberCount returns the number of active subscribers
func (f *fanout) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}
