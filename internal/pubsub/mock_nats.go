package pubsub

import (
	"sync"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
)

// MockNATSPubSub is an in-memory Broker with the JetStream behaviours the
// service relies on: retained messages for replay and durable handlers. It
// needs no NATS server.
type MockNATSPubSub struct {
	fanout
	subject     string
	mu          sync.RWMutex
	messages    []Event
	maxMessages int
}

// NewMockNATSPubSub creates the in-memory broker
func NewMockNATSPubSub(subject string) *MockNATSPubSub {
	logger.Info("Using mock NATS pub/sub", "subject", subject)
	return &MockNATSPubSub{
		fanout:      fanout{name: "Mock NATS"},
		subject:     subject,
		maxMessages: 1000,
	}
}

// Publish retains the event and delivers it to every subscriber
func (p *MockNATSPubSub) Publish(event Event) {
	p.mu.Lock()
	p.messages = append(p.messages, event)
	if len(p.messages) > p.maxMessages {
		p.messages = p.messages[len(p.messages)-p.maxMessages:]
	}
	p.mu.Unlock()

	p.deliver(event)
	logger.Debug("Mock NATS: published event", "event_type", event.Type, "version", event.Version)
}

// SubscribeJetStream runs handler for every event published from now on
func (p *MockNATSPubSub) SubscribeJetStream(consumerName string, handler func(Event)) error {
	ch := p.Subscribe()
	go func() {
		for event := range ch {
			handler(event)
		}
		logger.Debug("Mock NATS: durable subscription closed", "consumer_name", consumerName)
	}()
	return nil
}

// Replay returns up to count of the most recent events, oldest first
func (p *MockNATSPubSub) Replay(count int) []Event {
	p.mu.RLock()
	defer p.mu.RUnlock()

	start := len(p.messages) - count
	if start < 0 {
		start = 0
	}
	out := make([]Event, len(p.messages)-start)
	copy(out, p.messages[start:])
	return out
}

// MessageCount returns the number of retained events
func (p *MockNATSPubSub) MessageCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.messages)
}

// Close closes all subscriptions
func (p *MockNATSPubSub) Close() {
	logger.Info("Mock NATS: closing all subscriptions", "active_subscriptions", p.SubscriberCount())
	p.closeAll()
}
