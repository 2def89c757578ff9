package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
)

func init() {
	logger.Init()
}

func newEmbedded(t *testing.T, opts EmbeddedNATSOptions) *EmbeddedNATSPubSub {
	t.Helper()
	ps, err := NewEmbeddedNATSPubSub(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	return ps
}

func TestDefaultEmbeddedNATSOptions(t *testing.T) {
	opts := DefaultEmbeddedNATSOptions()

	if opts.Port != -1 {
		t.Errorf("expected port -1 (random), got %d", opts.Port)
	}
	if opts.Subject != "draft.events" {
		t.Errorf("expected subject draft.events, got %s", opts.Subject)
	}
	if opts.StreamName != "DRAFT_EVENTS" {
		t.Errorf("expected stream name DRAFT_EVENTS, got %s", opts.StreamName)
	}
}

func TestEmbeddedNATSStarts(t *testing.T) {
	ps := newEmbedded(t, EmbeddedNATSOptions{Subject: "custom.events", StreamName: "CUSTOM_STREAM"})
	defer ps.Close()

	if ps.GetServerURL() == "" {
		t.Error("server URL should not be empty")
	}
	if ps.subject != "custom.events" {
		t.Errorf("expected subject custom.events, got %s", ps.subject)
	}
}

func TestEmbeddedNATSPublishAndReceive(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()

	ps.Publish(NewEvent(EventPick, 4, map[string]any{
		"playerId": "nba-001",
		"price":    61.0,
		"team":     map[string]any{"name": "Team 2"},
	}))

	for i, ch := range []chan Event{ch1, ch2} {
		e := receive(t, ch, 2*time.Second)
		if e.Type != EventPick || e.Version != 4 {
			t.Errorf("subscriber %d: unexpected event %+v", i, e)
		}
		if e.Payload["playerId"] != "nba-001" || e.Payload["price"] != 61.0 {
			t.Errorf("subscriber %d: payload mismatch %+v", i, e.Payload)
		}
		team, ok := e.Payload["team"].(map[string]any)
		if !ok || team["name"] != "Team 2" {
			t.Errorf("subscriber %d: nested payload mismatch", i)
		}
	}
}

func TestEmbeddedNATSConcurrentPublish(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	ch := ps.Subscribe()

	const publishers, perPublisher = 5, 10
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perPublisher; j++ {
				ps.Publish(NewEvent(EventNominate, id*perPublisher+j, nil))
			}
		}(i)
	}
	wg.Wait()

	received := 0
	timeout := time.After(5 * time.Second)
	for received < publishers*perPublisher {
		select {
		case <-ch:
			received++
		case <-timeout:
			t.Fatalf("received %d/%d events before timeout", received, publishers*perPublisher)
		}
	}
}

func TestEmbeddedNATSWithHub(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	defer ps.Close()

	h := NewWithBroker(ps)
	ch := h.Subscribe()

	h.Publish(NewEvent(EventUndo, 12, nil))

	if e := receive(t, ch, 2*time.Second); e.Type != EventUndo || e.Version != 12 {
		t.Errorf("unexpected event %+v", e)
	}
}

func TestEmbeddedNATSClose(t *testing.T) {
	ps := newEmbedded(t, DefaultEmbeddedNATSOptions())
	ch := ps.Subscribe()

	ps.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after Close()")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}
