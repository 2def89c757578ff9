package pubsub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/nats-io/nats.go"
)

const defaultStream = "DRAFT_EVENTS"

// StreamOptions describes the JetStream stream draft events are kept in
type StreamOptions struct {
	Subject string
	Stream  string
	// Storage defaults to file storage
	Storage nats.StorageType
	// MaxAge of zero keeps events for replay indefinitely
	MaxAge time.Duration
}

// jetStream publishes to a stream and delivers everything on the subject to
// local subscribers
type jetStream struct {
	fanout
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	sub     *nats.Subscription
}

func newJetStream(name string, nc *nats.Conn, opts StreamOptions) (*jetStream, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	stream := opts.Stream
	if stream == "" {
		stream = defaultStream
	}
	if _, err := js.StreamInfo(stream); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     stream,
			Subjects: []string{opts.Subject},
			Storage:  opts.Storage,
			MaxAge:   opts.MaxAge,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create stream %s: %w", stream, err)
		}
		logger.Info("JetStream stream created", "stream", stream, "subject", opts.Subject)
	}

	j := &jetStream{
		fanout:  fanout{name: name},
		nc:      nc,
		js:      js,
		subject: opts.Subject,
	}

	j.sub, err = js.Subscribe(opts.Subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}
		j.deliver(event)
		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", opts.Subject, err)
	}
	logger.Debug("Subscribed to JetStream", "subject", opts.Subject)

	return j, nil
}

// Publish writes the event to the stream. Local subscribers receive it
// through the stream subscription like every other instance.
func (j *jetStream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return
	}
	if _, err := j.js.Publish(j.subject, data); err != nil {
		logger.Error("Failed to publish to NATS", "error", err, "subject", j.subject, "event_type", event.Type)
		return
	}
	logger.Debug("Published event to NATS", "event_type", event.Type, "version", event.Version)
}

// SubscribeJetStream creates a durable consumer so a handler sees every
// event once, even across restarts
func (j *jetStream) SubscribeJetStream(consumerName string, handler func(Event)) error {
	_, err := j.js.Subscribe(j.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("Failed to unmarshal event", "error", err, "consumer", consumerName)
			msg.Nak()
			return
		}
		handler(event)
		msg.Ack()
	}, nats.Durable(consumerName), nats.ManualAck())
	return err
}

func (j *jetStream) close() {
	if j.sub != nil {
		j.sub.Unsubscribe()
	}
	j.closeAll()
	if j.nc != nil {
		j.nc.Close()
	}
}

// NATSPubSub implements Broker on an external NATS JetStream server
type NATSPubSub struct {
	*jetStream
}

// NewNATSPubSub connects to natsURL and ensures the stream exists
func NewNATSPubSub(natsURL string, opts StreamOptions) (*NATSPubSub, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("hoops-auction-advisor"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	j, err := newJetStream("NATS", nc, opts)
	if err != nil {
		nc.Close()
		return nil, err
	}
	logger.Info("Connected to NATS", "url", natsURL, "subject", opts.Subject)
	return &NATSPubSub{jetStream: j}, nil
}

// Close drops the subscribers and the connection
func (p *NATSPubSub) Close() {
	logger.Info("Closing NATS connection")
	p.close()
}
