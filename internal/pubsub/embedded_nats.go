package pubsub

import (
	"fmt"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// EmbeddedNATSPubSub runs a NATS server in-process, so development gets a
// real JetStream stream without external infrastructure
type EmbeddedNATSPubSub struct {
	*jetStream
	server *server.Server
}

// EmbeddedNATSOptions configures the embedded NATS server
type EmbeddedNATSOptions struct {
	Port       int    // 0 or -1 picks a random free port
	Subject    string // subject to publish/subscribe to
	StreamName string // JetStream stream name
	StoreDir   string // JetStream storage directory, empty for in-memory
}

// DefaultEmbeddedNATSOptions returns sensible defaults for development
func DefaultEmbeddedNATSOptions() EmbeddedNATSOptions {
	return EmbeddedNATSOptions{
		Port:       -1,
		Subject:    "draft.events",
		StreamName: defaultStream,
	}
}

// NewEmbeddedNATSPubSub starts the server and connects to it
func NewEmbeddedNATSPubSub(opts EmbeddedNATSOptions) (*EmbeddedNATSPubSub, error) {
	port := opts.Port
	if port == 0 {
		port = -1
	}

	ns, err := server.NewServer(&server.Options{
		Port:      port,
		JetStream: true,
		NoSigs:    true,
		StoreDir:  opts.StoreDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(&natsLogger{}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}
	clientURL := ns.ClientURL()
	logger.Info("Embedded NATS server started", "url", clientURL)

	nc, err := nats.Connect(clientURL)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	storage := nats.MemoryStorage
	if opts.StoreDir != "" {
		storage = nats.FileStorage
	}
	j, err := newJetStream("Embedded NATS", nc, StreamOptions{
		Subject: opts.Subject,
		Stream:  opts.StreamName,
		Storage: storage,
		MaxAge:  time.Hour,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, err
	}

	return &EmbeddedNATSPubSub{jetStream: j, server: ns}, nil
}

// Close shuts down the connection and the embedded server
func (p *EmbeddedNATSPubSub) Close() {
	logger.Info("Shutting down embedded NATS server")
	p.close()
	if p.server != nil {
		p.server.Shutdown()
		p.server.WaitForShutdown()
	}
}

// GetServerURL returns the client URL of the embedded server
func (p *EmbeddedNATSPubSub) GetServerURL() string {
	return p.server.ClientURL()
}

// natsLogger adapts our logger to the NATS server logger interface
type natsLogger struct{}

func (l *natsLogger) Noticef(format string, v ...interface{}) {
	logger.Info(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Fatalf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Errorf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Tracef(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS TRACE] "+format, v...))
}
