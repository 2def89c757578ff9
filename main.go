package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/advisor"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/auth"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/cache"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/clickhouse"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/config"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	grpcserver "github.com/Billy-Davies-2/hoops-auction-advisor/internal/grpc"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/handlers"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/mcpserver"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/mocks"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/pubsub"
)

const version = "0.1.0"

// durableBroker is implemented by the JetStream-backed brokers
type durableBroker interface {
	SubscribeJetStream(consumerName string, handler func(pubsub.Event)) error
}

func main() {
	// Initialize logger first
	logger.Init()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "advisor.toml"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLevel(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger.Info("Starting hoops auction advisor", "version", version, "environment", cfg.Environment)

	if err := run(cfg); err != nil {
		logger.Error("Advisor stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Advisor stopped")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog := dal.DefaultCatalog()
	if cfg.CatalogFile != "" {
		loaded, err := dal.LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			return err
		}
		catalog = loaded
	}
	logger.Info("Player catalog loaded", "players", len(catalog), "file", cfg.CatalogFile)

	dataStore, err := openStore(cfg, cfg.DraftLeague(), catalog)
	if err != nil {
		return err
	}
	defer dataStore.Close()

	broker, err := openBroker(cfg)
	if err != nil {
		return err
	}
	defer broker.Close()
	hub := pubsub.NewWithBroker(broker)

	if d, ok := broker.(durableBroker); ok {
		err := d.SubscribeJetStream("draft-audit", func(e pubsub.Event) {
			logger.Info("Draft event", "type", e.Type, "version", e.Version, "payload", e.Payload)
		})
		if err != nil {
			logger.Warn("Failed to create audit consumer", "error", err)
		}
	}

	adviceCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer adviceCache.Close()

	authProvider := openAuth(cfg)

	adv := advisor.New(dataStore, adviceCache)
	api := handlers.NewAPIHandlers(dataStore, hub, adv)

	health := handlers.NewHealth(dataStore.Ping)
	if rc, ok := adviceCache.(*cache.RedisAdviceCache); ok {
		health.Add("redis", rc.Ping)
	}

	router := handlers.NewRouter(api, handlers.RouterOptions{
		Auth:        authProvider,
		Health:      health,
		CORSOrigins: cfg.AllowedOrigins(),
		MCP:         mcpserver.Handler(mcpserver.New(adv, version)),
	})

	httpServer := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", "0.0.0.0:"+cfg.Server.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen for gRPC on %s: %w", cfg.Server.GRPCPort, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return grpcserver.NewServer(dataStore).Serve(ctx, lis, 15*time.Second)
	})

	if src := openProjections(cfg, catalog); src != nil {
		defer src.Close()
		apply := func(p map[string]models.Projection) (int, error) {
			changed, err := dataStore.UpdateProjections(p)
			if err != nil || changed == 0 {
				return changed, err
			}
			if state, err := dataStore.GetState(); err == nil {
				hub.Publish(pubsub.NewEvent(pubsub.EventProjections, state.Version, map[string]any{"changed": changed}))
			}
			return changed, nil
		}
		g.Go(func() error {
			return clickhouse.RunSync(ctx, src, cfg.SyncInterval(), apply)
		})
	} else {
		logger.Info("Skipping projection sync (ClickHouse not configured)")
	}

	return g.Wait()
}

func openStore(cfg *config.Config, league draft.League, catalog []models.Player) (dal.DraftDAL, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		store, err := dal.NewSQLiteDAL(cfg.Database.SQLiteFile, league, catalog)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite: %w", err)
		}
		logger.Info("Connected to SQLite database", "file", cfg.Database.SQLiteFile)
		return store, nil
	case "postgres":
		if cfg.Database.DatabaseURL == "" {
			return mocks.NewMockPostgresDAL(cfg.Database.SQLiteFile, league, catalog)
		}
		store, err := dal.NewPostgresDAL(cfg.Database.DatabaseURL, league, catalog)
		if err != nil {
			return nil, fmt.Errorf("initialize Postgres: %w", err)
		}
		logger.Info("Connected to Postgres database")
		return store, nil
	}
	logger.Info("Using in-memory data store")
	return dal.NewMemoryDAL(league, catalog)
}

// openBroker uses the in-memory broker for tests, embedded NATS in
// development without NATS_URL, and a real NATS server otherwise
func openBroker(cfg *config.Config) (pubsub.Broker, error) {
	switch {
	case cfg.Environment == "test":
		return pubsub.NewMockNATSPubSub(cfg.NATS.Subject), nil
	case cfg.IsDevelopment() && cfg.NATS.URL == "":
		opts := pubsub.DefaultEmbeddedNATSOptions()
		opts.Subject = cfg.NATS.Subject
		embedded, err := pubsub.NewEmbeddedNATSPubSub(opts)
		if err != nil {
			return nil, fmt.Errorf("initialize embedded NATS: %w", err)
		}
		logger.Info("Embedded NATS server ready", "url", embedded.GetServerURL())
		return embedded, nil
	}
	url := cfg.NATS.URL
	if url == "" {
		url = "nats://localhost:4222"
	}
	broker, err := pubsub.NewNATSPubSub(url, pubsub.StreamOptions{
		Subject: cfg.NATS.Subject,
		MaxAge:  24 * time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize NATS: %w", err)
	}
	return broker, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.AdviceCache, error) {
	if cfg.Redis.Addr == "" {
		logger.Info("Using in-process recommendation cache")
		return cache.NewMemoryAdviceCache(cfg.CacheTTL()), nil
	}
	// an in-memory store restarts at version 1, so it must not share keys
	// with a previous process
	namespace := "hoops:" + cfg.Database.Driver
	if cfg.Database.Driver == "memory" {
		namespace += ":" + uuid.NewString()
	}
	rc, err := cache.NewRedisAdviceCache(ctx, cache.RedisConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		Namespace: namespace,
		TTL:       cfg.CacheTTL(),
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to Redis", "address", cfg.Redis.Addr, "namespace", namespace)
	return rc, nil
}

func openAuth(cfg *config.Config) auth.AuthProvider {
	if cfg.IsDevelopment() {
		return auth.NewMockAuth()
	}
	logger.Info("Using Authentik", "url", cfg.Authentik.BaseURL)
	return auth.NewAuthentikAuth(&auth.AuthentikConfig{
		BaseURL:      cfg.Authentik.BaseURL,
		ClientID:     cfg.Authentik.ClientID,
		ClientSecret: cfg.Authentik.ClientSecret,
		RedirectURL:  cfg.Authentik.RedirectURL,
	})
}

// openProjections returns nil when no projection source applies
func openProjections(cfg *config.Config, catalog []models.Player) clickhouse.Source {
	if cfg.ClickHouse.Addr != "" {
		client, err := clickhouse.NewClient(cfg.ClickHouse.Addr, cfg.ClickHouse.Database, cfg.ClickHouse.User, cfg.ClickHouse.Password)
		if err != nil {
			logger.Error("Failed to initialize ClickHouse", "error", err, "address", cfg.ClickHouse.Addr)
			return nil
		}
		logger.Info("Connected to ClickHouse", "address", cfg.ClickHouse.Addr, "database", cfg.ClickHouse.Database)
		return client
	}
	if cfg.IsDevelopment() {
		return mocks.NewMockClickHouseClient(catalog, time.Now().UnixNano())
	}
	return nil
}
