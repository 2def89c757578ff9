package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
)

// Config is the full service configuration
type Config struct {
	Environment string           `toml:"environment"`
	LogLevel    string           `toml:"log_level"`
	CatalogFile string           `toml:"catalog_file"`
	Server      ServerConfig     `toml:"server"`
	Database    DatabaseConfig   `toml:"database"`
	NATS        NATSConfig       `toml:"nats"`
	ClickHouse  ClickHouseConfig `toml:"clickhouse"`
	Authentik   AuthentikConfig  `toml:"authentik"`
	Redis       RedisConfig      `toml:"redis"`
	League      LeagueConfig     `toml:"league"`
}

// ServerConfig holds the HTTP and gRPC listener settings
type ServerConfig struct {
	Port        string   `toml:"port"`
	GRPCPort    string   `toml:"grpc_port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DatabaseConfig selects the draft store
type DatabaseConfig struct {
	// Driver is memory, sqlite or postgres
	Driver      string `toml:"driver"`
	SQLiteFile  string `toml:"sqlite_file"`
	DatabaseURL string `toml:"database_url"`
}

// NATSConfig points at an external NATS server. An empty URL in development
// starts an embedded server instead.
type NATSConfig struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
}

// ClickHouseConfig holds the projection source. An empty Addr disables the
// real client.
type ClickHouseConfig struct {
	Addr         string   `toml:"addr"`
	Database     string   `toml:"database"`
	User         string   `toml:"user"`
	Password     string   `toml:"password"`
	SyncInterval duration `toml:"sync_interval"`
}

// AuthentikConfig holds the OAuth2 client settings
type AuthentikConfig struct {
	BaseURL      string `toml:"base_url"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURL  string `toml:"redirect_url"`
}

// RedisConfig holds the recommendation cache. An empty Addr uses the
// in-process cache.
type RedisConfig struct {
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	TTL      duration `toml:"ttl"`
}

// LeagueConfig is the fixed league setup
type LeagueConfig struct {
	Teams    []string `toml:"teams"`
	MyTeam   string   `toml:"my_team"`
	Budget   int      `toml:"budget"`
	Strategy string   `toml:"strategy"`
}

// duration lets TOML carry strings like "5m"
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the development configuration: in-memory store, embedded
// NATS, mock projections and a 10-team $200 league
func Defaults() Config {
	teams := make([]string, 10)
	for i := range teams {
		teams[i] = fmt.Sprintf("Team %d", i+1)
	}
	return Config{
		Environment: "development",
		LogLevel:    "info",
		Server: ServerConfig{
			Port:     "3000",
			GRPCPort: "50051",
		},
		Database: DatabaseConfig{
			Driver:     "memory",
			SQLiteFile: "draft.sqlite",
		},
		NATS: NATSConfig{
			Subject: "draft.events",
		},
		ClickHouse: ClickHouseConfig{
			Database:     "default",
			User:         "default",
			SyncInterval: duration{5 * time.Minute},
		},
		Authentik: AuthentikConfig{
			RedirectURL: "http://localhost:3000/auth/callback",
		},
		Redis: RedisConfig{
			TTL: duration{10 * time.Minute},
		},
		League: LeagueConfig{
			Teams:    teams,
			MyTeam:   "Team 1",
			Budget:   200,
			Strategy: string(models.StrategyBalanced),
		},
	}
}

// IsDevelopment reports whether mocks and embedded services should be used.
// The test environment counts as development.
func (c *Config) IsDevelopment() bool {
	switch c.Environment {
	case "", "development", "test":
		return true
	}
	return false
}

// AllowedOrigins is the CORS allow list. An unset list means any origin in
// development and same-origin only everywhere else.
func (c *Config) AllowedOrigins() []string {
	if len(c.Server.CORSOrigins) > 0 {
		return c.Server.CORSOrigins
	}
	if c.IsDevelopment() {
		return []string{"*"}
	}
	return nil
}

// SyncInterval is how often projections are refreshed
func (c *Config) SyncInterval() time.Duration {
	return c.ClickHouse.SyncInterval.Duration
}

// CacheTTL is how long a cached recommendation lives
func (c *Config) CacheTTL() time.Duration {
	return c.Redis.TTL.Duration
}

// DraftLeague converts the league section for the draft package
func (c *Config) DraftLeague() draft.League {
	return draft.League{
		Teams:    c.League.Teams,
		MyTeam:   c.League.MyTeam,
		Budget:   c.League.Budget,
		Strategy: models.RosterStrategy(c.League.Strategy),
	}
}

var validDrivers = map[string]bool{"memory": true, "sqlite": true, "postgres": true}

// Validate reports every problem at once
func (c *Config) Validate() error {
	var errs []string

	if !validDrivers[c.Database.Driver] {
		errs = append(errs, fmt.Sprintf("unknown database driver %q (valid: memory, sqlite, postgres)", c.Database.Driver))
	}
	if c.Database.Driver == "postgres" && c.Database.DatabaseURL == "" && !c.IsDevelopment() {
		errs = append(errs, "database: database_url is required for postgres")
	}

	if len(c.League.Teams) < 2 {
		errs = append(errs, fmt.Sprintf("league: need at least 2 teams, got %d", len(c.League.Teams)))
	}
	seen := make(map[string]bool, len(c.League.Teams))
	for _, t := range c.League.Teams {
		if seen[t] {
			errs = append(errs, fmt.Sprintf("league: duplicate team %q", t))
		}
		seen[t] = true
	}
	if !seen[c.League.MyTeam] {
		errs = append(errs, fmt.Sprintf("league: my_team %q is not in the team list", c.League.MyTeam))
	}
	if c.League.Budget < roster.Size {
		errs = append(errs, fmt.Sprintf("league: budget $%d cannot fill %d roster slots", c.League.Budget, roster.Size))
	}
	if !models.RosterStrategy(c.League.Strategy).Valid() {
		errs = append(errs, fmt.Sprintf("league: unknown strategy %q", c.League.Strategy))
	}

	if !c.IsDevelopment() {
		if c.Authentik.BaseURL == "" || c.Authentik.ClientID == "" || c.Authentik.ClientSecret == "" {
			errs = append(errs, "authentik: base_url, client_id and client_secret are required outside development")
		}
		if slices.Contains(c.Server.CORSOrigins, "*") {
			errs = append(errs, "server: wildcard cors_origins is only allowed in development")
		}
	}

	if c.ClickHouse.Addr != "" && c.SyncInterval() <= 0 {
		errs = append(errs, "clickhouse: sync_interval must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
