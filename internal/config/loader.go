package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path over Defaults and then applies
// environment overrides. An empty path or a missing file is not an error.
// The result has not been validated.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setStr(&cfg.Environment, "ENVIRONMENT")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	setStr(&cfg.CatalogFile, "CATALOG_FILE")

	setStr(&cfg.Server.Port, "PORT")
	setStr(&cfg.Server.GRPCPort, "GRPC_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "CORS_ORIGINS")

	setStr(&cfg.Database.Driver, "DB_DRIVER")
	setStr(&cfg.Database.SQLiteFile, "SQLITE_FILE")
	setStr(&cfg.Database.DatabaseURL, "DATABASE_URL")

	setStr(&cfg.NATS.URL, "NATS_URL")
	setStr(&cfg.NATS.Subject, "NATS_SUBJECT")

	setStr(&cfg.ClickHouse.Addr, "CLICKHOUSE_ADDR")
	setStr(&cfg.ClickHouse.Database, "CLICKHOUSE_DB")
	setStr(&cfg.ClickHouse.User, "CLICKHOUSE_USER")
	setStr(&cfg.ClickHouse.Password, "CLICKHOUSE_PASSWORD")
	setDuration(&cfg.ClickHouse.SyncInterval, "CLICKHOUSE_SYNC_INTERVAL")

	setStr(&cfg.Authentik.BaseURL, "AUTHENTIK_BASE_URL")
	setStr(&cfg.Authentik.ClientID, "AUTHENTIK_CLIENT_ID")
	setStr(&cfg.Authentik.ClientSecret, "AUTHENTIK_CLIENT_SECRET")
	setStr(&cfg.Authentik.RedirectURL, "AUTHENTIK_REDIRECT_URL")

	setStr(&cfg.Redis.Addr, "REDIS_ADDR")
	setStr(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setDuration(&cfg.Redis.TTL, "REDIS_TTL")

	setStringSlice(&cfg.League.Teams, "LEAGUE_TEAMS")
	setStr(&cfg.League.MyTeam, "LEAGUE_MY_TEAM")
	setInt(&cfg.League.Budget, "LEAGUE_BUDGET")
	setStr(&cfg.League.Strategy, "LEAGUE_STRATEGY")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
