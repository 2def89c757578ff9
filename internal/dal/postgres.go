package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	team TEXT NOT NULL,
	positions TEXT NOT NULL,
	projected_value INTEGER NOT NULL,
	tier INTEGER NOT NULL,
	stats JSONB NOT NULL,
	impact JSONB NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS picks (
	seq BIGSERIAL PRIMARY KEY,
	pick_id TEXT NOT NULL UNIQUE,
	player_id TEXT NOT NULL UNIQUE REFERENCES players(id),
	team TEXT NOT NULL,
	price INTEGER NOT NULL,
	nominated_by TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_log (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	ts BIGINT NOT NULL,
	type TEXT NOT NULL,
	text TEXT NOT NULL
);

ALTER TABLE picks ADD COLUMN IF NOT EXISTS nominated_by TEXT NOT NULL DEFAULT '';

CREATE INDEX IF NOT EXISTS idx_players_value ON players(projected_value DESC);
CREATE INDEX IF NOT EXISTS idx_picks_team ON picks(team);
`

// PostgresDAL implements DraftDAL using PostgreSQL
type PostgresDAL struct {
	*sqlStore
}

// NewPostgresDAL creates a PostgreSQL data access layer tuned for CloudNativePG
func NewPostgresDAL(connString string, league draft.League, catalog []models.Player) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG default max_connections is 100
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	// recycle connections so failovers are picked up
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Kubernetes DNS can take a while to resolve a fresh cluster
	if err := pingWithRetry(db, 5, 5*time.Second); err != nil {
		db.Close()
		return nil, err
	}

	store := &sqlStore{db: db, league: league, bind: bindDollar}
	if err := store.init(postgresSchema, catalog); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := store.GetState(); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresDAL{sqlStore: store}, nil
}

func pingWithRetry(db *sql.DB, attempts int, delay time.Duration) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		logger.Warn("Postgres not reachable yet", "attempt", i+1, "error", lastErr)
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return fmt.Errorf("failed to ping postgres after %d retries: %w", attempts, lastErr)
}
