package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Source yields the latest projected auction value and tier per player
type Source interface {
	GetProjections(ctx context.Context) (map[string]models.Projection, error)
	Close() error
}

// Client reads player projections from ClickHouse
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// projectionsQuery takes the newest row per player from the last 7 days of
// model runs
const projectionsQuery = `
	SELECT
		player_id,
		toInt32(argMax(auction_value, computed_at)) AS value,
		toInt32(argMax(tier, computed_at)) AS tier
	FROM player_projections
	WHERE computed_at >= now() - INTERVAL 7 DAY
	GROUP BY player_id
`

// GetProjections returns the latest projection for every player that has one
func (c *Client) GetProjections(ctx context.Context) (map[string]models.Projection, error) {
	rows, err := c.conn.Query(ctx, projectionsQuery)
	if err != nil {
		return nil, fmt.Errorf("clickhouse: query projections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.Projection)
	for rows.Next() {
		var id string
		var value, tier int32
		if err := rows.Scan(&id, &value, &tier); err != nil {
			return nil, fmt.Errorf("clickhouse: scan projection: %w", err)
		}
		pr := models.Projection{Value: int(value), Tier: int(tier)}
		if !validProjection(pr) {
			logger.Warn("Skipping invalid projection", "player_id", id, "value", value, "tier", tier)
			continue
		}
		out[id] = pr
	}
	return out, rows.Err()
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// validProjection matches the catalog rules: at least $1 and tier 1 or deeper
func validProjection(pr models.Projection) bool {
	return pr.Value >= 1 && pr.Tier >= 1
}

// SyncProjections pulls projections from src and hands them to apply, which
// returns how many players actually changed. Projections below $1 or tier 1
// never reach apply.
func SyncProjections(ctx context.Context, src Source, apply func(map[string]models.Projection) (int, error)) (int, error) {
	projections, err := src.GetProjections(ctx)
	if err != nil {
		return 0, err
	}
	for id, pr := range projections {
		if !validProjection(pr) {
			logger.Warn("Skipping invalid projection", "player_id", id, "value", pr.Value, "tier", pr.Tier)
			delete(projections, id)
		}
	}
	changed, err := apply(projections)
	if err != nil {
		return 0, fmt.Errorf("apply projections: %w", err)
	}
	logger.Info("Projections synced", "received", len(projections), "changed", changed)
	return changed, nil
}

// RunSync syncs once immediately and then every interval until ctx is done.
// Failed syncs are logged and retried on the next tick.
func RunSync(ctx context.Context, src Source, interval time.Duration, apply func(map[string]models.Projection) (int, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := SyncProjections(ctx, src, apply); err != nil {
			logger.Error("Failed to sync projections", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
