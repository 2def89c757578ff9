package mocks

import (
	"context"
	"math/rand"
	"sync"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// MockClickHouseClient serves projections for local development. Values
// drift up to 10% around the catalog values on every read so the sync path
// has something to do.
type MockClickHouseClient struct {
	mu   sync.Mutex
	base map[string]models.Projection
	rng  *rand.Rand
}

// NewMockClickHouseClient seeds the mock from the catalog
func NewMockClickHouseClient(catalog []models.Player, seed int64) *MockClickHouseClient {
	logger.Info("Using MOCK ClickHouse client for local development")

	base := make(map[string]models.Projection, len(catalog))
	for _, p := range catalog {
		base[p.ID] = models.Projection{Value: p.ProjectedValue, Tier: p.Tier}
	}
	return &MockClickHouseClient{base: base, rng: rand.New(rand.NewSource(seed))}
}

// GetProjections returns every base projection with a small random drift
func (m *MockClickHouseClient) GetProjections(ctx context.Context) (map[string]models.Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]models.Projection, len(m.base))
	for id, pr := range m.base {
		spread := pr.Value / 10
		if spread > 0 {
			pr.Value += m.rng.Intn(2*spread+1) - spread
		}
		if pr.Value < 1 {
			pr.Value = 1
		}
		out[id] = pr
	}
	return out, nil
}

// Close is a no-op for the mock client
func (m *MockClickHouseClient) Close() error {
	return nil
}
