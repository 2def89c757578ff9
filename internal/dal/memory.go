package dal

import (
	"context"
	"sync"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// MemoryDAL implements DraftDAL using in-memory storage
type MemoryDAL struct {
	mu      sync.RWMutex
	league  draft.League
	catalog []models.Player
	state   *models.DraftState
	log     []models.DraftLogEntry
}

// NewMemoryDAL creates a new in-memory data access layer. A nil catalog
// falls back to the built-in sample catalog.
func NewMemoryDAL(league draft.League, catalog []models.Player) (*MemoryDAL, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	state, err := draft.NewDraftState(league, catalog)
	if err != nil {
		return nil, err
	}
	return &MemoryDAL{
		league:  league,
		catalog: append([]models.Player(nil), catalog...),
		state:   state,
		log:     []models.DraftLogEntry{newLogEntry(models.LogSystem, startText)},
	}, nil
}

// GetState returns the current snapshot. Snapshots are never modified in
// place, so the pointer is safe to share.
func (m *MemoryDAL) GetState() (*models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, nil
}

func (m *MemoryDAL) Nominate(playerID string, bid int, team string) (*models.DraftState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := draft.Nominate(m.state, playerID, bid, team)
	if err != nil {
		return nil, err
	}
	m.state = next
	m.log = append(m.log, newLogEntry(models.LogNominate, nominateText(next.Nomination)))
	return next, nil
}

func (m *MemoryDAL) ClearNomination() (*models.DraftState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	withdrawn := m.state.Nomination
	next, err := draft.ClearNomination(m.state)
	if err != nil {
		return nil, err
	}
	m.state = next
	m.log = append(m.log, newLogEntry(models.LogNominate, withdrawText(withdrawn)))
	return next, nil
}

func (m *MemoryDAL) DraftPlayer(pick draft.Pick) (*models.DraftState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := draft.FinalizeDraft(m.state, pick)
	if err != nil {
		return nil, err
	}
	m.state = next
	if dp, ok := lastPick(next); ok {
		m.log = append(m.log, newLogEntry(models.LogPick, pickText(dp)))
	}
	return next, nil
}

func (m *MemoryDAL) UndoLastPick() (*models.DraftState, models.DraftedPlayer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, undone, err := draft.UndoLastPick(m.state)
	if err != nil {
		return nil, models.DraftedPlayer{}, err
	}
	m.state = next
	m.log = append(m.log, newLogEntry(models.LogUndo, undoText(undone)))
	return next, undone, nil
}

func (m *MemoryDAL) SetStrategy(strategy models.RosterStrategy) (*models.DraftState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := draft.ChangeStrategy(m.state, strategy)
	if err != nil {
		return nil, err
	}
	m.state = next
	m.log = append(m.log, newLogEntry(models.LogStrategy, strategyText(strategy)))
	return next, nil
}

// Reset starts the draft over from the catalog. The version keeps counting
// up so cached advice for the old draft is never served.
func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := draft.NewDraftState(m.league, m.catalog)
	if err != nil {
		return err
	}
	state.Version = m.state.Version + 1
	m.state = state
	m.log = []models.DraftLogEntry{newLogEntry(models.LogSystem, resetText)}
	return nil
}

func (m *MemoryDAL) GetLog() ([]models.DraftLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.DraftLogEntry, len(m.log))
	copy(out, m.log)
	return out, nil
}

func (m *MemoryDAL) UpdateProjections(projections map[string]models.Projection) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drafted := map[string]bool{}
	for _, dp := range m.state.DraftedPlayers {
		drafted[dp.ID] = true
	}
	for i := range m.catalog {
		if pr, ok := projections[m.catalog[i].ID]; ok && !drafted[m.catalog[i].ID] {
			m.catalog[i].ProjectedValue = pr.Value
			m.catalog[i].Tier = pr.Tier
		}
	}

	core := *m.state
	core.PlayersRemaining = make([]models.Player, len(m.state.PlayersRemaining))
	changed := 0
	for i, p := range m.state.PlayersRemaining {
		if pr, ok := projections[p.ID]; ok && (pr.Value != p.ProjectedValue || pr.Tier != p.Tier) {
			p.ProjectedValue = pr.Value
			p.Tier = pr.Tier
			changed++
		}
		core.PlayersRemaining[i] = p
	}
	if changed == 0 {
		return 0, nil
	}
	core.Version++
	next, err := draft.Recompute(&core)
	if err != nil {
		return 0, err
	}
	m.state = next
	return changed, nil
}

func (m *MemoryDAL) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}
