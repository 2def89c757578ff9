// Package draft holds the draft state transitions. Every event takes the
// current snapshot and returns a new one; the input is never modified.
package draft

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/planner"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAlreadyDrafted  = errors.New("player already drafted")
	ErrTeamNotFound    = errors.New("team not found")
	ErrRosterFull      = errors.New("roster is full")
	ErrOverBudget      = errors.New("price exceeds remaining budget")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrNothingToUndo   = errors.New("no picks to undo")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNoNomination    = errors.New("no player is nominated")
	ErrNoEligibleSlot  = roster.ErrNoEligibleSlot
)

// League is the fixed setup of a draft
type League struct {
	Teams    []string
	MyTeam   string
	Budget   int
	Strategy models.RosterStrategy
}

// NewDraftState builds the opening snapshot. The operator's team is flagged
// once here and never inferred from names afterwards.
func NewDraftState(league League, catalog []models.Player) (*models.DraftState, error) {
	if !league.Strategy.Valid() {
		return nil, fmt.Errorf("new draft: %q: %w", league.Strategy, ErrUnknownStrategy)
	}
	if league.Budget < roster.Size {
		return nil, fmt.Errorf("new draft: budget $%d cannot fill %d slots: %w", league.Budget, roster.Size, ErrInvalidPrice)
	}

	seen := map[string]bool{}
	teams := make([]models.TeamInfo, 0, len(league.Teams))
	found := false
	for _, name := range league.Teams {
		if seen[name] {
			continue
		}
		seen[name] = true
		mine := name == league.MyTeam
		found = found || mine
		teams = append(teams, models.TeamInfo{Name: name, IsMine: mine})
	}
	if !found {
		return nil, fmt.Errorf("new draft: operator team %q: %w", league.MyTeam, ErrTeamNotFound)
	}

	pool := make([]models.Player, 0, len(catalog))
	ids := map[string]bool{}
	for _, p := range catalog {
		if ids[p.ID] {
			continue
		}
		ids[p.ID] = true
		pool = append(pool, p)
	}

	return Recompute(&models.DraftState{
		TotalBudget:      league.Budget,
		RosterSize:       roster.Size,
		PlayersRemaining: pool,
		Teams:            teams,
		Strategy:         league.Strategy,
	})
}

// PhaseFor maps draft progress to a phase
func PhaseFor(progress float64) models.DraftPhase {
	switch {
	case progress < 0.3:
		return models.PhaseEarly
	case progress < 0.7:
		return models.PhaseMiddle
	}
	return models.PhaseLate
}

// Recompute returns a new snapshot whose derived fields match the core
// fields of s: pool order, every TeamInfo, MyRoster, phase, roster analysis
// and budget allocation.
func Recompute(s *models.DraftState) (*models.DraftState, error) {
	next := &models.DraftState{
		Version:          s.Version,
		TotalBudget:      s.TotalBudget,
		RosterSize:       s.RosterSize,
		PlayersRemaining: make([]models.Player, len(s.PlayersRemaining)),
		DraftedPlayers:   make([]models.DraftedPlayer, len(s.DraftedPlayers)),
		Strategy:         s.Strategy,
	}
	if next.RosterSize == 0 {
		next.RosterSize = roster.Size
	}
	copy(next.PlayersRemaining, s.PlayersRemaining)
	copy(next.DraftedPlayers, s.DraftedPlayers)
	if s.Nomination != nil {
		nom := *s.Nomination
		next.Nomination = &nom
	}

	sort.SliceStable(next.PlayersRemaining, func(i, j int) bool {
		a, b := next.PlayersRemaining[i], next.PlayersRemaining[j]
		if a.ProjectedValue != b.ProjectedValue {
			return a.ProjectedValue > b.ProjectedValue
		}
		return a.ID < b.ID
	})
	sort.SliceStable(next.DraftedPlayers, func(i, j int) bool {
		return next.DraftedPlayers[i].DraftOrder < next.DraftedPlayers[j].DraftOrder
	})

	layout := roster.DefaultLayout()
	var mine []models.DraftedPlayer
	for _, t := range s.Teams {
		var owned []models.DraftedPlayer
		for _, dp := range next.DraftedPlayers {
			if dp.DraftedBy == t.Name {
				owned = append(owned, dp)
			}
		}
		ti, err := roster.BuildTeam(t.Name, t.IsMine, next.TotalBudget, layout, owned)
		if err != nil {
			return nil, fmt.Errorf("recompute team %s: %w", t.Name, err)
		}
		next.Teams = append(next.Teams, ti)
		if ti.IsMine {
			next.MyRoster = roster.MyRoster(ti, next.TotalBudget)
			mine = owned
		}
	}

	next.TeamCount = len(next.Teams)
	next.Phase = PhaseFor(next.Progress())
	next.RosterAnalysis = roster.Analyze(mine, next.Strategy)
	next.BudgetAllocation = planner.CalculateBudgetAllocation(next)
	return next, nil
}
