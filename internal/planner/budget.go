package planner

import (
	"fmt"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/shopspring/decimal"
)

// split is a percentage plan for one archetype
type split struct {
	star, early, middle int64
}

func splitFor(s models.RosterStrategy) split {
	switch s {
	case models.StrategyStarsScrubs:
		return split{star: 70, early: 60, middle: 30}
	case models.StrategyBalanced:
		return split{star: 40, early: 40, middle: 40}
	}
	// the punt builds share one plan
	return split{star: 50, early: 50, middle: 35}
}

func percentOf(total decimal.Decimal, pct int64) int {
	return int(total.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100)).Floor().IntPart())
}

// CalculateBudgetAllocation splits the operator's remaining budget into
// early, middle and late phase targets plus a reserve for tier 1-2 players.
// Late absorbs whatever flooring leaves over so the phases always sum to the
// remaining budget.
func CalculateBudgetAllocation(state *models.DraftState) models.BudgetAllocation {
	remaining := state.MyRoster.RemainingBudget
	if remaining < 0 {
		remaining = 0
	}
	total := decimal.NewFromInt(int64(remaining))
	sp := splitFor(state.Strategy)

	early := percentOf(total, sp.early)
	middle := percentOf(total, sp.middle)
	alloc := models.BudgetAllocation{
		Early:       early,
		Middle:      middle,
		Late:        remaining - early - middle,
		StarPlayers: percentOf(total, sp.star),
	}

	late := 100 - sp.early - sp.middle
	alloc.Rationale = []string{
		fmt.Sprintf("%s plan: %d%% early, %d%% middle, %d%% late of $%d remaining", strategyLabel(state.Strategy), sp.early, sp.middle, late, remaining),
		fmt.Sprintf("Reserve $%d (%d%%) for tier 1-2 players", alloc.StarPlayers, sp.star),
	}
	if empty := state.MyRoster.EmptySlots(); empty > 0 {
		alloc.Rationale = append(alloc.Rationale,
			fmt.Sprintf("Keep at least $%d to fill %d open slot(s) at $1", empty, empty))
	}
	return alloc
}

func strategyLabel(s models.RosterStrategy) string {
	switch s {
	case models.StrategyStarsScrubs:
		return "Stars and scrubs"
	case models.StrategyBalanced:
		return "Balanced"
	case models.StrategyPuntFT:
		return "Punt free throws"
	case models.StrategyPuntFG:
		return "Punt field goals"
	case models.StrategyPuntTO:
		return "Punt turnovers"
	case models.StrategyPuntAssists:
		return "Punt assists"
	}
	return string(s)
}
