package planner

import (
	"testing"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models/modelstest"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
	"github.com/peterldowns/testy/check"
)

func stateWith(remaining int, strategy models.RosterStrategy, phase models.DraftPhase, pool []models.Player) *models.DraftState {
	return &models.DraftState{
		TotalBudget:      200,
		RosterSize:       roster.Size,
		PlayersRemaining: pool,
		Strategy:         strategy,
		Phase:            phase,
		MyRoster: models.MyRoster{
			Slots:           roster.NewSlots(roster.DefaultLayout()),
			TotalBudget:     200,
			TotalSpent:      200 - remaining,
			RemainingBudget: remaining,
		},
	}
}

func TestCalculateBudgetAllocation_Splits(t *testing.T) {
	cases := []struct {
		strategy                   models.RosterStrategy
		early, middle, late, stars int
	}{
		{models.StrategyStarsScrubs, 120, 60, 20, 140},
		{models.StrategyBalanced, 80, 80, 40, 80},
		{models.StrategyPuntFT, 100, 70, 30, 100},
		{models.StrategyPuntAssists, 100, 70, 30, 100},
	}
	for _, tc := range cases {
		t.Run(string(tc.strategy), func(t *testing.T) {
			got := CalculateBudgetAllocation(stateWith(200, tc.strategy, models.PhaseEarly, nil))
			check.Equal(t, tc.early, got.Early)
			check.Equal(t, tc.middle, got.Middle)
			check.Equal(t, tc.late, got.Late)
			check.Equal(t, tc.stars, got.StarPlayers)
			check.True(t, len(got.Rationale) > 0)
		})
	}
}

func TestCalculateBudgetAllocation_LateAbsorbsRounding(t *testing.T) {
	got := CalculateBudgetAllocation(stateWith(37, models.StrategyBalanced, models.PhaseMiddle, nil))

	check.Equal(t, 14, got.Early)
	check.Equal(t, 14, got.Middle)
	check.Equal(t, 9, got.Late)
	check.Equal(t, 37, got.Early+got.Middle+got.Late)
}

func nominationPool() []models.Player {
	return []models.Player{
		modelstest.Player("cheap-c", 4, 12, models.PositionC),
		modelstest.Player("cheap-pg", 3, 18, models.PositionPG),
		modelstest.Player("alt-pg", 3, 15, models.PositionPG),
		modelstest.Player("pricey", 1, 55, models.PositionSF),
		modelstest.Player("pricier", 1, 62, models.PositionPF),
	}
}

func TestGetNominationRecommendations_Interleaves(t *testing.T) {
	state := stateWith(40, models.StrategyBalanced, models.PhaseMiddle, nominationPool())

	got := GetNominationRecommendations(state, 4)

	check.Equal(t, 4, len(got))
	// cheap-c has no other tier<=4 C left, the guards have each other
	check.Equal(t, "cheap-c", got[0].Player.ID)
	check.Equal(t, NominateTarget, got[0].Kind)
	check.Equal(t, "pricier", got[1].Player.ID)
	check.Equal(t, NominateForceSpend, got[1].Kind)
	check.Equal(t, "cheap-pg", got[2].Player.ID)
	check.Equal(t, "pricey", got[3].Player.ID)
}

func TestGetNominationRecommendations_NoForceSpendLate(t *testing.T) {
	state := stateWith(40, models.StrategyBalanced, models.PhaseLate, nominationPool())

	got := GetNominationRecommendations(state, 10)

	check.Equal(t, 3, len(got))
	for _, rec := range got {
		check.Equal(t, NominateTarget, rec.Kind)
	}
}

func TestGetNominationRecommendations_ZeroCount(t *testing.T) {
	state := stateWith(40, models.StrategyBalanced, models.PhaseMiddle, nominationPool())
	check.Equal(t, 0, len(GetNominationRecommendations(state, 0)))
}
