package roster

import (
	"errors"
	"testing"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models/modelstest"
	"github.com/peterldowns/testy/check"
)

func TestAssign_PrefersExactThenFlexThenUtilThenBench(t *testing.T) {
	slots := NewSlots(DefaultLayout())
	guards := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("a", 1, 50, models.PositionPG), "me", 50, 1),
		modelstest.Drafted(modelstest.Player("b", 2, 40, models.PositionPG), "me", 40, 2),
		modelstest.Drafted(modelstest.Player("c", 3, 30, models.PositionPG), "me", 30, 3),
		modelstest.Drafted(modelstest.Player("d", 3, 30, models.PositionPG), "me", 30, 4),
		modelstest.Drafted(modelstest.Player("e", 3, 30, models.PositionPG), "me", 30, 5),
	}
	want := []models.SlotType{models.SlotPG, models.SlotG, models.SlotUTIL, models.SlotUTIL, models.SlotBENCH}

	for i, g := range guards {
		var err error
		slots, err = Assign(slots, g)
		check.NoError(t, err)
		for _, s := range slots {
			if s.Player != nil && s.Player.ID == g.ID {
				check.Equal(t, want[i], s.Type)
			}
		}
	}
}

func TestAssign_DoesNotMutateInput(t *testing.T) {
	slots := NewSlots(DefaultLayout())
	dp := modelstest.Drafted(modelstest.Player("a", 1, 50, models.PositionC), "me", 50, 1)

	out, err := Assign(slots, dp)

	check.NoError(t, err)
	check.Equal(t, 13, EmptyCount(slots))
	check.Equal(t, 12, EmptyCount(out))
}

func TestAssign_FullRosterReturnsNoEligibleSlot(t *testing.T) {
	var players []models.DraftedPlayer
	for i := 0; i < Size; i++ {
		p := modelstest.Player(string(rune('a'+i)), 5, 5, models.Positions()...)
		players = append(players, modelstest.Drafted(p, "me", 5, i+1))
	}
	slots, err := Build(DefaultLayout(), players)
	check.NoError(t, err)
	check.Equal(t, 0, EmptyCount(slots))

	extra := modelstest.Drafted(modelstest.Player("z", 5, 5, models.PositionC), "me", 1, 99)
	_, err = Assign(slots, extra)
	check.True(t, errors.Is(err, ErrNoEligibleSlot))
}

func TestPositionalNeed_IgnoresUtilAndBench(t *testing.T) {
	slots := NewSlots(DefaultLayout())
	forward := modelstest.Player("f", 3, 20, models.PositionSF, models.PositionPF)
	center := modelstest.Player("c", 3, 20, models.PositionC)

	check.Equal(t, 3, PositionalNeed(slots, forward)) // SF, PF, F
	check.Equal(t, 2, PositionalNeed(slots, center))  // C, C
	check.True(t, CanFillStarter(slots, center))
}

func TestCanFillStarter_FallsBackToUtil(t *testing.T) {
	players := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("c1", 3, 20, models.PositionC), "me", 20, 1),
		modelstest.Drafted(modelstest.Player("c2", 3, 20, models.PositionC), "me", 20, 2),
	}
	slots, err := Build(DefaultLayout(), players)
	check.NoError(t, err)

	center := modelstest.Player("c3", 3, 20, models.PositionC)
	check.Equal(t, 0, PositionalNeed(slots, center))
	check.True(t, CanFillStarter(slots, center))

	more := append(players,
		modelstest.Drafted(modelstest.Player("c4", 3, 20, models.PositionC), "me", 20, 3),
		modelstest.Drafted(modelstest.Player("c5", 3, 20, models.PositionC), "me", 20, 4),
	)
	slots, err = Build(DefaultLayout(), more)
	check.NoError(t, err)
	check.False(t, CanFillStarter(slots, center))
}

func TestAggregate_AveragesPercentages(t *testing.T) {
	impacts := []models.CategoryImpact{
		{Points: 1.0, FieldGoalPct: 1.0, FreeThrowPct: -1.0, Turnovers: 0.5},
		{Points: 2.0, FieldGoalPct: 0.0, FreeThrowPct: -0.5, Turnovers: 0.5},
	}

	total := Aggregate(impacts)

	check.Equal(t, 3.0, total.Points)
	check.Equal(t, 0.5, total.FieldGoalPct)
	check.Equal(t, -0.75, total.FreeThrowPct)
	check.Equal(t, 1.0, total.Turnovers)
}

func TestAggregate_EmptyIsZero(t *testing.T) {
	check.Equal(t, models.CategoryImpact{}, Aggregate(nil))
}

func TestClassify_CallSiteThresholds(t *testing.T) {
	totals := models.CategoryImpact{Points: 1.2, Steals: 0.6, Blocks: -0.6, Turnovers: 0.8}

	analysis := Classify(totals, DraftAnalysisThresholds, models.StrategyBalanced)
	scoring := Classify(totals, ScoringThresholds, models.StrategyBalanced)

	check.Equal(t, models.StrengthNeutral, analysis[models.CategoryPoints])
	check.Equal(t, models.StrengthStrong, scoring[models.CategoryPoints])
	check.Equal(t, models.StrengthStrong, analysis[models.CategorySteals])
	check.Equal(t, models.StrengthWeak, analysis[models.CategoryBlocks])
	// high turnovers are bad
	check.Equal(t, models.StrengthWeak, analysis[models.CategoryTurnovers])
}

func TestClassify_PuntForcesWeak(t *testing.T) {
	totals := models.CategoryImpact{FreeThrowPct: 2.0}

	got := Classify(totals, DraftAnalysisThresholds, models.StrategyPuntFT)

	check.Equal(t, models.StrengthWeak, got[models.CategoryFreeThrowPct])
}

func TestRecommend(t *testing.T) {
	cases := []struct {
		name    string
		totals  models.CategoryImpact
		players []models.DraftedPlayer
		want    models.RosterStrategy
	}{
		{
			name:   "single sunk puntable category",
			totals: models.CategoryImpact{FreeThrowPct: -1.5},
			want:   models.StrategyPuntFT,
		},
		{
			name:   "two sunk categories fall through",
			totals: models.CategoryImpact{FreeThrowPct: -1.5, FieldGoalPct: -1.5},
			want:   models.StrategyBalanced,
		},
		{
			name: "stars and scrubs",
			players: []models.DraftedPlayer{
				modelstest.Drafted(modelstest.Player("a", 1, 60), "me", 60, 1),
				modelstest.Drafted(modelstest.Player("b", 2, 45), "me", 50, 2),
				modelstest.Drafted(modelstest.Player("c", 7, 3), "me", 1, 3),
				modelstest.Drafted(modelstest.Player("d", 7, 3), "me", 2, 4),
			},
			want: models.StrategyStarsScrubs,
		},
		{
			name: "empty roster",
			want: models.StrategyBalanced,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			check.Equal(t, tc.want, Recommend(tc.totals, tc.players))
		})
	}
}

func TestFlexibility(t *testing.T) {
	check.Equal(t, 1.0, Flexibility(nil))

	players := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("a", 1, 60, models.PositionPG, models.PositionSG), "me", 60, 1),
		modelstest.Drafted(modelstest.Player("b", 1, 60, models.PositionC), "me", 60, 2),
	}
	check.Equal(t, 0.5, Flexibility(players))
}

func TestBuildTeam_DerivedFields(t *testing.T) {
	players := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("a", 1, 60, models.PositionPG), "Team 1", 58, 1),
		modelstest.Drafted(modelstest.Player("b", 3, 20, models.PositionC), "Team 1", 22, 4),
	}

	team, err := BuildTeam("Team 1", false, 200, DefaultLayout(), players)

	check.NoError(t, err)
	check.Equal(t, 80, team.TotalSpent)
	check.Equal(t, 120, team.RemainingBudget)
	check.Equal(t, 11, team.SlotsRemaining)
	check.Equal(t, 40.0, team.AveragePrice)
	check.Equal(t, 0, team.Needs[models.SlotPG])
	check.Equal(t, 1, team.Needs[models.SlotC])
	check.Equal(t, 3, team.Needs[models.SlotBENCH])
}
