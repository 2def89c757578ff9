package bidding

import (
	"fmt"
	"testing"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models/modelstest"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
	"github.com/peterldowns/testy/check"
)

const me = "Me"

// snapshot assembles a ten-team league state the way the draft package does,
// without importing it.
func snapshot(t *testing.T, pool []models.Player, picks []models.DraftedPlayer) *models.DraftState {
	t.Helper()
	names := append([]string{me}, modelstest.Teams(10)[1:]...)
	state := &models.DraftState{
		TotalBudget:      200,
		RosterSize:       roster.Size,
		PlayersRemaining: pool,
		DraftedPlayers:   picks,
		Strategy:         models.StrategyBalanced,
		TeamCount:        len(names),
	}
	for _, name := range names {
		var owned []models.DraftedPlayer
		for _, p := range picks {
			if p.DraftedBy == name {
				owned = append(owned, p)
			}
		}
		ti, err := roster.BuildTeam(name, name == me, 200, roster.DefaultLayout(), owned)
		if err != nil {
			t.Fatalf("build team %s: %v", name, err)
		}
		state.Teams = append(state.Teams, ti)
		if ti.IsMine {
			state.MyRoster = roster.MyRoster(ti, 200)
			state.RosterAnalysis = roster.Analyze(owned, state.Strategy)
		}
	}
	switch progress := state.Progress(); {
	case progress < 0.3:
		state.Phase = models.PhaseEarly
	case progress < 0.7:
		state.Phase = models.PhaseMiddle
	default:
		state.Phase = models.PhaseLate
	}
	return state
}

func TestScenarioA_EmptyRosterEliteNomination(t *testing.T) {
	star := modelstest.Player("star", 1, 60, models.PositionC)
	pool := append([]models.Player{star}, modelstest.Catalog(40)...)
	state := snapshot(t, pool, nil)

	rec := GetBiddingRecommendation(star, 10, state)

	check.True(t, rec.Breakdown.RosterFit >= 20)
	check.True(t, rec.ShouldBid)
	check.True(t, rec.MaxBid >= 60 && rec.MaxBid <= 66)
}

func TestScenarioB_ReserveShortfallFailsFast(t *testing.T) {
	var picks []models.DraftedPlayer
	for i := 1; i <= 11; i++ {
		price := 19
		if i == 11 {
			price = 5
		}
		p := modelstest.Player(fmt.Sprintf("m%d", i), 4, 15, models.Positions()...)
		picks = append(picks, modelstest.Drafted(p, me, price, i))
	}
	state := snapshot(t, modelstest.Catalog(30), picks)
	check.Equal(t, 5, state.MyRoster.RemainingBudget)
	check.Equal(t, 2, state.MyRoster.EmptySlots())

	minNeeded, maxAffordable := Affordability(state.MyRoster)
	rec := GetBiddingRecommendation(modelstest.Player("x", 3, 20, models.PositionC), 5, state)

	check.Equal(t, 1, minNeeded)
	check.Equal(t, 4, maxAffordable)
	check.False(t, rec.ShouldBid)
	check.Equal(t, 0, rec.MaxBid)
	check.Equal(t, 0.0, rec.Score)
	check.Equal(t, Breakdown{}, rec.Breakdown)
	check.Equal(t, ConfidenceHigh, rec.Confidence)
}

func TestFailFast_AnyBidAtOrAboveMaxAffordable(t *testing.T) {
	state := snapshot(t, modelstest.Catalog(50), nil)
	_, maxAffordable := Affordability(state.MyRoster)

	for _, p := range modelstest.Catalog(20) {
		for bid := maxAffordable; bid < maxAffordable+15; bid++ {
			rec := GetBiddingRecommendation(p, bid, state)
			check.False(t, rec.ShouldBid)
			check.Equal(t, Breakdown{}, rec.Breakdown)
		}
	}
}

func TestScenarioD_EarlyPoolBestInTier(t *testing.T) {
	star := modelstest.Player("star", 1, 80, models.PositionPG)
	pool := []models.Player{star}
	for _, p := range modelstest.Catalog(159) {
		p.Tier++
		pool = append(pool, p)
	}
	check.Equal(t, 160, len(pool))

	check.Equal(t, 20.0, RemainingPlayersScore(star, pool))
}

func TestRemainingPlayersScore_EarlyPoolTiers(t *testing.T) {
	pool := modelstest.Catalog(160)
	// p001 is tier 1 with 11 tier-1 peers, none valued higher
	check.Equal(t, 10.0+2+5, RemainingPlayersScore(pool[0], pool))
}

func TestRemainingPlayersScore_LatePoolScarcity(t *testing.T) {
	candidate := modelstest.Player("c", 2, 30, models.PositionC)
	pool := []models.Player{
		candidate,
		modelstest.Player("better", 1, 40, models.PositionC),
	}
	for i := 0; i < 20; i++ {
		pool = append(pool, modelstest.Player(fmt.Sprintf("g%d", i), 5, 5, models.PositionPG))
	}

	// one C left at tier <= 2 (10), no tier-2 peers (5), one better C (3)
	check.Equal(t, 18.0, RemainingPlayersScore(candidate, pool))
	check.Equal(t, 1, MinPositionalScarcity(candidate, pool))
	check.Equal(t, 20, PositionalScarcity(models.PositionPG, pool, 5))
}

func TestScore_SubScoresWithinCaps(t *testing.T) {
	catalog := modelstest.Catalog(120)
	var picks []models.DraftedPlayer
	teams := append([]string{me}, modelstest.Teams(10)[1:]...)
	for i, p := range catalog[:60] {
		picks = append(picks, modelstest.Drafted(p, teams[i%len(teams)], p.ProjectedValue, i+1))
	}
	states := []*models.DraftState{
		snapshot(t, catalog, nil),
		snapshot(t, catalog[60:], picks),
	}

	for _, state := range states {
		for _, p := range state.PlayersRemaining {
			for _, bid := range []int{0, 5, 20, 60} {
				r := Score(p, bid, state)
				b := r.Breakdown
				check.True(t, b.RosterFit >= 0 && b.RosterFit <= MaxRosterFit)
				check.True(t, b.RemainingPlayersValue >= 0 && b.RemainingPlayersValue <= MaxRemainingValue)
				check.True(t, b.BudgetSituation >= 0 && b.BudgetSituation <= MaxBudgetSituation)
				check.True(t, b.ValueEfficiency >= 0 && b.ValueEfficiency <= MaxValueEfficiency)
				check.True(t, b.PuntStrategy >= 0 && b.PuntStrategy <= MaxPuntStrategy)
				check.Equal(t, b.Sum()+r.TimingBonus, r.Total)
			}
		}
	}
}

func TestRosterFit_MidDraftPositionalNeed(t *testing.T) {
	picks := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("pg", 4, 10, models.PositionPG), me, 10, 1),
		modelstest.Drafted(modelstest.Player("sg", 4, 10, models.PositionSG), me, 10, 2),
		modelstest.Drafted(modelstest.Player("c1", 4, 10, models.PositionC), me, 10, 3),
		modelstest.Drafted(modelstest.Player("c2", 4, 10, models.PositionC), me, 10, 4),
	}
	state := snapshot(t, modelstest.Catalog(40), picks)
	wing := modelstest.Player("wing", 3, 20, models.PositionSF, models.PositionPF)

	// SF, PF and F open (9) plus multi-position (2)
	check.Equal(t, 11.0, rosterFit(wing, state))
}

func TestGetBiddingRecommendation_Idempotent(t *testing.T) {
	catalog := modelstest.Catalog(80)
	picks := []models.DraftedPlayer{
		modelstest.Drafted(catalog[0], me, 65, 1),
		modelstest.Drafted(catalog[1], "Team 2", 70, 2),
		modelstest.Drafted(catalog[2], "Team 3", 60, 3),
	}
	state := snapshot(t, catalog[3:], picks)
	p := catalog[10]

	first := GetBiddingRecommendation(p, 12, state)
	second := GetBiddingRecommendation(p, 12, state)

	check.Equal(t, first.Score, second.Score)
	check.Equal(t, first.Breakdown, second.Breakdown)
	check.Equal(t, first.MaxBid, second.MaxBid)
	check.Equal(t, first.Reasoning, second.Reasoning)
}

func TestBiddingTiming(t *testing.T) {
	star := modelstest.Player("star", 1, 80, models.PositionC)

	rich := &models.DraftState{
		Phase:    models.PhaseEarly,
		MyRoster: models.MyRoster{Slots: roster.NewSlots(roster.DefaultLayout()), RemainingBudget: 70},
	}
	got := BiddingTiming(star, 10, rich)
	check.Equal(t, Aggressive, got.Aggressiveness)
	check.True(t, got.Bluff)

	broke := &models.DraftState{
		Phase:    models.PhaseMiddle,
		MyRoster: models.MyRoster{Slots: roster.NewSlots(roster.DefaultLayout()), RemainingBudget: 40},
	}
	got = BiddingTiming(star, 10, broke)
	check.Equal(t, Passive, got.Aggressiveness)
	check.True(t, got.WaitForLowerPrice)
	check.False(t, got.Bluff)
}

func TestMultiplierBands(t *testing.T) {
	cases := []struct {
		score float64
		want  float64
	}{
		{130, 1.10},
		{85, 1.10},
		{80, 1.05},
		{65, 1.00},
		{60, 0.95},
		{45, 0.90},
		{35, 0.80},
		{10, 0.70},
	}
	for _, tc := range cases {
		check.Equal(t, tc.want, multiplier(tc.score))
	}
}

// operatorRoster fills the first len(players) slots in layout order
func operatorRoster(budget int, players ...models.DraftedPlayer) models.MyRoster {
	slots := roster.NewSlots(roster.DefaultLayout())
	for i := range players {
		slots[i].Player = &players[i]
	}
	return models.MyRoster{Slots: slots, TotalBudget: 200, RemainingBudget: budget}
}

func rivals(t *testing.T, budgets ...int) []models.TeamInfo {
	t.Helper()
	mine, err := roster.BuildTeam(me, true, 200, roster.DefaultLayout(), nil)
	if err != nil {
		t.Fatalf("build team: %v", err)
	}
	teams := []models.TeamInfo{mine}
	for i, b := range budgets {
		ti, err := roster.BuildTeam(fmt.Sprintf("Rival %d", i+1), false, b, roster.DefaultLayout(), nil)
		if err != nil {
			t.Fatalf("build team: %v", err)
		}
		teams = append(teams, ti)
	}
	return teams
}

func TestBudgetSituation_BudgetHealthUsesPostBidSlots(t *testing.T) {
	p := modelstest.Player("x", 5, 1, models.PositionC)
	cases := []struct {
		budget int
		want   float64
	}{
		{200, 11},
		// $192 over the 12 slots left after this pick is above $15
		{193, 11},
		{150, 9},
		{100, 7},
		{40, 5},
		{20, 3},
	}
	for _, tc := range cases {
		state := &models.DraftState{MyRoster: operatorRoster(tc.budget)}
		check.Equal(t, tc.want, budgetSituation(p, 0, state, nil))
	}
}

func TestBudgetSituation_CompetitorRatioFallback(t *testing.T) {
	p := modelstest.Player("x", 3, 100, models.PositionC)
	state := &models.DraftState{MyRoster: operatorRoster(200)}

	cases := []struct {
		ratios []float64
		want   float64
	}{
		{nil, 17},
		{[]float64{10}, 20},
		{[]float64{12, 16}, 18},
		{[]float64{17}, 16},
		{[]float64{25}, 15},
		{[]float64{0}, 15},
	}
	for _, tc := range cases {
		check.Equal(t, tc.want, budgetSituation(p, 9, state, tc.ratios))
	}
}

func TestBudgetSituation_InterestedCompetitors(t *testing.T) {
	p := modelstest.Player("x", 4, 10, models.PositionC)
	cases := []struct {
		name    string
		budgets []int
		want    float64
	}{
		{"one interested, far poorer", []int{110, 50}, 18},
		{"one interested, somewhat poorer", []int{156, 50}, 17},
		{"one interested, even budgets", []int{200, 50}, 16},
		{"three interested", []int{200, 200, 200}, 14},
		{"five interested", []int{200, 200, 200, 200, 200}, 13},
		{"nobody can afford", []int{50, 50}, 18},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &models.DraftState{MyRoster: operatorRoster(200), Teams: rivals(t, tc.budgets...)}
			check.Equal(t, tc.want, budgetSituation(p, 7, state, nil))
		})
	}

	// ratios are ignored while rival teams are known
	state := &models.DraftState{MyRoster: operatorRoster(200), Teams: rivals(t, 200, 200, 200)}
	check.Equal(t, 14.0, budgetSituation(p, 7, state, []float64{1}))
}

func TestGetBiddingRecommendation_PassesCompetitorRatios(t *testing.T) {
	p := modelstest.Player("x", 3, 100, models.PositionC)
	state := &models.DraftState{
		Phase:    models.PhaseEarly,
		Strategy: models.StrategyBalanced,
		MyRoster: operatorRoster(200),
	}

	without := GetBiddingRecommendation(p, 9, state)
	with := GetBiddingRecommendation(p, 9, state, 10)

	check.Equal(t, 17.0, without.Breakdown.BudgetSituation)
	check.Equal(t, 20.0, with.Breakdown.BudgetSituation)
	check.Equal(t, without.Score+3, with.Score)
}

func TestTimingBonus(t *testing.T) {
	drafted := []models.DraftedPlayer{
		modelstest.Drafted(modelstest.Player("a", 3, 20), "Team 2", 20, 1),
		modelstest.Drafted(modelstest.Player("b", 3, 20), "Team 3", 20, 2),
		modelstest.Drafted(modelstest.Player("c", 4, 10), "Team 4", 10, 3),
	}
	cases := []struct {
		name  string
		phase models.DraftPhase
		picks []models.DraftedPlayer
		tier  int
		want  float64
	}{
		{"better than the running average", models.PhaseMiddle, drafted, 2, TimingBonus},
		{"within half a tier", models.PhaseMiddle, drafted, 3, 0},
		{"late draft", models.PhaseLate, drafted, 1, TimingBonus},
		{"early draft never counts", models.PhaseEarly, drafted, 1, 0},
		{"nothing drafted yet", models.PhaseMiddle, nil, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := &models.DraftState{Phase: tc.phase, DraftedPlayers: tc.picks}
			check.Equal(t, tc.want, timingBonus(modelstest.Player("x", tc.tier, 30), state))
		})
	}
}

func TestValueEfficiency_PremiumAndOpportunity(t *testing.T) {
	cases := []struct {
		name  string
		tier  int
		value int
		phase models.DraftPhase
		want  float64
	}{
		{"elite bargain", 1, 30, models.PhaseMiddle, 12 + 4 + 3},
		{"elite bargain late is capped", 1, 30, models.PhaseLate, 20},
		{"fair tier 2", 2, 20, models.PhaseMiddle, 6 + 3 + 2},
		{"slight overpay halves the premium", 3, 17, models.PhaseMiddle, 2 + 1},
		{"deep bargain", 5, 40, models.PhaseMiddle, 12},
		{"deep bargain late", 5, 40, models.PhaseLate, 12 + 2},
		{"overpriced elite keeps the opportunity", 1, 10, models.PhaseMiddle, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := modelstest.Player("x", tc.tier, tc.value)
			check.Equal(t, tc.want, valueEfficiency(p, 19, tc.phase))
		})
	}
}

func TestPuntStrategy_AutoPuntDetection(t *testing.T) {
	var owned []models.DraftedPlayer
	for i := 1; i <= 4; i++ {
		owned = append(owned, modelstest.Drafted(modelstest.Player(fmt.Sprintf("m%d", i), 4, 10), me, 10, i))
	}
	state := &models.DraftState{
		Strategy: models.StrategyStarsScrubs,
		MyRoster: operatorRoster(160, owned...),
		RosterAnalysis: models.RosterAnalysis{
			CategoryTotals: models.CategoryImpact{Steals: -1, Blocks: -1, FreeThrowPct: -1},
		},
	}

	cases := []struct {
		name   string
		impact models.CategoryImpact
		want   float64
	}{
		{"reinforces every weak category", models.CategoryImpact{Steals: -1, Blocks: -1, FreeThrowPct: -1}, 6 + 7},
		{"reinforces one and fights one", models.CategoryImpact{Steals: -1, Blocks: 1}, 2 - 1 + 7},
		{"fights every weak category", models.CategoryImpact{Steals: 1, Blocks: 1, FreeThrowPct: 1}, 7},
		{"neutral", models.CategoryImpact{}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// a tier 1 player is a perfect stars and scrubs fit
			p := modelstest.WithImpact(modelstest.Player("x", 1, 50), tc.impact)
			check.Equal(t, tc.want, puntStrategy(p, state))
		})
	}

	early := *state
	early.MyRoster = operatorRoster(170, owned[:3]...)
	broad := modelstest.WithImpact(modelstest.Player("x", 1, 50), models.CategoryImpact{Points: 1, Rebounds: 1, Assists: 1})
	check.Equal(t, 10.0+3, puntStrategy(broad, &early))
}

func TestDowngrade(t *testing.T) {
	cases := []struct {
		in         Confidence
		assessment float64
		want       Confidence
	}{
		{ConfidenceHigh, 0.5, ConfidenceHigh},
		{ConfidenceHigh, 0.2, ConfidenceMedium},
		{ConfidenceHigh, 0.05, ConfidenceMedium},
		{ConfidenceMedium, 0.2, ConfidenceMedium},
		{ConfidenceMedium, 0.05, ConfidenceLow},
		{ConfidenceLow, 0, ConfidenceLow},
	}
	for _, tc := range cases {
		check.Equal(t, tc.want, downgrade(tc.in, tc.assessment))
	}
}
