package bidding

import (
	"fmt"
	"math"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/strategy"
)

// Sub-score caps
const (
	MaxRosterFit       = 25.0
	MaxRemainingValue  = 20.0
	MaxBudgetSituation = 20.0
	MaxValueEfficiency = 20.0
	MaxPuntStrategy    = 15.0
	TimingBonus        = 5.0
)

// Affordability fraction of projected value a competitor's budget-per-slot has
// to reach to count as interested. The scorer and the reasoning note use
// different cutoffs.
const (
	scorerInterestRatio = 0.8
	noteInterestRatio   = 0.7
)

// Breakdown holds the five sub-scores
type Breakdown struct {
	RosterFit             float64 `json:"rosterFit"`
	RemainingPlayersValue float64 `json:"remainingPlayersValue"`
	BudgetSituation       float64 `json:"budgetSituation"`
	ValueEfficiency       float64 `json:"valueEfficiency"`
	PuntStrategy          float64 `json:"puntStrategy"`
}

// Sum adds the five sub-scores
func (b Breakdown) Sum() float64 {
	return b.RosterFit + b.RemainingPlayersValue + b.BudgetSituation + b.ValueEfficiency + b.PuntStrategy
}

// ScoreResult is the scorer output. Total may exceed 100.
type ScoreResult struct {
	Total       float64   `json:"total"`
	Breakdown   Breakdown `json:"breakdown"`
	TimingBonus float64   `json:"timingBonus"`
	Labels      []string  `json:"labels"`
}

// Score rates p at currentBid for the operator. competitorRatios are the
// budget-per-slot figures of rivals and are only consulted when the state
// carries no competitor teams.
func Score(p models.Player, currentBid int, state *models.DraftState, competitorRatios ...float64) ScoreResult {
	b := Breakdown{
		RosterFit:             rosterFit(p, state),
		RemainingPlayersValue: RemainingPlayersScore(p, state.PlayersRemaining),
		BudgetSituation:       budgetSituation(p, currentBid, state, competitorRatios),
		ValueEfficiency:       valueEfficiency(p, currentBid, state.Phase),
		PuntStrategy:          puntStrategy(p, state),
	}
	bonus := timingBonus(p, state)
	return ScoreResult{
		Total:       b.Sum() + bonus,
		Breakdown:   b,
		TimingBonus: bonus,
		Labels:      labels(b),
	}
}

func tierBonus(tier int, bonuses [3]float64) float64 {
	if tier >= 1 && tier <= 3 {
		return bonuses[tier-1]
	}
	return 0
}

func scoringStrengths(state *models.DraftState) map[models.Category]models.CategoryStrength {
	return roster.Classify(state.RosterAnalysis.CategoryTotals, roster.ScoringThresholds, state.Strategy)
}

func rosterFit(p models.Player, state *models.DraftState) float64 {
	slots := state.MyRoster.Slots
	filled := state.MyRoster.FilledSlots()
	multi := len(p.Positions) > 1

	if filled == 0 {
		score := 15 + tierBonus(p.Tier, [3]float64{8, 5, 2})
		if multi {
			score += 2
		}
		return capAt(score, MaxRosterFit)
	}
	if filled <= 2 {
		return capAt(12+tierBonus(p.Tier, [3]float64{8, 5, 3}), MaxRosterFit)
	}

	need := roster.PositionalNeed(slots, p)
	positional := math.Min(10, 3*float64(need))

	category := 0.0
	for c, s := range scoringStrengths(state) {
		g := p.Impact.Goodness(c)
		switch s {
		case models.StrengthWeak:
			if g > 1.0 {
				category += 2
			} else if g > 0.3 {
				category++
			}
		case models.StrengthStrong:
			if g < -0.5 {
				category--
			}
		}
	}
	category = clamp(category, 0, 10)

	flex := 0.0
	if multi {
		flex += 2
	}
	if need > 0 {
		switch empty := roster.EmptyCount(slots); {
		case empty <= 3:
			flex += 3
		case empty <= 6:
			flex++
		}
	}
	flex = capAt(flex, 5)

	return capAt(positional+category+flex, MaxRosterFit)
}

// interested reports whether a rival could realistically chase p
func interested(team models.TeamInfo, p models.Player, ratio float64) bool {
	return team.SlotsRemaining >= 1 &&
		roster.PositionalNeed(team.Slots, p) > 0 &&
		team.BudgetPerSlot() >= ratio*float64(p.ProjectedValue)
}

func myBudgetPerSlot(r models.MyRoster) float64 {
	empty := r.EmptySlots()
	if empty < 1 {
		empty = 1
	}
	return float64(r.RemainingBudget) / float64(empty)
}

func budgetSituation(p models.Player, currentBid int, state *models.DraftState, competitorRatios []float64) float64 {
	r := state.MyRoster
	value := float64(p.ProjectedValue)
	nextBid := float64(currentBid + 1)

	score := 0.0
	// post-bid budget over the slots still open once this player fills one
	reserveSlots := r.EmptySlots() - 1
	if reserveSlots < 1 {
		reserveSlots = 1
	}
	switch perSlot := (float64(r.RemainingBudget) - nextBid) / float64(reserveSlots); {
	case perSlot > 15:
		score += 8
	case perSlot > 10:
		score += 6
	case perSlot > 5:
		score += 4
	case perSlot > 2:
		score += 2
	}

	switch {
	case nextBid <= 0.7*value:
		score += 7
	case nextBid <= 0.8*value:
		score += 5
	case nextBid <= 0.9*value:
		score += 3
	case nextBid <= value:
		score++
	}

	competitors := state.Competitors()
	switch {
	case len(competitors) > 0:
		count, bpsSum := 0, 0.0
		for _, team := range competitors {
			if interested(team, p, scorerInterestRatio) {
				count++
				bpsSum += team.BudgetPerSlot()
			}
		}
		switch {
		case count == 0:
			score += 5
		case count <= 2:
			score += 3
		case count <= 4:
			score++
		}
		if count > 0 {
			avg := bpsSum / float64(count)
			if avg > 0 {
				switch adv := myBudgetPerSlot(r) / avg; {
				case adv > 1.5:
					score += 2
				case adv > 1.2:
					score++
				}
			}
		}
	case len(competitorRatios) > 0:
		sum := 0.0
		for _, c := range competitorRatios {
			sum += c
		}
		if avg := sum / float64(len(competitorRatios)); avg > 0 {
			switch adv := myBudgetPerSlot(r) / avg; {
			case adv > 1.3:
				score += 5
			case adv > 1.0:
				score += 3
			case adv > 0.8:
				score++
			}
		}
	default:
		score += 2
	}

	return capAt(score, MaxBudgetSituation)
}

// Efficiency is projected value per dollar at the next bid
func Efficiency(p models.Player, currentBid int) float64 {
	return float64(p.ProjectedValue) / float64(currentBid+1)
}

func valueEfficiency(p models.Player, currentBid int, phase models.DraftPhase) float64 {
	eff := Efficiency(p, currentBid)

	base := 0.0
	switch {
	case eff >= 1.5:
		base = 12
	case eff >= 1.3:
		base = 10
	case eff >= 1.15:
		base = 8
	case eff >= 1.0:
		base = 6
	case eff >= 0.9:
		base = 4
	case eff >= 0.8:
		base = 2
	}

	premium := 0.0
	if p.Tier >= 1 && p.Tier <= 4 {
		full := float64(5 - p.Tier)
		switch {
		case eff >= 1.0:
			premium = full
		case eff >= 0.8:
			premium = full / 2
		}
	}

	opportunity := 0.0
	if eff > 0 {
		switch p.Tier {
		case 1:
			opportunity += 3
		case 2:
			opportunity += 2
		}
	}
	if phase == models.PhaseLate && eff >= 1.5 {
		opportunity += 2
	}
	opportunity = capAt(opportunity, 4)

	return capAt(base+premium+opportunity, MaxValueEfficiency)
}

func puntStrategy(p models.Player, state *models.DraftState) float64 {
	fit := strategy.Fit(p, state.Strategy, state.RosterAnalysis)

	if state.MyRoster.FilledSlots() <= 3 {
		breadth := 0.0
		switch n := p.Impact.PositiveCategories(); {
		case n >= 5:
			breadth = 5
		case n >= 3:
			breadth = 3
		case n >= 2:
			breadth = 1
		}
		return capAt(10*fit+breadth, MaxPuntStrategy)
	}

	auto := 0.0
	for c, s := range scoringStrengths(state) {
		if s != models.StrengthWeak {
			continue
		}
		switch g := p.Impact.Goodness(c); {
		case g < -0.5:
			auto += 2
		case g > 0.5:
			auto--
		}
	}
	auto = clamp(auto, 0, 8)
	return capAt(auto+7*fit, MaxPuntStrategy)
}

func timingBonus(p models.Player, state *models.DraftState) float64 {
	if len(state.DraftedPlayers) == 0 || state.Phase == models.PhaseEarly {
		return 0
	}
	sum := 0
	for _, d := range state.DraftedPlayers {
		sum += d.Tier
	}
	avg := float64(sum) / float64(len(state.DraftedPlayers))
	if float64(p.Tier) < avg-0.5 {
		return TimingBonus
	}
	return 0
}

func quality(score, limit float64) string {
	switch ratio := score / limit; {
	case ratio >= 0.8:
		return "excellent"
	case ratio >= 0.6:
		return "good"
	case ratio >= 0.4:
		return "fair"
	}
	return "poor"
}

func labels(b Breakdown) []string {
	return []string{
		fmt.Sprintf("Roster fit: %s (%.0f/%.0f)", quality(b.RosterFit, MaxRosterFit), b.RosterFit, MaxRosterFit),
		fmt.Sprintf("Remaining player value: %s (%.0f/%.0f)", quality(b.RemainingPlayersValue, MaxRemainingValue), b.RemainingPlayersValue, MaxRemainingValue),
		fmt.Sprintf("Budget situation: %s (%.0f/%.0f)", quality(b.BudgetSituation, MaxBudgetSituation), b.BudgetSituation, MaxBudgetSituation),
		fmt.Sprintf("Value efficiency: %s (%.0f/%.0f)", quality(b.ValueEfficiency, MaxValueEfficiency), b.ValueEfficiency, MaxValueEfficiency),
		fmt.Sprintf("Strategy fit: %s (%.0f/%.0f)", quality(b.PuntStrategy, MaxPuntStrategy), b.PuntStrategy, MaxPuntStrategy),
	}
}
