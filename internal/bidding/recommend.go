// Package bidding turns a nominated player and the current draft snapshot
// into a bid recommendation with a score breakdown and reasoning.
package bidding

import (
	"fmt"
	"math"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/opponent"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/strategy"
)

// MinScoreToBid is the lowest score that still recommends bidding
const MinScoreToBid = 45

// Confidence in a recommendation
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Aggressiveness is how hard to push the bidding
type Aggressiveness string

const (
	Passive    Aggressiveness = "passive"
	Moderate   Aggressiveness = "moderate"
	Aggressive Aggressiveness = "aggressive"
)

// Timing is the when-to-bid advice
type Timing struct {
	Aggressiveness    Aggressiveness `json:"aggressiveness"`
	WaitForLowerPrice bool           `json:"waitForLowerPrice"`
	Bluff             bool           `json:"bluff"`
}

// Recommendation is the final answer for one nominated player
type Recommendation struct {
	PlayerID    string                        `json:"playerId"`
	CurrentBid  int                           `json:"currentBid"`
	ShouldBid   bool                          `json:"shouldBid"`
	MaxBid      int                           `json:"maxBid"`
	Confidence  Confidence                    `json:"confidence"`
	Score       float64                       `json:"score"`
	Breakdown   Breakdown                     `json:"breakdown"`
	TimingBonus float64                       `json:"timingBonus"`
	StrategyFit float64                       `json:"strategyFit"`
	Timing      Timing                        `json:"timing"`
	Competition *opponent.CompetitionAnalysis `json:"competition,omitempty"`
	Reasoning   []string                      `json:"reasoning"`
}

// Affordability returns the dollars that must stay in reserve and the most
// the operator can bid while still filling every remaining slot at $1.
func Affordability(r models.MyRoster) (minBudgetNeeded, maxAffordable int) {
	minBudgetNeeded = r.EmptySlots() - 1
	if minBudgetNeeded < 1 {
		minBudgetNeeded = 1
	}
	return minBudgetNeeded, r.RemainingBudget - minBudgetNeeded
}

// multiplier maps a score to the fraction of projected value worth paying
func multiplier(score float64) float64 {
	switch s := math.Min(score, 100); {
	case s >= 85:
		return 1.10
	case s >= 75:
		return 1.05
	case s >= 65:
		return 1.00
	case s >= 55:
		return 0.95
	case s >= 45:
		return 0.90
	case s >= 35:
		return 0.80
	}
	return 0.70
}

// downgrade lowers confidence one step when the competition read rests on
// too little opponent history
func downgrade(c Confidence, assessment float64) Confidence {
	switch {
	case assessment < 0.3 && c == ConfidenceHigh:
		return ConfidenceMedium
	case assessment < 0.1 && c == ConfidenceMedium:
		return ConfidenceLow
	}
	return c
}

// GetBiddingRecommendation decides whether and how high to bid on p at
// currentBid. It never fails; an unaffordable bid comes back with
// ShouldBid false and a zero score. competitorRatios are passed to Score for
// snapshots that carry no competitor teams.
func GetBiddingRecommendation(p models.Player, currentBid int, state *models.DraftState, competitorRatios ...float64) Recommendation {
	minNeeded, maxAffordable := Affordability(state.MyRoster)
	if currentBid >= maxAffordable {
		return Recommendation{
			PlayerID:   p.ID,
			CurrentBid: currentBid,
			Confidence: ConfidenceHigh,
			Reasoning: []string{
				fmt.Sprintf("Cannot bid: $%d remaining must keep $%d in reserve to fill %d open slot(s), so the most you can bid is $%d",
					state.MyRoster.RemainingBudget, minNeeded, state.MyRoster.EmptySlots(), maxAffordable),
			},
		}
	}

	result := Score(p, currentBid, state, competitorRatios...)
	score := result.Total

	maxBid := int(math.Floor(float64(p.ProjectedValue) * multiplier(score)))
	if maxBid > maxAffordable {
		maxBid = maxAffordable
	}

	confidence := ConfidenceMedium
	switch {
	case score >= 75:
		confidence = ConfidenceHigh
	case score < 55:
		confidence = ConfidenceLow
	}

	fit := strategy.Fit(p, state.Strategy, state.RosterAnalysis)
	timing := BiddingTiming(p, currentBid, state)
	competition := opponent.GenerateAdvancedCompetitionAnalysis(p, state)

	if competition.MaxRecommendedBid < maxBid {
		maxBid = competition.MaxRecommendedBid
	}
	confidence = downgrade(confidence, competition.Confidence)

	rec := Recommendation{
		PlayerID:    p.ID,
		CurrentBid:  currentBid,
		ShouldBid:   maxBid > currentBid && score >= MinScoreToBid,
		MaxBid:      maxBid,
		Confidence:  confidence,
		Score:       score,
		Breakdown:   result.Breakdown,
		TimingBonus: result.TimingBonus,
		StrategyFit: fit,
		Timing:      timing,
		Competition: &competition,
	}
	rec.Reasoning = reasoning(p, state, result, timing, competition)
	return rec
}

// BiddingTiming derives how aggressively to bid and whether to bluff
func BiddingTiming(p models.Player, currentBid int, state *models.DraftState) Timing {
	eff := Efficiency(p, currentBid)
	remaining := state.MyRoster.RemainingBudget

	var strong, fair float64
	switch filled := state.MyRoster.FilledSlots(); {
	case filled <= 2:
		strong, fair = 1.5, 1.1
	case filled <= 8:
		strong, fair = 1.2, 0.95
	default:
		strong, fair = 1.0, 0.85
	}

	t := Timing{Aggressiveness: Passive}
	switch {
	case eff >= strong:
		t.Aggressiveness = Aggressive
	case eff >= fair:
		t.Aggressiveness = Moderate
	}

	switch {
	case remaining > 120 && eff > 1.0:
		t.Aggressiveness = Aggressive
	case remaining < 50:
		t.Aggressiveness = Passive
		t.WaitForLowerPrice = true
	}

	value := float64(p.ProjectedValue)
	t.Bluff = p.Tier <= 2 &&
		p.ProjectedValue > remaining &&
		state.Phase == models.PhaseEarly &&
		float64(currentBid) < 0.7*value
	return t
}

func reasoning(p models.Player, state *models.DraftState, result ScoreResult, timing Timing, competition opponent.CompetitionAnalysis) []string {
	var out []string

	switch state.Phase {
	case models.PhaseEarly:
		out = append(out, "Early draft: prioritize elite talent and keep budget flexible")
	case models.PhaseMiddle:
		out = append(out, "Middle draft: fill positional needs at fair prices")
	case models.PhaseLate:
		out = append(out, "Late draft: bargains and open slots matter most")
	}

	rivals := 0
	for _, team := range state.Competitors() {
		if interested(team, p, noteInterestRatio) {
			rivals++
		}
	}
	if rivals > 0 {
		out = append(out, fmt.Sprintf("%d competing team(s) need this position and can afford it", rivals))
	} else {
		out = append(out, "Little competition expected for this player")
	}

	out = append(out, result.Labels...)
	out = append(out, fmt.Sprintf("Overall score: %.1f", result.Total))
	if result.TimingBonus > 0 {
		out = append(out, "Higher tier than the players going off the board lately")
	}

	switch timing.Aggressiveness {
	case Aggressive:
		out = append(out, "Bid aggressively")
	case Moderate:
		out = append(out, "Bid steadily up to the maximum")
	case Passive:
		out = append(out, "Bid passively")
	}
	if timing.WaitForLowerPrice {
		out = append(out, "Budget is tight; wait for a lower price")
	}
	if timing.Bluff {
		out = append(out, "Bluff opportunity: push the price up on a player you cannot afford")
	}

	out = append(out, competition.Summary)
	return out
}
