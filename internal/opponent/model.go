// Package opponent infers how competing teams are likely to bid and ranks
// them as threats for a given player.
package opponent

import (
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// Overbid cutoffs for classifying a team's bidding. Threat assessment and the
// league overview were tuned separately and keep their own values.
const (
	ThreatAggressiveOverbid = 5.0
	LeagueAggressiveOverbid = 10.0
	ConservativeOverbid     = -3.0
)

// minHistory is the number of acquisitions needed before inferring anything
const minHistory = 2

// StrategyDetection is the archetype a team appears to be following
type StrategyDetection struct {
	Strategy   models.RosterStrategy `json:"strategy"`
	Confidence float64               `json:"confidence"`
	Evidence   []string              `json:"evidence"`
}

// Aggressiveness classifies how far over projection a team tends to pay
type Aggressiveness string

const (
	Aggressive   Aggressiveness = "aggressive"
	Moderate     Aggressiveness = "moderate"
	Conservative Aggressiveness = "conservative"
)

// Acquisition is one recent purchase
type Acquisition struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Overbid  int    `json:"overbid"`
}

// BiddingPattern summarizes a team's spending history
type BiddingPattern struct {
	AverageOverbid float64                     `json:"averageOverbid"`
	Aggressiveness Aggressiveness              `json:"aggressiveness"`
	PositionShare  map[models.Position]float64 `json:"positionShare"`
	TierShare      map[int]float64             `json:"tierShare"`
	Recent         []Acquisition               `json:"recent"`
}

// PressureLevel is how squeezed a team's budget is
type PressureLevel string

const (
	PressureComfortable PressureLevel = "comfortable"
	PressureModerate    PressureLevel = "moderate"
	PressureHigh        PressureLevel = "high"
	PressureDesperate   PressureLevel = "desperate"
)

// Severity orders pressure levels, higher is worse
func (l PressureLevel) Severity() int {
	switch l {
	case PressureModerate:
		return 1
	case PressureHigh:
		return 2
	case PressureDesperate:
		return 3
	}
	return 0
}

// BudgetPressure is a team's budget situation
type BudgetPressure struct {
	Level             PressureLevel `json:"level"`
	BudgetPerSlot     float64       `json:"budgetPerSlot"`
	NoStarYet         bool          `json:"noStarYet"`
	RunningOutOfSlots bool          `json:"runningOutOfSlots"`
	LowBudgetPerSlot  bool          `json:"lowBudgetPerSlot"`
	LikelyToOverbid   bool          `json:"likelyToOverbid"`
}

// detectionOrder fixes iteration order so ties resolve the same way every run
var detectionOrder = []models.RosterStrategy{
	models.StrategyStarsScrubs,
	models.StrategyPuntFT,
	models.StrategyPuntFG,
	models.StrategyPuntTO,
	models.StrategyPuntAssists,
	models.StrategyBalanced,
}

// DetectStrategy infers a team's archetype from its spend pattern and
// category averages. Teams with fewer than two players come back unknown.
func DetectStrategy(team models.TeamInfo) StrategyDetection {
	if len(team.Players) < minHistory {
		return StrategyDetection{
			Strategy: models.StrategyUnknown,
			Evidence: []string{"not enough acquisitions to infer a strategy"},
		}
	}

	scores := map[models.RosterStrategy]int{}
	var evidence []string

	avg := team.AveragePrice
	expensive, cheap, maxPrice := 0, 0, 0
	for _, p := range team.Players {
		if float64(p.Price) > 1.5*avg {
			expensive++
		}
		if float64(p.Price) < 0.7*avg {
			cheap++
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}
	if expensive >= 2 && cheap >= 2 {
		scores[models.StrategyStarsScrubs] += 2
		evidence = append(evidence, fmt.Sprintf("%d premium buys and %d bargain buys", expensive, cheap))
		if maxPrice >= 40 {
			scores[models.StrategyStarsScrubs]++
		}
	}

	means := categoryMeans(team.Players)
	var weak []models.Category
	for _, c := range models.Categories() {
		if means.Goodness(c) < -0.5 {
			weak = append(weak, c)
		}
	}
	for _, s := range detectionOrder {
		punted, ok := s.PuntedCategory()
		if !ok {
			continue
		}
		g := means.Goodness(punted)
		if g >= -0.5 || len(weak) > 2 {
			continue
		}
		scores[s] += 2
		if g < -1.0 {
			scores[s]++
		}
		evidence = append(evidence, fmt.Sprintf("%s averaging %.2f", punted, g))
	}

	if len(weak) == 0 {
		scores[models.StrategyBalanced]++
		if means.PositiveCategories() >= 4 {
			scores[models.StrategyBalanced]++
		}
		evidence = append(evidence, "no weak categories")
	}

	best, bestScore, tied := models.StrategyUnknown, 0, false
	for _, s := range detectionOrder {
		switch {
		case scores[s] > bestScore:
			best, bestScore, tied = s, scores[s], false
		case scores[s] == bestScore && bestScore > 0:
			tied = true
		}
	}
	if bestScore == 0 || tied {
		return StrategyDetection{Strategy: models.StrategyUnknown, Evidence: evidence}
	}

	confidence := float64(bestScore) / 3
	if confidence > 1 {
		confidence = 1
	}
	return StrategyDetection{Strategy: best, Confidence: confidence, Evidence: evidence}
}

// categoryMeans averages goodness-oriented impact per player
func categoryMeans(players []models.DraftedPlayer) models.CategoryImpact {
	var sum models.CategoryImpact
	if len(players) == 0 {
		return sum
	}
	for _, p := range players {
		for _, c := range models.Categories() {
			sum = sum.Set(c, sum.Get(c)+p.Impact.Get(c))
		}
	}
	n := float64(len(players))
	for _, c := range models.Categories() {
		sum = sum.Set(c, sum.Get(c)/n)
	}
	return sum
}

// AnalyzeBiddingPatterns summarizes how a team has spent. aggressiveOverbid
// is the average overbid above which the team counts as aggressive.
func AnalyzeBiddingPatterns(team models.TeamInfo, aggressiveOverbid float64) BiddingPattern {
	pattern := BiddingPattern{
		Aggressiveness: Moderate,
		PositionShare:  map[models.Position]float64{},
		TierShare:      map[int]float64{},
	}
	if len(team.Players) < minHistory {
		return pattern
	}

	totalOverbid, totalSpent := 0, 0
	for _, p := range team.Players {
		totalOverbid += p.Price - p.ProjectedValue
		totalSpent += p.Price
	}
	pattern.AverageOverbid = float64(totalOverbid) / float64(len(team.Players))
	switch {
	case pattern.AverageOverbid > aggressiveOverbid:
		pattern.Aggressiveness = Aggressive
	case pattern.AverageOverbid < ConservativeOverbid:
		pattern.Aggressiveness = Conservative
	}

	if totalSpent > 0 {
		for _, p := range team.Players {
			share := float64(p.Price) / float64(totalSpent)
			for _, pos := range p.Positions {
				pattern.PositionShare[pos] += share / float64(len(p.Positions))
			}
			pattern.TierShare[p.Tier] += share
		}
	}

	recent := make([]models.DraftedPlayer, len(team.Players))
	copy(recent, team.Players)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DraftOrder > recent[j].DraftOrder
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}
	for _, p := range recent {
		pattern.Recent = append(pattern.Recent, Acquisition{
			PlayerID: p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Overbid:  p.Price - p.ProjectedValue,
		})
	}
	return pattern
}

// AnalyzeBudgetPressure classifies a team's budget squeeze. progress is the
// fraction of all league roster spots already filled.
func AnalyzeBudgetPressure(team models.TeamInfo, progress float64) BudgetPressure {
	bps := team.BudgetPerSlot()
	owned := len(team.Players)
	rosterSize := owned + team.SlotsRemaining
	filled := 0.0
	if rosterSize > 0 {
		filled = float64(owned) / float64(rosterSize)
	}

	var level PressureLevel
	switch {
	case bps < 5 && team.SlotsRemaining > 3:
		level = PressureDesperate
	case bps < 10 && team.SlotsRemaining > 2:
		level = PressureHigh
	case bps < 15 || filled > 0.7:
		level = PressureModerate
	default:
		level = PressureComfortable
	}

	hasStar := false
	for _, p := range team.Players {
		if p.Tier <= 2 {
			hasStar = true
			break
		}
	}

	bp := BudgetPressure{
		Level:             level,
		BudgetPerSlot:     bps,
		NoStarYet:         !hasStar && progress < 0.5,
		RunningOutOfSlots: team.SlotsRemaining <= 3 && progress > 0.8,
		LowBudgetPerSlot:  team.SlotsRemaining > 0 && bps < 8,
	}
	bp.LikelyToOverbid = bp.NoStarYet || bp.RunningOutOfSlots
	return bp
}

// Profile is the full read on one competitor
type Profile struct {
	Team     string            `json:"team"`
	Strategy StrategyDetection `json:"strategy"`
	Pattern  BiddingPattern    `json:"pattern"`
	Pressure BudgetPressure    `json:"pressure"`
}

// ProfileLeague profiles every competitor using the league overview tuning
func ProfileLeague(state *models.DraftState) []Profile {
	progress := state.Progress()
	var out []Profile
	for _, team := range state.Competitors() {
		out = append(out, Profile{
			Team:     team.Name,
			Strategy: DetectStrategy(team),
			Pattern:  AnalyzeBiddingPatterns(team, LeagueAggressiveOverbid),
			Pressure: AnalyzeBudgetPressure(team, progress),
		})
	}
	return out
}
