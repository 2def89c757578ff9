package roster

import (
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// Thresholds are the cutoffs used to classify a category total. Counting
// categories (points, rebounds, assists, threes) use HeadlineStrong; the
// others use OtherStrong. Every category is weak below Weak.
type Thresholds struct {
	HeadlineStrong float64
	OtherStrong    float64
	Weak           float64
}

var (
	// DraftAnalysisThresholds classify the roster analysis kept on the draft state
	DraftAnalysisThresholds = Thresholds{HeadlineStrong: 1.5, OtherStrong: 0.5, Weak: -0.5}
	// ScoringThresholds classify the roster inside the bidding scorer
	ScoringThresholds = Thresholds{HeadlineStrong: 1.0, OtherStrong: 0.5, Weak: -0.5}
)

func isHeadline(c models.Category) bool {
	switch c {
	case models.CategoryPoints, models.CategoryRebounds, models.CategoryAssists, models.CategoryThreePointers:
		return true
	}
	return false
}

// Aggregate sums impacts. The two percentage categories are averaged over the
// number of contributors; an empty input yields all zeros.
func Aggregate(impacts []models.CategoryImpact) models.CategoryImpact {
	var total models.CategoryImpact
	if len(impacts) == 0 {
		return total
	}
	for _, imp := range impacts {
		for _, c := range models.Categories() {
			total = total.Set(c, total.Get(c)+imp.Get(c))
		}
	}
	n := float64(len(impacts))
	total.FieldGoalPct /= n
	total.FreeThrowPct /= n
	return total
}

// Impacts extracts the impact lines of drafted players
func Impacts(players []models.DraftedPlayer) []models.CategoryImpact {
	out := make([]models.CategoryImpact, len(players))
	for i, p := range players {
		out[i] = p.Impact
	}
	return out
}

// Classify labels each category of totals. A punt strategy forces its
// category to weak.
func Classify(totals models.CategoryImpact, th Thresholds, strategy models.RosterStrategy) map[models.Category]models.CategoryStrength {
	out := make(map[models.Category]models.CategoryStrength, len(models.Categories()))
	for _, c := range models.Categories() {
		v := totals.Goodness(c)
		strong := th.OtherStrong
		if isHeadline(c) {
			strong = th.HeadlineStrong
		}
		switch {
		case v > strong:
			out[c] = models.StrengthStrong
		case v < th.Weak:
			out[c] = models.StrengthWeak
		default:
			out[c] = models.StrengthNeutral
		}
	}
	if punted, ok := strategy.PuntedCategory(); ok {
		out[punted] = models.StrengthWeak
	}
	return out
}

var puntable = []struct {
	category models.Category
	strategy models.RosterStrategy
}{
	{models.CategoryFreeThrowPct, models.StrategyPuntFT},
	{models.CategoryFieldGoalPct, models.StrategyPuntFG},
	{models.CategoryTurnovers, models.StrategyPuntTO},
	{models.CategoryAssists, models.StrategyPuntAssists},
}

// Recommend picks the archetype the roster is drifting toward. A single
// clearly sunk puntable category wins; otherwise two stars plus two bargain
// buys suggest stars_scrubs.
func Recommend(totals models.CategoryImpact, players []models.DraftedPlayer) models.RosterStrategy {
	var sunk []models.RosterStrategy
	for _, p := range puntable {
		if totals.Goodness(p.category) < -1.0 {
			sunk = append(sunk, p.strategy)
		}
	}
	if len(sunk) == 1 {
		return sunk[0]
	}

	stars, scrubs := 0, 0
	for _, p := range players {
		if p.Tier <= 2 {
			stars++
		}
		if p.Price <= 5 {
			scrubs++
		}
	}
	if stars >= 2 && scrubs >= 2 {
		return models.StrategyStarsScrubs
	}
	return models.StrategyBalanced
}

// Flexibility is the share of players eligible at more than one position
func Flexibility(players []models.DraftedPlayer) float64 {
	if len(players) == 0 {
		return 1.0
	}
	multi := 0
	for _, p := range players {
		if len(p.Positions) > 1 {
			multi++
		}
	}
	return float64(multi) / float64(len(players))
}

// Analyze derives the roster analysis stored on the draft state
func Analyze(players []models.DraftedPlayer, strategy models.RosterStrategy) models.RosterAnalysis {
	totals := Aggregate(Impacts(players))
	return models.RosterAnalysis{
		CategoryTotals:      totals,
		Strengths:           Classify(totals, DraftAnalysisThresholds, strategy),
		RecommendedStrategy: Recommend(totals, players),
		Flexibility:         Flexibility(players),
	}
}
