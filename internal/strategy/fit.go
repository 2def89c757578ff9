// Package strategy scores how well a player suits a roster archetype.
package strategy

import (
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// Fit returns a score in [0,1] for how well p matches archetype given the
// current roster analysis. Unknown archetypes score a neutral 0.5.
func Fit(p models.Player, archetype models.RosterStrategy, analysis models.RosterAnalysis) float64 {
	switch archetype {
	case models.StrategyStarsScrubs:
		return starsScrubs(p)
	case models.StrategyBalanced:
		return balanced(p, analysis)
	}
	if punted, ok := archetype.PuntedCategory(); ok {
		return punt(p, punted)
	}
	return 0.5
}

func starsScrubs(p models.Player) float64 {
	switch {
	case p.Tier <= 2:
		return 1.0
	case p.ProjectedValue <= 5:
		return 0.8
	case p.Tier == 3:
		return 0.4
	}
	// mid-priced depth is exactly what this build avoids
	return 0.1
}

func balanced(p models.Player, analysis models.RosterAnalysis) float64 {
	score := 0.5
	for _, c := range models.Categories() {
		g := p.Impact.Goodness(c)
		switch analysis.Strengths[c] {
		case models.StrengthWeak:
			if g > 0.5 {
				score += 0.1
			}
		case models.StrengthStrong:
			if g < -0.5 {
				score -= 0.1
			}
		}
	}
	return clamp01(score)
}

func punt(p models.Player, punted models.Category) float64 {
	score := 0.5
	g := p.Impact.Goodness(punted)
	switch {
	case g < -1.0:
		score += 0.3
	case g < -0.3:
		score += 0.2
	case g > 1.0:
		score -= 0.3
	case g > 0.3:
		score -= 0.15
	}

	others := 0
	for _, c := range models.Categories() {
		if c != punted && p.Impact.Goodness(c) > 0.5 {
			others++
		}
	}
	bonus := 0.05 * float64(others)
	if bonus > 0.2 {
		bonus = 0.2
	}
	return clamp01(score + bonus)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
