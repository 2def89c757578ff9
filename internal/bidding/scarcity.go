package bidding

import (
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// earlyPoolSize is the pool size above which tier quality outweighs scarcity
const earlyPoolSize = 150

// PositionalScarcity counts remaining players eligible at pos with a tier no
// worse than tierCeiling. Lower is scarcer.
func PositionalScarcity(pos models.Position, pool []models.Player, tierCeiling int) int {
	n := 0
	for _, p := range pool {
		if p.Tier <= tierCeiling && p.EligibleAt(pos) {
			n++
		}
	}
	return n
}

// MinPositionalScarcity is the scarcest of p's eligible positions. p itself
// is not counted.
func MinPositionalScarcity(p models.Player, pool []models.Player) int {
	others := without(pool, p.ID)
	best := -1
	for _, pos := range p.Positions {
		n := PositionalScarcity(pos, others, p.Tier)
		if best < 0 || n < best {
			best = n
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func without(pool []models.Player, id string) []models.Player {
	out := make([]models.Player, 0, len(pool))
	for _, p := range pool {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// RemainingPlayersScore rates how much the remaining pool makes p worth
// buying now, 0 to 20.
func RemainingPlayersScore(p models.Player, pool []models.Player) float64 {
	others := without(pool, p.ID)

	sameTier, betterInTier := 0, 0
	for _, o := range others {
		if o.Tier != p.Tier {
			continue
		}
		sameTier++
		if o.ProjectedValue > p.ProjectedValue {
			betterInTier++
		}
	}

	score := 0.0
	if len(pool) > earlyPoolSize {
		score += tierPoints(p.Tier)
		switch {
		case sameTier <= 10:
			score += 5
		case sameTier <= 20:
			score += 2
		}
		switch {
		case betterInTier == 0:
			score += 5
		case betterInTier <= 2:
			score += 2
		}
		return capAt(score, 20)
	}

	switch scarcity := MinPositionalScarcity(p, pool); {
	case scarcity <= 2:
		score += 10
	case scarcity <= 4:
		score += 7
	case scarcity <= 8:
		score += 4
	case scarcity <= 15:
		score += 2
	}

	switch {
	case sameTier <= 3:
		score += 5
	case sameTier <= 6:
		score += 3
	case sameTier <= 10:
		score += 1
	}

	alternatives := 0
	for _, o := range others {
		if o.ProjectedValue > p.ProjectedValue && o.SharesPosition(p) {
			alternatives++
		}
	}
	switch {
	case alternatives == 0:
		score += 5
	case alternatives <= 2:
		score += 3
	case alternatives <= 5:
		score += 1
	}
	return capAt(score, 20)
}

func tierPoints(tier int) float64 {
	switch tier {
	case 1:
		return 10
	case 2:
		return 8
	case 3:
		return 6
	case 4:
		return 4
	case 5:
		return 2
	}
	return 0
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
