// Package modelstest builds deterministic players, catalogs and team lists
// for engine tests.
package modelstest

import (
	"fmt"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// Player returns a catalog player with a neutral impact line
func Player(id string, tier, value int, positions ...models.Position) models.Player {
	if len(positions) == 0 {
		positions = []models.Position{models.PositionSF}
	}
	return models.Player{
		ID:             id,
		Name:           "Player " + id,
		Team:           "FA",
		Positions:      positions,
		ProjectedValue: value,
		Tier:           tier,
	}
}

// WithImpact returns p with its impact replaced
func WithImpact(p models.Player, impact models.CategoryImpact) models.Player {
	p.Impact = impact
	return p
}

// Drafted wraps p as acquired by team for price at draft order order
func Drafted(p models.Player, team string, price, order int) models.DraftedPlayer {
	return models.DraftedPlayer{
		Player:     p,
		PickID:     fmt.Sprintf("pick-%d", order),
		DraftedBy:  team,
		Price:      price,
		DraftOrder: order,
	}
}

// Teams returns n team names, "Team 1" through "Team n"
func Teams(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Team %d", i+1)
	}
	return names
}

var positionCycle = []models.Position{
	models.PositionPG,
	models.PositionSG,
	models.PositionSF,
	models.PositionPF,
	models.PositionC,
}

// Catalog returns n players with values descending from 70 and tiers
// ascending in groups of 12. Every third player is eligible at a second
// position.
func Catalog(n int) []models.Player {
	players := make([]models.Player, n)
	for i := 0; i < n; i++ {
		pos := []models.Position{positionCycle[i%len(positionCycle)]}
		if i%3 == 0 {
			pos = append(pos, positionCycle[(i+1)%len(positionCycle)])
		}
		tier := 1 + i/12
		if tier > 8 {
			tier = 8
		}
		value := 70 - i/3
		if value < 1 {
			value = 1
		}
		// small alternating signs keep aggregates away from the thresholds
		sign := 1.0
		if i%2 == 1 {
			sign = -1.0
		}
		players[i] = models.Player{
			ID:             fmt.Sprintf("p%03d", i+1),
			Name:           fmt.Sprintf("Catalog Player %d", i+1),
			Team:           fmt.Sprintf("T%02d", i%30),
			Positions:      pos,
			ProjectedValue: value,
			Tier:           tier,
			Impact: models.CategoryImpact{
				Points:        0.2 * sign,
				Rebounds:      0.1 * sign,
				Assists:       -0.1 * sign,
				Steals:        0.1,
				Blocks:        -0.1,
				ThreePointers: 0.2 * sign,
				FieldGoalPct:  0.1 * sign,
				FreeThrowPct:  -0.1 * sign,
				Turnovers:     0.1 * sign,
			},
		}
	}
	return players
}
