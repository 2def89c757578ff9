package roster

import (
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// BuildTeam derives every TeamInfo field from the team's acquisitions.
// players must be in draft order so slot assignment replays identically.
func BuildTeam(name string, isMine bool, budget int, layout []models.SlotType, players []models.DraftedPlayer) (models.TeamInfo, error) {
	slots, err := Build(layout, players)
	if err != nil {
		return models.TeamInfo{}, err
	}

	spent := 0
	for _, p := range players {
		spent += p.Price
	}
	avg := 0.0
	if len(players) > 0 {
		avg = float64(spent) / float64(len(players))
	}

	owned := make([]models.DraftedPlayer, len(players))
	copy(owned, players)

	return models.TeamInfo{
		Name:            name,
		IsMine:          isMine,
		RemainingBudget: budget - spent,
		TotalSpent:      spent,
		Players:         owned,
		Slots:           slots,
		SlotsRemaining:  len(layout) - len(players),
		Needs:           Needs(slots),
		CategoryTotals:  Aggregate(Impacts(players)),
		AveragePrice:    avg,
	}, nil
}

// MyRoster converts the operator's team into the roster view
func MyRoster(team models.TeamInfo, budget int) models.MyRoster {
	slots := make([]models.RosterSlot, len(team.Slots))
	copy(slots, team.Slots)
	return models.MyRoster{
		Slots:           slots,
		TotalBudget:     budget,
		TotalSpent:      team.TotalSpent,
		RemainingBudget: team.RemainingBudget,
	}
}
