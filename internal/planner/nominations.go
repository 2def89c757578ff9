// Package planner picks players worth nominating and plans phase budgets.
package planner

import (
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/bidding"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
)

// budgetCushion is kept back when deciding whether a target is affordable
const budgetCushion = 10

// NominationKind says why a player is worth nominating
type NominationKind string

const (
	// NominateTarget is a player the operator wants and can afford
	NominateTarget NominationKind = "target"
	// NominateForceSpend drains rival budgets on a player the operator will not chase
	NominateForceSpend NominationKind = "force_spend"
)

// NominationRecommendation is one suggested nomination
type NominationRecommendation struct {
	Player   models.Player  `json:"player"`
	Kind     NominationKind `json:"kind"`
	Scarcity int            `json:"scarcity"`
	Reason   string         `json:"reason"`
}

// GetNominationRecommendations returns up to count nominations, alternating
// targets and force-spend picks. Force-spend picks are not offered late in
// the draft.
func GetNominationRecommendations(state *models.DraftState, count int) []NominationRecommendation {
	if count <= 0 {
		return nil
	}
	budget := state.MyRoster.RemainingBudget
	slots := state.MyRoster.Slots
	pool := state.PlayersRemaining

	var targets, force []NominationRecommendation
	for _, p := range pool {
		canStart := roster.CanFillStarter(slots, p)
		switch {
		case p.ProjectedValue <= budget-budgetCushion && canStart:
			scarcity := bidding.MinPositionalScarcity(p, pool)
			targets = append(targets, NominationRecommendation{
				Player:   p,
				Kind:     NominateTarget,
				Scarcity: scarcity,
				Reason:   fmt.Sprintf("Fills a need; %d comparable player(s) left", scarcity),
			})
		case state.Phase == models.PhaseLate:
			// no force-spend nominations late
		case p.ProjectedValue > budget-budgetCushion:
			force = append(force, NominationRecommendation{
				Player: p,
				Kind:   NominateForceSpend,
				Reason: fmt.Sprintf("$%d projection is out of reach; let rivals spend on it", p.ProjectedValue),
			})
		case p.Tier <= 2 && !canStart:
			force = append(force, NominationRecommendation{
				Player: p,
				Kind:   NominateForceSpend,
				Reason: "Elite player with no open starting slot for you",
			})
		}
	}

	sort.SliceStable(targets, func(i, j int) bool {
		a, b := targets[i], targets[j]
		if a.Scarcity != b.Scarcity {
			return a.Scarcity < b.Scarcity
		}
		if a.Player.ProjectedValue != b.Player.ProjectedValue {
			return a.Player.ProjectedValue > b.Player.ProjectedValue
		}
		return a.Player.ID < b.Player.ID
	})
	sort.SliceStable(force, func(i, j int) bool {
		a, b := force[i], force[j]
		if a.Player.ProjectedValue != b.Player.ProjectedValue {
			return a.Player.ProjectedValue > b.Player.ProjectedValue
		}
		return a.Player.ID < b.Player.ID
	})

	out := make([]NominationRecommendation, 0, count)
	for i := 0; len(out) < count && (i < len(targets) || i < len(force)); i++ {
		if i < len(targets) {
			out = append(out, targets[i])
		}
		if i < len(force) && len(out) < count {
			out = append(out, force[i])
		}
	}
	return out
}
