package draft

import (
	"sort"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
)

// NextNominator returns the team whose turn it is to nominate. Turns rotate
// in team order starting after the last nominating team and skip teams whose
// rosters were full at the time. A pick made without a recorded nomination
// consumes the turn of the team the rotation pointed at. It returns "" once
// every roster is full.
func NextNominator(s *models.DraftState) string {
	teamCount := len(s.Teams)
	if teamCount == 0 {
		return ""
	}
	index := make(map[string]int, teamCount)
	for i, t := range s.Teams {
		index[t.Name] = i
	}

	picks := append([]models.DraftedPlayer{}, s.DraftedPlayers...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].DraftOrder < picks[j].DraftOrder })

	size := s.RosterSize
	if size == 0 {
		size = roster.Size
	}
	filled := make([]int, teamCount)
	after := func(last int, open func(int) bool) int {
		for i := 1; i <= teamCount; i++ {
			j := (last + i + teamCount) % teamCount
			if open(j) {
				return j
			}
		}
		return -1
	}
	wasOpen := func(j int) bool { return filled[j] < size }

	last := -1
	for _, dp := range picks {
		if i, ok := index[dp.NominatedBy]; ok {
			last = i
		} else if j := after(last, wasOpen); j >= 0 {
			last = j
		}
		if i, ok := index[dp.DraftedBy]; ok {
			filled[i]++
		}
	}
	if s.Nomination != nil {
		if i, ok := index[s.Nomination.NominatingBy]; ok {
			last = i
		}
	}

	isOpen := func(j int) bool { return s.Teams[j].SlotsRemaining > 0 }
	if next := after(last, isOpen); next >= 0 {
		return s.Teams[next].Name
	}
	return ""
}
