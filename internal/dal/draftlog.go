package dal

import (
	"fmt"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/google/uuid"
)

func newLogEntry(entryType, text string) models.DraftLogEntry {
	return models.DraftLogEntry{
		ID:   uuid.NewString(),
		TS:   time.Now().UnixMilli(),
		Type: entryType,
		Text: text,
	}
}

func nominateText(n *models.Nomination) string {
	return fmt.Sprintf("%s nominated %s (%s) at $%d", n.NominatingBy, n.Player.Name, positionsLabel(n.Player), n.CurrentBid)
}

func withdrawText(n *models.Nomination) string {
	return fmt.Sprintf("%s withdrew the nomination of %s", n.NominatingBy, n.Player.Name)
}

func pickText(dp models.DraftedPlayer) string {
	return fmt.Sprintf("%s won %s (%s) for $%d", dp.DraftedBy, dp.Name, positionsLabel(dp.Player), dp.Price)
}

func undoText(dp models.DraftedPlayer) string {
	return fmt.Sprintf("Undo: %s returned to the pool, $%d back to %s", dp.Name, dp.Price, dp.DraftedBy)
}

func strategyText(s models.RosterStrategy) string {
	return fmt.Sprintf("Strategy changed to %s", s)
}

const (
	startText = "Draft started. Good luck!"
	resetText = "Draft reset"
)

func positionsLabel(p models.Player) string {
	out := ""
	for i, pos := range p.Positions {
		if i > 0 {
			out += "/"
		}
		out += string(pos)
	}
	return out
}

// lastPick returns the most recent pick of s
func lastPick(s *models.DraftState) (models.DraftedPlayer, bool) {
	if len(s.DraftedPlayers) == 0 {
		return models.DraftedPlayer{}, false
	}
	last := s.DraftedPlayers[0]
	for _, dp := range s.DraftedPlayers[1:] {
		if dp.DraftOrder > last.DraftOrder {
			last = dp
		}
	}
	return last, true
}
