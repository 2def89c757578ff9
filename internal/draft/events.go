package draft

import (
	"fmt"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
	"github.com/google/uuid"
)

// Pick is a finalized auction result
type Pick struct {
	// PickID is generated when empty
	PickID      string `json:"pickId,omitempty"`
	PlayerID    string `json:"playerId"`
	Team        string `json:"team"`
	Price       int    `json:"price"`
	// NominatedBy defaults to the nominating team when the player is the
	// current nomination
	NominatedBy string `json:"nominatedBy,omitempty"`
}

func findPlayer(s *models.DraftState, id string) (models.Player, error) {
	if p, ok := s.RemainingPlayer(id); ok {
		return p, nil
	}
	for _, dp := range s.DraftedPlayers {
		if dp.ID == id {
			return models.Player{}, fmt.Errorf("player %s: %w", id, ErrAlreadyDrafted)
		}
	}
	return models.Player{}, fmt.Errorf("player %s: %w", id, ErrPlayerNotFound)
}

func findTeam(s *models.DraftState, name string) (models.TeamInfo, error) {
	t, ok := s.Team(name)
	if !ok {
		return models.TeamInfo{}, fmt.Errorf("team %q: %w", name, ErrTeamNotFound)
	}
	return t, nil
}

// Nominate puts a player up for bid with an opening bid from team
func Nominate(s *models.DraftState, playerID string, bid int, team string) (*models.DraftState, error) {
	p, err := findPlayer(s, playerID)
	if err != nil {
		return nil, fmt.Errorf("nominate: %w", err)
	}
	t, err := findTeam(s, team)
	if err != nil {
		return nil, fmt.Errorf("nominate: %w", err)
	}
	if t.SlotsRemaining <= 0 {
		return nil, fmt.Errorf("nominate: team %q: %w", team, ErrRosterFull)
	}
	if bid < 1 {
		return nil, fmt.Errorf("nominate: opening bid $%d: %w", bid, ErrInvalidPrice)
	}
	if bid > t.RemainingBudget {
		return nil, fmt.Errorf("nominate: opening bid $%d for %q: %w", bid, team, ErrOverBudget)
	}

	next, err := Recompute(s)
	if err != nil {
		return nil, err
	}
	next.Nomination = &models.Nomination{Player: p, CurrentBid: bid, NominatingBy: team}
	next.Version++
	return next, nil
}

// FinalizeDraft records pick and moves the player from the pool onto the
// winning team. A player with no open eligible slot is rejected with
// ErrNoEligibleSlot and the snapshot stays as it was.
func FinalizeDraft(s *models.DraftState, pick Pick) (*models.DraftState, error) {
	p, err := findPlayer(s, pick.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("draft player: %w", err)
	}
	t, err := findTeam(s, pick.Team)
	if err != nil {
		return nil, fmt.Errorf("draft player %s: %w", pick.PlayerID, err)
	}
	if pick.Price < 0 {
		return nil, fmt.Errorf("draft player %s: price $%d: %w", pick.PlayerID, pick.Price, ErrInvalidPrice)
	}
	if t.SlotsRemaining <= 0 {
		return nil, fmt.Errorf("draft player %s: team %q: %w", pick.PlayerID, pick.Team, ErrRosterFull)
	}
	if pick.Price > t.RemainingBudget {
		return nil, fmt.Errorf("draft player %s: $%d with $%d left: %w", pick.PlayerID, pick.Price, t.RemainingBudget, ErrOverBudget)
	}

	order := 0
	for _, dp := range s.DraftedPlayers {
		if dp.DraftOrder > order {
			order = dp.DraftOrder
		}
	}
	pickID := pick.PickID
	if pickID == "" {
		pickID = uuid.NewString()
	}
	nominatedBy := pick.NominatedBy
	if nominatedBy == "" && s.Nomination != nil && s.Nomination.Player.ID == p.ID {
		nominatedBy = s.Nomination.NominatingBy
	}
	if nominatedBy != "" {
		if _, err := findTeam(s, nominatedBy); err != nil {
			return nil, fmt.Errorf("draft player %s: nominated by: %w", pick.PlayerID, err)
		}
	}
	dp := models.DraftedPlayer{
		Player:      p,
		PickID:      pickID,
		DraftedBy:   t.Name,
		Price:       pick.Price,
		DraftOrder:  order + 1,
		NominatedBy: nominatedBy,
	}
	if _, err := roster.Assign(t.Slots, dp); err != nil {
		return nil, fmt.Errorf("draft player %s: %w", pick.PlayerID, err)
	}

	core := &models.DraftState{
		Version:        s.Version + 1,
		TotalBudget:    s.TotalBudget,
		RosterSize:     s.RosterSize,
		DraftedPlayers: append(append([]models.DraftedPlayer{}, s.DraftedPlayers...), dp),
		Teams:          s.Teams,
		Strategy:       s.Strategy,
	}
	for _, rp := range s.PlayersRemaining {
		if rp.ID != p.ID {
			core.PlayersRemaining = append(core.PlayersRemaining, rp)
		}
	}
	if s.Nomination != nil && s.Nomination.Player.ID != p.ID {
		core.Nomination = s.Nomination
	}
	return Recompute(core)
}

// UndoLastPick removes the most recent pick and returns the player to the pool
func UndoLastPick(s *models.DraftState) (*models.DraftState, models.DraftedPlayer, error) {
	if len(s.DraftedPlayers) == 0 {
		return nil, models.DraftedPlayer{}, fmt.Errorf("undo: %w", ErrNothingToUndo)
	}
	last := 0
	for i, dp := range s.DraftedPlayers {
		if dp.DraftOrder > s.DraftedPlayers[last].DraftOrder {
			last = i
		}
	}
	undone := s.DraftedPlayers[last]

	core := &models.DraftState{
		Version:          s.Version + 1,
		TotalBudget:      s.TotalBudget,
		RosterSize:       s.RosterSize,
		PlayersRemaining: append(append([]models.Player{}, s.PlayersRemaining...), undone.Player),
		Teams:            s.Teams,
		Strategy:         s.Strategy,
		Nomination:       s.Nomination,
	}
	for i, dp := range s.DraftedPlayers {
		if i != last {
			core.DraftedPlayers = append(core.DraftedPlayers, dp)
		}
	}
	next, err := Recompute(core)
	if err != nil {
		return nil, models.DraftedPlayer{}, err
	}
	return next, undone, nil
}

// ChangeStrategy switches the operator's archetype
func ChangeStrategy(s *models.DraftState, strategy models.RosterStrategy) (*models.DraftState, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("change strategy %q: %w", strategy, ErrUnknownStrategy)
	}
	core := *s
	core.Strategy = strategy
	core.Version = s.Version + 1
	return Recompute(&core)
}

// ClearNomination withdraws the current nomination without a pick
func ClearNomination(s *models.DraftState) (*models.DraftState, error) {
	if s.Nomination == nil {
		return nil, fmt.Errorf("clear nomination: %w", ErrNoNomination)
	}
	next, err := Recompute(s)
	if err != nil {
		return nil, err
	}
	next.Nomination = nil
	next.Version++
	return next, nil
}
