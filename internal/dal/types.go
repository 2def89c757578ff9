package dal

import (
	"context"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// DraftDAL stores the draft and serializes every state transition. Each
// mutating call returns the snapshot produced by the transition.
type DraftDAL interface {
	GetState() (*models.DraftState, error)
	Nominate(playerID string, bid int, team string) (*models.DraftState, error)
	ClearNomination() (*models.DraftState, error)
	DraftPlayer(pick draft.Pick) (*models.DraftState, error)
	UndoLastPick() (*models.DraftState, models.DraftedPlayer, error)
	SetStrategy(strategy models.RosterStrategy) (*models.DraftState, error)
	Reset() error
	GetLog() ([]models.DraftLogEntry, error)
	// UpdateProjections refreshes value and tier of undrafted players and
	// returns how many were changed.
	UpdateProjections(projections map[string]models.Projection) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
