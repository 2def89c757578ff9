// Package advisor serves engine recommendations for the current snapshot of
// a draft store, caching each answer under the snapshot version.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/bidding"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/cache"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/opponent"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/planner"
)

// ErrNoNomination is returned when advice needs the nominated player and
// nobody is up for bid
var ErrNoNomination = draft.ErrNoNomination

// ErrInvalidCount is returned for a nomination count outside 1..MaxNominations
var ErrInvalidCount = errors.New("invalid count")

// ErrInvalidRatio is returned for a competitor ratio that is negative or not
// a finite number
var ErrInvalidRatio = errors.New("invalid competitor ratio")

// MaxNominations caps the count accepted by Nominations
const MaxNominations = 50

// Advisor answers advice queries against a draft store
type Advisor struct {
	store dal.DraftDAL
	cache cache.AdviceCache
}

// New creates an advisor. A nil cache disables caching.
func New(store dal.DraftDAL, c cache.AdviceCache) *Advisor {
	return &Advisor{store: store, cache: c}
}

// State returns the current snapshot
func (a *Advisor) State() (*models.DraftState, error) {
	return a.store.GetState()
}

// cached returns the entry at key or computes and stores it. Cache failures
// are logged and never fail the request.
func cached[T any](ctx context.Context, c cache.AdviceCache, key string, compute func() T) T {
	var out T
	if c == nil {
		return compute()
	}
	found, err := c.Get(ctx, key, &out)
	if err != nil {
		logger.Warn("Advice cache read failed", "key", key, "error", err)
	}
	if found {
		logger.Debug("Advice cache hit", "key", key)
		return out
	}
	out = compute()
	if err := c.Set(ctx, key, out); err != nil {
		logger.Warn("Advice cache write failed", "key", key, "error", err)
	}
	return out
}

// lookupPlayer finds an undrafted player
func lookupPlayer(state *models.DraftState, id string) (models.Player, error) {
	if p, ok := state.RemainingPlayer(id); ok {
		return p, nil
	}
	for _, dp := range state.DraftedPlayers {
		if dp.ID == id {
			return models.Player{}, fmt.Errorf("player %s: %w", id, draft.ErrAlreadyDrafted)
		}
	}
	return models.Player{}, fmt.Errorf("player %s: %w", id, draft.ErrPlayerNotFound)
}

// Bid returns the bidding recommendation for playerID at bid. An empty
// playerID means the nominated player; a bid below 1 means the current bid
// on the nomination, or $1 for anyone else. competitorRatios are rival
// budget-per-slot figures, consulted only when the snapshot has no
// competitor teams.
func (a *Advisor) Bid(ctx context.Context, playerID string, bid int, competitorRatios ...float64) (bidding.Recommendation, error) {
	for _, r := range competitorRatios {
		if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return bidding.Recommendation{}, fmt.Errorf("ratio %v: %w", r, ErrInvalidRatio)
		}
	}
	state, err := a.store.GetState()
	if err != nil {
		return bidding.Recommendation{}, err
	}

	nom := state.Nomination
	if playerID == "" {
		if nom == nil {
			return bidding.Recommendation{}, ErrNoNomination
		}
		playerID = nom.Player.ID
	}
	p, err := lookupPlayer(state, playerID)
	if err != nil {
		return bidding.Recommendation{}, err
	}
	if bid < 1 {
		bid = 1
		if nom != nil && nom.Player.ID == playerID {
			bid = nom.CurrentBid
		}
	}

	parts := []string{playerID, strconv.Itoa(bid)}
	if len(competitorRatios) > 0 {
		ratios := make([]string, len(competitorRatios))
		for i, r := range competitorRatios {
			ratios[i] = strconv.FormatFloat(r, 'f', -1, 64)
		}
		parts = append(parts, strings.Join(ratios, ","))
	}
	key := cache.Key("bid", state.Version, parts...)
	return cached(ctx, a.cache, key, func() bidding.Recommendation {
		return bidding.GetBiddingRecommendation(p, bid, state, competitorRatios...)
	}), nil
}

// Nominations returns up to count nomination suggestions
func (a *Advisor) Nominations(ctx context.Context, count int) ([]planner.NominationRecommendation, error) {
	if count < 1 || count > MaxNominations {
		return nil, fmt.Errorf("count %d outside 1..%d: %w", count, MaxNominations, ErrInvalidCount)
	}
	state, err := a.store.GetState()
	if err != nil {
		return nil, err
	}
	key := cache.Key("nominations", state.Version, strconv.Itoa(count))
	return cached(ctx, a.cache, key, func() []planner.NominationRecommendation {
		return planner.GetNominationRecommendations(state, count)
	}), nil
}

// Budget returns the phase budget plan
func (a *Advisor) Budget(ctx context.Context) (models.BudgetAllocation, error) {
	state, err := a.store.GetState()
	if err != nil {
		return models.BudgetAllocation{}, err
	}
	return cached(ctx, a.cache, cache.Key("budget", state.Version), func() models.BudgetAllocation {
		return planner.CalculateBudgetAllocation(state)
	}), nil
}

// Competition returns the threat assessment for playerID, or for the
// nominated player when playerID is empty
func (a *Advisor) Competition(ctx context.Context, playerID string) (opponent.CompetitionAnalysis, error) {
	state, err := a.store.GetState()
	if err != nil {
		return opponent.CompetitionAnalysis{}, err
	}
	if playerID == "" {
		if state.Nomination == nil {
			return opponent.CompetitionAnalysis{}, ErrNoNomination
		}
		playerID = state.Nomination.Player.ID
	}
	p, err := lookupPlayer(state, playerID)
	if err != nil {
		return opponent.CompetitionAnalysis{}, err
	}
	return cached(ctx, a.cache, cache.Key("competition", state.Version, playerID), func() opponent.CompetitionAnalysis {
		return opponent.GenerateAdvancedCompetitionAnalysis(p, state)
	}), nil
}

// LeagueOverview is every competitor's profile plus whose nomination is next
type LeagueOverview struct {
	Version       int                `json:"version"`
	NextNominator string             `json:"nextNominator"`
	Profiles      []opponent.Profile `json:"profiles"`
}

// League returns the league overview
func (a *Advisor) League(ctx context.Context) (LeagueOverview, error) {
	state, err := a.store.GetState()
	if err != nil {
		return LeagueOverview{}, err
	}
	return cached(ctx, a.cache, cache.Key("league", state.Version), func() LeagueOverview {
		return LeagueOverview{
			Version:       state.Version,
			NextNominator: draft.NextNominator(state),
			Profiles:      opponent.ProfileLeague(state),
		}
	}), nil
}
