package opponent

import (
	"fmt"
	"math"
	"sort"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/roster"
)

// ThreatLevel ranks how likely a team is to outbid the operator
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

func (l ThreatLevel) rank() int {
	switch l {
	case ThreatMedium:
		return 1
	case ThreatHigh:
		return 2
	case ThreatCritical:
		return 3
	}
	return 0
}

// BidApproach is the recommended way to handle a contested player
type BidApproach string

const (
	ApproachAvoid      BidApproach = "avoid"
	ApproachBidEarly   BidApproach = "bid_early"
	ApproachWaitAndSee BidApproach = "wait_and_see"
	ApproachBluff      BidApproach = "bluff_opportunity"
)

// NominationTiming says when to put a player up for auction
type NominationTiming string

const (
	NominateNow   NominationTiming = "now"
	NominateSoon  NominationTiming = "soon"
	NominateLater NominationTiming = "later"
)

// TeamThreat is one competitor's read for a specific player
type TeamThreat struct {
	Team           string            `json:"team"`
	Level          ThreatLevel       `json:"level"`
	BidProbability float64           `json:"bidProbability"`
	MaxLikelyBid   int               `json:"maxLikelyBid"`
	StrategicFit   float64           `json:"strategicFit"`
	Strategy       StrategyDetection `json:"strategy"`
	Pattern        BiddingPattern    `json:"pattern"`
	Pressure       BudgetPressure    `json:"pressure"`
}

// CompetitionAnalysis is the league-wide competition read for one player
type CompetitionAnalysis struct {
	PlayerID             string           `json:"playerId"`
	Threats              []TeamThreat     `json:"threats"`
	ExpectedFinalCost    int              `json:"expectedFinalCost"`
	CompetitionIntensity float64          `json:"competitionIntensity"`
	Approach             BidApproach      `json:"approach"`
	MaxRecommendedBid    int              `json:"maxRecommendedBid"`
	NominationTiming     NominationTiming `json:"nominationTiming"`
	Confidence           float64          `json:"confidence"`
	Summary              string           `json:"summary"`
}

func pressureMultiplier(l PressureLevel) float64 {
	switch l {
	case PressureDesperate:
		return 1.2
	case PressureHigh:
		return 1.1
	}
	return 1.0
}

func approachFactor(a BidApproach) float64 {
	switch a {
	case ApproachBidEarly:
		return 1.1
	case ApproachWaitAndSee:
		return 1.05
	}
	return 1.0
}

// AssessTeam estimates one competitor's interest in and ceiling for p
func AssessTeam(p models.Player, team models.TeamInfo, progress float64) TeamThreat {
	threat := TeamThreat{
		Team:     team.Name,
		Level:    ThreatLow,
		Strategy: DetectStrategy(team),
		Pattern:  AnalyzeBiddingPatterns(team, ThreatAggressiveOverbid),
		Pressure: AnalyzeBudgetPressure(team, progress),
	}
	if team.SlotsRemaining <= 0 {
		return threat
	}
	value := float64(p.ProjectedValue)

	fit := 0.5
	if roster.PositionalNeed(team.Slots, p) > 0 {
		fit += 0.2
	}
	catFit := 0.0
	for _, c := range models.Categories() {
		if team.CategoryTotals.Goodness(c) < -0.5 && p.Impact.Goodness(c) > 0.5 {
			catFit += 0.1
		}
	}
	fit += math.Min(catFit, 0.3)
	if team.BudgetPerSlot() < 0.7*value {
		fit = math.Min(fit, 0.3)
	}
	threat.StrategicFit = fit

	prob := fit
	if threat.Pressure.LikelyToOverbid {
		prob += 0.2
	}
	if team.SlotsRemaining <= 5 {
		prob += 0.1
	}
	threat.BidProbability = math.Min(0.95, prob)

	maxLikely := 0.0
	if value > 0 {
		maxLikely = value * (1 + threat.Pattern.AverageOverbid/value) * pressureMultiplier(threat.Pressure.Level)
	}
	maxLikely = math.Min(float64(team.RemainingBudget), maxLikely)
	threat.MaxLikelyBid = int(math.Max(0, math.Floor(maxLikely)))

	bid := float64(threat.MaxLikelyBid)
	switch {
	case threat.BidProbability > 0.8 && bid > 1.1*value:
		threat.Level = ThreatCritical
	case threat.BidProbability > 0.6 && bid > value:
		threat.Level = ThreatHigh
	case threat.BidProbability > 0.4:
		threat.Level = ThreatMedium
	}
	return threat
}

// GenerateAdvancedCompetitionAnalysis ranks every competitor as a threat for p
// and derives the expected price, approach and nomination timing.
func GenerateAdvancedCompetitionAnalysis(p models.Player, state *models.DraftState) CompetitionAnalysis {
	progress := state.Progress()
	competitors := state.Competitors()

	threats := make([]TeamThreat, 0, len(competitors))
	interested := 0
	confidence := 0.0
	for _, team := range competitors {
		th := AssessTeam(p, team, progress)
		threats = append(threats, th)
		if th.BidProbability > 0.5 {
			interested++
		}
		confidence += math.Min(1, float64(len(team.Players))/5)
	}
	sort.SliceStable(threats, func(i, j int) bool {
		a, b := threats[i], threats[j]
		if a.Level.rank() != b.Level.rank() {
			return a.Level.rank() > b.Level.rank()
		}
		if a.BidProbability != b.BidProbability {
			return a.BidProbability > b.BidProbability
		}
		return a.Team < b.Team
	})

	analysis := CompetitionAnalysis{
		PlayerID:          p.ID,
		Threats:           threats,
		ExpectedFinalCost: p.ProjectedValue,
	}
	if len(competitors) > 0 {
		analysis.CompetitionIntensity = float64(interested) / float64(len(competitors))
		analysis.Confidence = confidence / float64(len(competitors))
	}

	found := false
	for _, th := range threats {
		if th.Level != ThreatCritical && th.Level != ThreatHigh {
			continue
		}
		if !found || th.MaxLikelyBid > analysis.ExpectedFinalCost {
			analysis.ExpectedFinalCost = th.MaxLikelyBid
			found = true
		}
	}

	intensity := analysis.CompetitionIntensity
	switch {
	case intensity > 0.6:
		analysis.Approach = ApproachAvoid
	case intensity > 0.4:
		analysis.Approach = ApproachBidEarly
	case intensity < 0.2:
		analysis.Approach = ApproachBluff
	default:
		analysis.Approach = ApproachWaitAndSee
	}

	switch {
	case intensity > 0.6:
		analysis.NominationTiming = NominateLater
	case intensity < 0.3:
		analysis.NominationTiming = NominateNow
	default:
		analysis.NominationTiming = NominateSoon
	}

	maxRec := int(math.Floor(float64(p.ProjectedValue) * approachFactor(analysis.Approach)))
	if afford := maxAffordable(state.MyRoster); maxRec > afford {
		maxRec = afford
	}
	if maxRec < 0 {
		maxRec = 0
	}
	analysis.MaxRecommendedBid = maxRec

	analysis.Summary = summarize(analysis)
	return analysis
}

// maxAffordable keeps $1 back for every open slot after this one
func maxAffordable(r models.MyRoster) int {
	reserve := r.EmptySlots() - 1
	if reserve < 1 {
		reserve = 1
	}
	return r.RemainingBudget - reserve
}

func summarize(a CompetitionAnalysis) string {
	serious := 0
	for _, th := range a.Threats {
		if th.Level == ThreatCritical || th.Level == ThreatHigh {
			serious++
		}
	}
	if serious == 0 {
		return fmt.Sprintf("No serious competition expected; approach %s, expected cost $%d", a.Approach, a.ExpectedFinalCost)
	}
	return fmt.Sprintf("%d serious competitor(s), led by %s; approach %s, expected cost $%d",
		serious, a.Threats[0].Team, a.Approach, a.ExpectedFinalCost)
}
