package models

// Position is one of the five basketball positions a player can be eligible at
type Position string

const (
	PositionPG Position = "PG"
	PositionSG Position = "SG"
	PositionSF Position = "SF"
	PositionPF Position = "PF"
	PositionC  Position = "C"
)

// Positions lists every position in display order
func Positions() []Position {
	return []Position{PositionPG, PositionSG, PositionSF, PositionPF, PositionC}
}

// SlotType names a roster slot
type SlotType string

const (
	SlotPG    SlotType = "PG"
	SlotSG    SlotType = "SG"
	SlotG     SlotType = "G"
	SlotSF    SlotType = "SF"
	SlotPF    SlotType = "PF"
	SlotF     SlotType = "F"
	SlotC     SlotType = "C"
	SlotUTIL  SlotType = "UTIL"
	SlotBENCH SlotType = "BENCH"
)

// RosterStrategy is a roster-construction archetype
type RosterStrategy string

const (
	StrategyBalanced    RosterStrategy = "balanced"
	StrategyStarsScrubs RosterStrategy = "stars_scrubs"
	StrategyPuntFT      RosterStrategy = "punt_ft"
	StrategyPuntFG      RosterStrategy = "punt_fg"
	StrategyPuntTO      RosterStrategy = "punt_to"
	StrategyPuntAssists RosterStrategy = "punt_assists"
	// StrategyUnknown is only produced by opponent detection
	StrategyUnknown RosterStrategy = "unknown"
)

// Strategies lists the six selectable archetypes
func Strategies() []RosterStrategy {
	return []RosterStrategy{
		StrategyBalanced,
		StrategyStarsScrubs,
		StrategyPuntFT,
		StrategyPuntFG,
		StrategyPuntTO,
		StrategyPuntAssists,
	}
}

// Valid reports whether s is one of the six selectable archetypes
func (s RosterStrategy) Valid() bool {
	for _, known := range Strategies() {
		if s == known {
			return true
		}
	}
	return false
}

// PuntedCategory returns the category a punt archetype sacrifices
func (s RosterStrategy) PuntedCategory() (Category, bool) {
	switch s {
	case StrategyPuntFT:
		return CategoryFreeThrowPct, true
	case StrategyPuntFG:
		return CategoryFieldGoalPct, true
	case StrategyPuntTO:
		return CategoryTurnovers, true
	case StrategyPuntAssists:
		return CategoryAssists, true
	}
	return "", false
}

// DraftPhase is derived from the share of league picks already made
type DraftPhase string

const (
	PhaseEarly  DraftPhase = "early"
	PhaseMiddle DraftPhase = "middle"
	PhaseLate   DraftPhase = "late"
)

// SeasonStats is the raw per-game stat line behind a player's projection
type SeasonStats struct {
	Points        float64 `json:"points"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	Steals        float64 `json:"steals"`
	Blocks        float64 `json:"blocks"`
	ThreePointers float64 `json:"threePointers"`
	FieldGoalPct  float64 `json:"fieldGoalPct"`
	FreeThrowPct  float64 `json:"freeThrowPct"`
	Turnovers     float64 `json:"turnovers"`
	GamesPlayed   int     `json:"gamesPlayed"`
}

// Player is an immutable catalog entry
type Player struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Team           string         `json:"team"`
	Positions      []Position     `json:"positions"`
	ProjectedValue int            `json:"projectedValue"`
	Stats          SeasonStats    `json:"stats"`
	Tier           int            `json:"tier"`
	Impact         CategoryImpact `json:"impact"`
}

// EligibleAt reports whether the player can play pos
func (p Player) EligibleAt(pos Position) bool {
	for _, have := range p.Positions {
		if have == pos {
			return true
		}
	}
	return false
}

// SharesPosition reports whether the two players have any position in common
func (p Player) SharesPosition(other Player) bool {
	for _, pos := range other.Positions {
		if p.EligibleAt(pos) {
			return true
		}
	}
	return false
}

// DraftedPlayer is a player after a nomination was finalized
type DraftedPlayer struct {
	Player
	PickID      string `json:"pickId"`
	DraftedBy   string `json:"draftedBy"`
	Price       int    `json:"price"`
	DraftOrder  int    `json:"draftOrder"`
	// NominatedBy is empty when the pick was entered without a nomination
	NominatedBy string `json:"nominatedBy,omitempty"`
}

// RosterSlot holds at most one drafted player
type RosterSlot struct {
	Type   SlotType       `json:"type"`
	Player *DraftedPlayer `json:"player,omitempty"`
}

// Empty reports whether the slot is open
func (s RosterSlot) Empty() bool {
	return s.Player == nil
}

// MyRoster is the operator's own roster
type MyRoster struct {
	Slots           []RosterSlot `json:"slots"`
	TotalBudget     int          `json:"totalBudget"`
	TotalSpent      int          `json:"totalSpent"`
	RemainingBudget int          `json:"remainingBudget"`
}

// FilledSlots counts slots holding a player
func (r MyRoster) FilledSlots() int {
	n := 0
	for _, s := range r.Slots {
		if !s.Empty() {
			n++
		}
	}
	return n
}

// EmptySlots counts open slots
func (r MyRoster) EmptySlots() int {
	return len(r.Slots) - r.FilledSlots()
}

// Players returns the drafted players in slot order
func (r MyRoster) Players() []DraftedPlayer {
	players := make([]DraftedPlayer, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Player != nil {
			players = append(players, *s.Player)
		}
	}
	return players
}

// Needs counts open slots per slot type
type Needs map[SlotType]int

// TeamInfo is the full model of one participant
type TeamInfo struct {
	Name            string          `json:"name"`
	IsMine          bool            `json:"isMine"`
	RemainingBudget int             `json:"remainingBudget"`
	TotalSpent      int             `json:"totalSpent"`
	Players         []DraftedPlayer `json:"players"`
	Slots           []RosterSlot    `json:"slots"`
	SlotsRemaining  int             `json:"slotsRemaining"`
	Needs           Needs           `json:"needs"`
	CategoryTotals  CategoryImpact  `json:"categoryTotals"`
	AveragePrice    float64         `json:"averagePrice"`
}

// BudgetPerSlot is the remaining budget spread over open slots, 0 when full
func (t TeamInfo) BudgetPerSlot() float64 {
	if t.SlotsRemaining <= 0 {
		return 0
	}
	return float64(t.RemainingBudget) / float64(t.SlotsRemaining)
}

// Nomination is the player currently up for bid
type Nomination struct {
	Player       Player `json:"player"`
	CurrentBid   int    `json:"currentBid"`
	NominatingBy string `json:"nominatingBy"`
}

// CategoryStrength classifies a roster's standing in one category
type CategoryStrength string

const (
	StrengthStrong  CategoryStrength = "strong"
	StrengthWeak    CategoryStrength = "weak"
	StrengthNeutral CategoryStrength = "neutral"
)

// RosterAnalysis is derived from the operator's roster
type RosterAnalysis struct {
	CategoryTotals      CategoryImpact                `json:"categoryTotals"`
	Strengths           map[Category]CategoryStrength `json:"strengths"`
	RecommendedStrategy RosterStrategy                `json:"recommendedStrategy"`
	Flexibility         float64                       `json:"flexibility"`
}

// WeakCategories lists categories classified weak, in category order
func (a RosterAnalysis) WeakCategories() []Category {
	return a.withStrength(StrengthWeak)
}

// StrongCategories lists categories classified strong, in category order
func (a RosterAnalysis) StrongCategories() []Category {
	return a.withStrength(StrengthStrong)
}

func (a RosterAnalysis) withStrength(want CategoryStrength) []Category {
	var out []Category
	for _, c := range Categories() {
		if a.Strengths[c] == want {
			out = append(out, c)
		}
	}
	return out
}

// BudgetAllocation holds the phase-based spending plan
type BudgetAllocation struct {
	Early       int      `json:"early"`
	Middle      int      `json:"middle"`
	Late        int      `json:"late"`
	StarPlayers int      `json:"starPlayers"`
	Rationale   []string `json:"rationale"`
}

// DraftLogEntry is one human-readable line of draft history
type DraftLogEntry struct {
	ID   string `json:"id"`
	TS   int64  `json:"ts"`
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	LogNominate = "nominate"
	LogPick     = "pick"
	LogUndo     = "undo"
	LogStrategy = "strategy"
	LogSystem   = "system"
)

// Projection is a refreshed auction value for one player
type Projection struct {
	Value int `json:"value"`
	Tier  int `json:"tier"`
}

// DraftState is the snapshot handed to the engine. Core fields drive every
// transition; derived fields are recomputed from them and never edited directly.
type DraftState struct {
	// core
	Version          int             `json:"version"`
	TotalBudget      int             `json:"totalBudget"`
	RosterSize       int             `json:"rosterSize"`
	PlayersRemaining []Player        `json:"playersRemaining"`
	DraftedPlayers   []DraftedPlayer `json:"draftedPlayers"`
	Teams            []TeamInfo      `json:"teams"`
	Strategy         RosterStrategy  `json:"strategy"`
	Nomination       *Nomination     `json:"nomination,omitempty"`

	// derived
	MyRoster         MyRoster         `json:"myRoster"`
	Phase            DraftPhase       `json:"phase"`
	TeamCount        int              `json:"teamCount"`
	RosterAnalysis   RosterAnalysis   `json:"rosterAnalysis"`
	BudgetAllocation BudgetAllocation `json:"budgetAllocation"`
}

// MyTeam returns the operator's team
func (s *DraftState) MyTeam() (TeamInfo, bool) {
	for _, t := range s.Teams {
		if t.IsMine {
			return t, true
		}
	}
	return TeamInfo{}, false
}

// Team finds a team by name
func (s *DraftState) Team(name string) (TeamInfo, bool) {
	for _, t := range s.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return TeamInfo{}, false
}

// Competitors returns every team except the operator's
func (s *DraftState) Competitors() []TeamInfo {
	out := make([]TeamInfo, 0, len(s.Teams))
	for _, t := range s.Teams {
		if !t.IsMine {
			out = append(out, t)
		}
	}
	return out
}

// RemainingPlayer finds an undrafted player by id
func (s *DraftState) RemainingPlayer(id string) (Player, bool) {
	for _, p := range s.PlayersRemaining {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// TotalPicks is the number of roster spots across the league
func (s *DraftState) TotalPicks() int {
	return len(s.Teams) * s.RosterSize
}

// Progress is the fraction of league roster spots already filled
func (s *DraftState) Progress() float64 {
	total := s.TotalPicks()
	if total <= 0 {
		return 0
	}
	return float64(len(s.DraftedPlayers)) / float64(total)
}
