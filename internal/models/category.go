package models

// Category is one of the nine fantasy scoring categories
type Category string

const (
	CategoryPoints        Category = "points"
	CategoryRebounds      Category = "rebounds"
	CategoryAssists       Category = "assists"
	CategorySteals        Category = "steals"
	CategoryBlocks        Category = "blocks"
	CategoryThreePointers Category = "threePointers"
	CategoryFieldGoalPct  Category = "fieldGoalPct"
	CategoryFreeThrowPct  Category = "freeThrowPct"
	CategoryTurnovers     Category = "turnovers"
)

// Categories lists the nine categories in a fixed order. Use it instead of
// ranging over a map whenever every category has to be visited.
func Categories() []Category {
	return []Category{
		CategoryPoints,
		CategoryRebounds,
		CategoryAssists,
		CategorySteals,
		CategoryBlocks,
		CategoryThreePointers,
		CategoryFieldGoalPct,
		CategoryFreeThrowPct,
		CategoryTurnovers,
	}
}

// IsPercentage reports whether the category is averaged instead of summed
func (c Category) IsPercentage() bool {
	return c == CategoryFieldGoalPct || c == CategoryFreeThrowPct
}

// CategoryImpact holds a standardized contribution per category. Every field
// is "higher is better" except Turnovers, where a negative value is desirable.
type CategoryImpact struct {
	Points        float64 `json:"points"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	Steals        float64 `json:"steals"`
	Blocks        float64 `json:"blocks"`
	ThreePointers float64 `json:"threePointers"`
	FieldGoalPct  float64 `json:"fieldGoalPct"`
	FreeThrowPct  float64 `json:"freeThrowPct"`
	Turnovers     float64 `json:"turnovers"`
}

// Get returns the raw impact for c
func (ci CategoryImpact) Get(c Category) float64 {
	switch c {
	case CategoryPoints:
		return ci.Points
	case CategoryRebounds:
		return ci.Rebounds
	case CategoryAssists:
		return ci.Assists
	case CategorySteals:
		return ci.Steals
	case CategoryBlocks:
		return ci.Blocks
	case CategoryThreePointers:
		return ci.ThreePointers
	case CategoryFieldGoalPct:
		return ci.FieldGoalPct
	case CategoryFreeThrowPct:
		return ci.FreeThrowPct
	case CategoryTurnovers:
		return ci.Turnovers
	}
	return 0
}

// Set returns a copy with c replaced by v
func (ci CategoryImpact) Set(c Category, v float64) CategoryImpact {
	switch c {
	case CategoryPoints:
		ci.Points = v
	case CategoryRebounds:
		ci.Rebounds = v
	case CategoryAssists:
		ci.Assists = v
	case CategorySteals:
		ci.Steals = v
	case CategoryBlocks:
		ci.Blocks = v
	case CategoryThreePointers:
		ci.ThreePointers = v
	case CategoryFieldGoalPct:
		ci.FieldGoalPct = v
	case CategoryFreeThrowPct:
		ci.FreeThrowPct = v
	case CategoryTurnovers:
		ci.Turnovers = v
	}
	return ci
}

// Goodness is the impact in c oriented so that positive always helps the
// roster. It flips the sign of Turnovers and passes everything else through.
func (ci CategoryImpact) Goodness(c Category) float64 {
	if c == CategoryTurnovers {
		return -ci.Turnovers
	}
	return ci.Get(c)
}

// PositiveCategories counts categories with positive goodness
func (ci CategoryImpact) PositiveCategories() int {
	n := 0
	for _, c := range Categories() {
		if ci.Goodness(c) > 0 {
			n++
		}
	}
	return n
}
