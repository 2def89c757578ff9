package dal

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// LoadCatalogFile reads a JSON array of players. Every player needs an id,
// a name, at least one known position, a value of at least $1 and a tier >= 1.
func LoadCatalogFile(path string) ([]models.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var players []models.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	if err := validateCatalog(players); err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}
	return players, nil
}

func validateCatalog(players []models.Player) error {
	if len(players) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	known := map[models.Position]bool{}
	for _, pos := range models.Positions() {
		known[pos] = true
	}
	seen := map[string]bool{}
	for i, p := range players {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("player %d: id and name are required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("player %s: duplicate id", p.ID)
		}
		seen[p.ID] = true
		if len(p.Positions) == 0 {
			return fmt.Errorf("player %s: no positions", p.ID)
		}
		for _, pos := range p.Positions {
			if !known[pos] {
				return fmt.Errorf("player %s: unknown position %q", p.ID, pos)
			}
		}
		if p.ProjectedValue < 1 {
			return fmt.Errorf("player %s: projected value must be at least $1", p.ID)
		}
		if p.Tier < 1 {
			return fmt.Errorf("player %s: tier must be at least 1", p.ID)
		}
	}
	return nil
}

type samplePlayer struct {
	id, name, team, positions string
	value, tier               int
	// pts reb ast stl blk 3pm fg% ft% to
	impact [9]float64
}

var samplePlayers = []samplePlayer{
	{"nba-001", "Nikola Jokic", "DEN", "C", 68, 1, [9]float64{2.1, 2.8, 2.9, 1.1, 0.6, 0.3, 2.2, 0.9, 1.9}},
	{"nba-002", "Shai Gilgeous-Alexander", "OKC", "PG,SG", 66, 1, [9]float64{2.9, 0.2, 1.2, 2.0, 0.8, 0.2, 1.6, 1.5, 0.6}},
	{"nba-003", "Victor Wembanyama", "SAS", "PF,C", 64, 1, [9]float64{1.9, 2.2, 0.4, 1.0, 4.2, 1.2, 0.4, 0.5, 1.4}},
	{"nba-004", "Luka Doncic", "DAL", "PG,SG", 62, 1, [9]float64{3.0, 1.3, 2.6, 1.4, 0.1, 2.2, 0.5, -0.8, 2.6}},
	{"nba-005", "Anthony Davis", "LAL", "PF,C", 58, 1, [9]float64{1.8, 2.4, 0.3, 0.9, 2.6, -0.6, 1.5, 0.7, 0.9}},
	{"nba-006", "Tyrese Haliburton", "IND", "PG", 56, 1, [9]float64{0.9, -0.2, 3.2, 1.2, 0.5, 2.3, 0.6, 1.1, 0.3}},
	{"nba-007", "Giannis Antetokounmpo", "MIL", "PF,C", 55, 2, [9]float64{2.8, 2.3, 1.6, 0.8, 1.1, -1.1, 2.4, -2.6, 2.0}},
	{"nba-008", "Jayson Tatum", "BOS", "SF,PF", 52, 2, [9]float64{2.2, 1.2, 0.9, 0.7, 0.5, 1.8, 0.1, 0.8, 0.8}},
	{"nba-009", "Stephen Curry", "GSW", "PG", 50, 2, [9]float64{2.0, 0.0, 1.1, 0.6, -0.3, 3.4, 0.4, 1.7, 0.7}},
	{"nba-010", "Domantas Sabonis", "SAC", "PF,C", 49, 2, [9]float64{1.2, 3.1, 1.9, 0.5, 0.0, -0.7, 2.3, 0.2, 1.3}},
	{"nba-011", "Anthony Edwards", "MIN", "SG,SF", 48, 2, [9]float64{2.4, 0.4, 0.6, 0.9, 0.4, 2.1, -0.1, 0.6, 1.0}},
	{"nba-012", "Trae Young", "ATL", "PG", 46, 2, [9]float64{2.1, -0.5, 3.3, 0.5, -0.6, 2.0, -1.0, 1.6, 2.5}},
	{"nba-013", "Kevin Durant", "PHX", "SF,PF", 45, 2, [9]float64{2.2, 0.7, 0.6, 0.3, 0.9, 1.3, 1.4, 1.3, 1.0}},
	{"nba-014", "Devin Booker", "PHX", "SG", 43, 3, [9]float64{2.1, -0.1, 1.3, 0.4, 0.0, 1.2, 0.5, 1.3, 0.9}},
	{"nba-015", "Donovan Mitchell", "CLE", "PG,SG", 42, 3, [9]float64{1.9, -0.2, 0.8, 1.1, 0.1, 2.0, 0.0, 0.9, 0.5}},
	{"nba-016", "Bam Adebayo", "MIA", "C", 40, 3, [9]float64{0.8, 1.8, 0.7, 0.8, 1.0, -0.4, 0.9, -0.1, 0.6}},
	{"nba-017", "Chet Holmgren", "OKC", "PF,C", 39, 3, [9]float64{0.6, 1.3, -0.2, 0.3, 2.9, 0.9, 1.1, 0.8, -0.4}},
	{"nba-018", "Jalen Brunson", "NYK", "PG", 38, 3, [9]float64{2.2, -0.5, 1.5, 0.3, -0.5, 0.9, 0.4, 0.8, 0.6}},
	{"nba-019", "LeBron James", "LAL", "SF,PF", 38, 3, [9]float64{1.7, 1.1, 2.0, 0.6, 0.2, 0.8, 1.3, -0.3, 1.8}},
	{"nba-020", "Rudy Gobert", "MIN", "C", 36, 3, [9]float64{-0.3, 2.6, -0.6, 0.2, 2.0, -1.2, 2.1, -1.2, -0.5}},
	{"nba-021", "Dejounte Murray", "NOP", "PG,SG", 34, 4, [9]float64{0.9, 0.5, 1.3, 2.0, 0.0, 0.7, -0.6, 0.4, 0.4}},
	{"nba-022", "Scottie Barnes", "TOR", "SF,PF", 34, 4, [9]float64{0.9, 1.1, 1.2, 1.1, 0.9, -0.1, 0.0, -0.3, 0.7}},
	{"nba-023", "Paolo Banchero", "ORL", "PF", 33, 4, [9]float64{1.6, 1.0, 0.9, 0.1, 0.2, -0.3, -0.4, -0.5, 1.3}},
	{"nba-024", "Kyrie Irving", "DAL", "PG,SG", 32, 4, [9]float64{1.6, -0.3, 0.9, 0.6, 0.0, 1.6, 0.8, 1.4, 0.2}},
	{"nba-025", "Myles Turner", "IND", "C", 30, 4, [9]float64{0.1, 0.7, -0.7, -0.1, 2.2, 0.9, 0.7, 0.5, -0.4}},
	{"nba-026", "Desmond Bane", "MEM", "SG,SF", 29, 4, [9]float64{1.0, 0.0, 0.4, 0.3, -0.2, 1.9, 0.5, 1.0, 0.2}},
	{"nba-027", "Jarrett Allen", "CLE", "C", 28, 5, [9]float64{-0.1, 1.9, -0.5, 0.0, 1.1, -1.2, 2.5, -0.6, -0.5}},
	{"nba-028", "Mikal Bridges", "NYK", "SG,SF", 27, 5, [9]float64{0.8, -0.2, 0.1, 0.6, 0.3, 1.1, 0.3, 0.8, -0.8}},
	{"nba-029", "Jalen Williams", "OKC", "SG,SF", 26, 5, [9]float64{0.9, 0.2, 0.6, 1.0, 0.2, 0.2, 0.9, 0.6, 0.3}},
	{"nba-030", "Derrick White", "BOS", "PG,SG", 25, 5, [9]float64{0.1, -0.2, 0.4, 0.6, 0.9, 1.6, 0.1, 1.1, -0.7}},
	{"nba-031", "Jakob Poeltl", "TOR", "C", 22, 6, [9]float64{-0.5, 1.6, -0.1, 0.3, 1.0, -1.3, 2.0, -2.1, -0.2}},
	{"nba-032", "Jrue Holiday", "BOS", "PG,SG", 20, 6, [9]float64{-0.1, 0.3, 0.3, 0.6, 0.2, 0.8, 0.4, 0.9, -0.3}},
	{"nba-033", "Herbert Jones", "NOP", "SF,PF", 18, 6, [9]float64{-0.5, -0.1, -0.2, 1.8, 0.8, 0.3, 0.3, 0.4, -0.9}},
	{"nba-034", "Walker Kessler", "UTA", "C", 16, 7, [9]float64{-1.1, 1.2, -1.0, -0.4, 2.4, -1.3, 1.9, -1.4, -0.9}},
	{"nba-035", "Josh Hart", "NYK", "SG,SF", 14, 7, [9]float64{-0.4, 1.4, 0.7, 0.6, -0.4, -0.1, 0.1, -0.2, -0.3}},
	{"nba-036", "Brook Lopez", "MIL", "C", 12, 7, [9]float64{-0.4, 0.1, -1.1, -0.5, 1.8, 1.2, 0.0, 0.6, -1.0}},
}

// sampleDepth rounds the built-in catalog out to a full league's worth of
// rosterable players
const sampleDepth = 180

// DefaultCatalog is the built-in sample catalog used when no catalog file is
// configured
func DefaultCatalog() []models.Player {
	players := make([]models.Player, 0, sampleDepth)
	for _, s := range samplePlayers {
		players = append(players, s.player())
	}

	cycle := models.Positions()
	for i := len(players); i < sampleDepth; i++ {
		n := i - len(samplePlayers)
		pos := []models.Position{cycle[n%len(cycle)]}
		if n%4 == 0 {
			pos = append(pos, cycle[(n+1)%len(cycle)])
		}
		value := 11 - n/14
		if value < 1 {
			value = 1
		}
		tier := 8 + n/40
		if tier > 10 {
			tier = 10
		}
		sign := 1.0
		if n%2 == 1 {
			sign = -1.0
		}
		players = append(players, models.Player{
			ID:             fmt.Sprintf("depth-%03d", n+1),
			Name:           fmt.Sprintf("Depth Player %d", n+1),
			Team:           "FA",
			Positions:      pos,
			ProjectedValue: value,
			Tier:           tier,
			Impact: models.CategoryImpact{
				Points:        -0.6 + 0.2*sign,
				Rebounds:      -0.3 * sign,
				Assists:       -0.4 + 0.1*sign,
				Steals:        -0.2,
				Blocks:        -0.2 * sign,
				ThreePointers: -0.3 + 0.2*sign,
				FieldGoalPct:  0.1 * sign,
				FreeThrowPct:  -0.1 * sign,
				Turnovers:     -0.4,
			},
		})
	}
	return players
}

func (s samplePlayer) player() models.Player {
	var pos []models.Position
	for _, p := range strings.Split(s.positions, ",") {
		pos = append(pos, models.Position(p))
	}
	i := s.impact
	return models.Player{
		ID:             s.id,
		Name:           s.name,
		Team:           s.team,
		Positions:      pos,
		ProjectedValue: s.value,
		Tier:           s.tier,
		Impact: models.CategoryImpact{
			Points:        i[0],
			Rebounds:      i[1],
			Assists:       i[2],
			Steals:        i[3],
			Blocks:        i[4],
			ThreePointers: i[5],
			FieldGoalPct:  i[6],
			FreeThrowPct:  i[7],
			Turnovers:     i[8],
		},
	}
}
