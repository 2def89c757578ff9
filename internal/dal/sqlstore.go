package dal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// sqlStore keeps the catalog, the ordered pick log and a few settings in a
// SQL database. The snapshot is never stored: it is rebuilt by replaying the
// picks through the draft transitions, so both stores share one set of rules.
type sqlStore struct {
	db     *sql.DB
	league draft.League
	// bind rewrites "?" placeholders for the driver
	bind func(string) string
	mu   sync.Mutex
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

const (
	settingVersion    = "version"
	settingStrategy   = "strategy"
	settingNomination = "nomination"
)

type storedNomination struct {
	PlayerID string `json:"playerId"`
	Bid      int    `json:"bid"`
	Team     string `json:"team"`
}

func bindQuestion(q string) string { return q }

// bindDollar rewrites "?" placeholders to Postgres "$n" form
func bindDollar(q string) string {
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) init(schema string, catalog []models.Player) error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return s.seed(catalog)
}

func (s *sqlStore) seed(catalog []models.Player) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range catalog {
		stats, err := json.Marshal(p.Stats)
		if err != nil {
			return fmt.Errorf("failed to marshal stats for %s: %w", p.ID, err)
		}
		impact, err := json.Marshal(p.Impact)
		if err != nil {
			return fmt.Errorf("failed to marshal impact for %s: %w", p.ID, err)
		}
		_, err = tx.Exec(s.bind(`
			INSERT INTO players (id, name, team, positions, projected_value, tier, stats, impact)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`), p.ID, p.Name, p.Team, joinPositions(p.Positions), p.ProjectedValue, p.Tier, string(stats), string(impact))
		if err != nil {
			return fmt.Errorf("failed to seed player %s: %w", p.ID, err)
		}
	}
	if err := s.insertLog(tx, newLogEntry(models.LogSystem, startText)); err != nil {
		return err
	}
	logger.Info("Seeded player catalog", "players", len(catalog))
	return tx.Commit()
}

func joinPositions(pos []models.Position) string {
	parts := make([]string, len(pos))
	for i, p := range pos {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}

func splitPositions(s string) []models.Position {
	var out []models.Position
	for _, p := range strings.Split(s, ",") {
		if p != "" {
			out = append(out, models.Position(p))
		}
	}
	return out
}

func (s *sqlStore) loadCatalog(q queryer) ([]models.Player, error) {
	rows, err := q.Query(`
		SELECT id, name, team, positions, projected_value, tier, stats, impact
		FROM players ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		var positions, stats, impact string
		if err := rows.Scan(&p.ID, &p.Name, &p.Team, &positions, &p.ProjectedValue, &p.Tier, &stats, &impact); err != nil {
			return nil, err
		}
		p.Positions = splitPositions(positions)
		if err := json.Unmarshal([]byte(stats), &p.Stats); err != nil {
			return nil, fmt.Errorf("player %s stats: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(impact), &p.Impact); err != nil {
			return nil, fmt.Errorf("player %s impact: %w", p.ID, err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *sqlStore) loadPicks(q queryer) ([]draft.Pick, error) {
	rows, err := q.Query(`SELECT pick_id, player_id, team, price, nominated_by FROM picks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []draft.Pick
	for rows.Next() {
		var p draft.Pick
		if err := rows.Scan(&p.PickID, &p.PlayerID, &p.Team, &p.Price, &p.NominatedBy); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func (s *sqlStore) loadSettings(q queryer) (map[string]string, error) {
	rows, err := q.Query(`SELECT name, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		settings[name] = value
	}
	return settings, rows.Err()
}

// loadState replays the stored draft into a snapshot
func (s *sqlStore) loadState(q queryer) (*models.DraftState, error) {
	catalog, err := s.loadCatalog(q)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	picks, err := s.loadPicks(q)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}
	settings, err := s.loadSettings(q)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	state, err := draft.NewDraftState(s.league, catalog)
	if err != nil {
		return nil, err
	}
	for _, pick := range picks {
		state, err = draft.FinalizeDraft(state, pick)
		if err != nil {
			return nil, fmt.Errorf("replay pick %s: %w", pick.PickID, err)
		}
	}
	if v, ok := settings[settingStrategy]; ok && models.RosterStrategy(v) != state.Strategy {
		state, err = draft.ChangeStrategy(state, models.RosterStrategy(v))
		if err != nil {
			return nil, fmt.Errorf("replay strategy: %w", err)
		}
	}
	if v, ok := settings[settingNomination]; ok {
		var n storedNomination
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			return nil, fmt.Errorf("replay nomination: %w", err)
		}
		nominated, err := draft.Nominate(state, n.PlayerID, n.Bid, n.Team)
		if err != nil {
			logger.Warn("Dropping stale nomination", "player_id", n.PlayerID, "error", err)
		} else {
			state = nominated
		}
	}

	state.Version = 0
	if v, ok := settings[settingVersion]; ok {
		state.Version, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("replay version %q: %w", v, err)
		}
	}
	return state, nil
}

func (s *sqlStore) setSetting(q queryer, name, value string) error {
	_, err := q.Exec(s.bind(`
		INSERT INTO settings (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = excluded.value
	`), name, value)
	return err
}

func (s *sqlStore) deleteSetting(q queryer, name string) error {
	_, err := q.Exec(s.bind(`DELETE FROM settings WHERE name = ?`), name)
	return err
}

func (s *sqlStore) insertLog(q queryer, e models.DraftLogEntry) error {
	_, err := q.Exec(s.bind(`
		INSERT INTO draft_log (id, ts, type, text) VALUES (?, ?, ?, ?)
	`), e.ID, e.TS, e.Type, e.Text)
	return err
}

// mutate runs one transition inside a transaction. apply gets the replayed
// snapshot and persists its own rows; mutate bumps the version and appends
// the log entry.
func (s *sqlStore) mutate(op string, apply func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error)) (*models.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	cur, err := s.loadState(tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	next, entry, err := apply(tx, cur)
	if err != nil {
		return nil, err
	}
	next.Version = cur.Version + 1
	if err := s.setSetting(tx, settingVersion, strconv.Itoa(next.Version)); err != nil {
		return nil, fmt.Errorf("%s: save version: %w", op, err)
	}
	if err := s.insertLog(tx, entry); err != nil {
		return nil, fmt.Errorf("%s: append log: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}
	return next, nil
}

func (s *sqlStore) GetState() (*models.DraftState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadState(s.db)
}

func (s *sqlStore) Nominate(playerID string, bid int, team string) (*models.DraftState, error) {
	return s.mutate("nominate", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		next, err := draft.Nominate(cur, playerID, bid, team)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		data, err := json.Marshal(storedNomination{PlayerID: playerID, Bid: bid, Team: team})
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		if err := s.setSetting(tx, settingNomination, string(data)); err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("nominate: save: %w", err)
		}
		return next, newLogEntry(models.LogNominate, nominateText(next.Nomination)), nil
	})
}

func (s *sqlStore) ClearNomination() (*models.DraftState, error) {
	return s.mutate("clear nomination", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		next, err := draft.ClearNomination(cur)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		if err := s.deleteSetting(tx, settingNomination); err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("clear nomination: %w", err)
		}
		return next, newLogEntry(models.LogNominate, withdrawText(cur.Nomination)), nil
	})
}

func (s *sqlStore) DraftPlayer(pick draft.Pick) (*models.DraftState, error) {
	return s.mutate("draft player", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		next, err := draft.FinalizeDraft(cur, pick)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		dp, _ := lastPick(next)
		_, err = tx.Exec(s.bind(`
			INSERT INTO picks (pick_id, player_id, team, price, nominated_by, created_at) VALUES (?, ?, ?, ?, ?, ?)
		`), dp.PickID, dp.ID, dp.DraftedBy, dp.Price, dp.NominatedBy, time.Now().UnixMilli())
		if err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("draft player %s: save pick: %w", dp.ID, err)
		}
		if next.Nomination == nil && cur.Nomination != nil {
			if err := s.deleteSetting(tx, settingNomination); err != nil {
				return nil, models.DraftLogEntry{}, fmt.Errorf("draft player %s: clear nomination: %w", dp.ID, err)
			}
		}
		return next, newLogEntry(models.LogPick, pickText(dp)), nil
	})
}

func (s *sqlStore) UndoLastPick() (*models.DraftState, models.DraftedPlayer, error) {
	var undone models.DraftedPlayer
	next, err := s.mutate("undo", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		next, dp, err := draft.UndoLastPick(cur)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		if _, err := tx.Exec(s.bind(`DELETE FROM picks WHERE pick_id = ?`), dp.PickID); err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("undo %s: %w", dp.PickID, err)
		}
		undone = dp
		return next, newLogEntry(models.LogUndo, undoText(dp)), nil
	})
	if err != nil {
		return nil, models.DraftedPlayer{}, err
	}
	return next, undone, nil
}

func (s *sqlStore) SetStrategy(strategy models.RosterStrategy) (*models.DraftState, error) {
	return s.mutate("set strategy", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		next, err := draft.ChangeStrategy(cur, strategy)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		if err := s.setSetting(tx, settingStrategy, string(strategy)); err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("set strategy: save: %w", err)
		}
		return next, newLogEntry(models.LogStrategy, strategyText(strategy)), nil
	})
}

// Reset clears picks, settings and the log but keeps the catalog and the
// version counter
func (s *sqlStore) Reset() error {
	_, err := s.mutate("reset", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		for _, stmt := range []string{
			`DELETE FROM picks`,
			`DELETE FROM draft_log`,
			`DELETE FROM settings`,
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return nil, models.DraftLogEntry{}, fmt.Errorf("reset: %w", err)
			}
		}
		catalog, err := s.loadCatalog(tx)
		if err != nil {
			return nil, models.DraftLogEntry{}, fmt.Errorf("reset: %w", err)
		}
		next, err := draft.NewDraftState(s.league, catalog)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		return next, newLogEntry(models.LogSystem, resetText), nil
	})
	return err
}

func (s *sqlStore) GetLog() ([]models.DraftLogEntry, error) {
	rows, err := s.db.Query(`SELECT id, ts, type, text FROM draft_log ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.DraftLogEntry{}
	for rows.Next() {
		var e models.DraftLogEntry
		if err := rows.Scan(&e.ID, &e.TS, &e.Type, &e.Text); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var errNoProjectionChanges = errors.New("no projection changes")

// UpdateProjections rewrites value and tier for players that are not on a
// roster. Drafted players keep the values they were bought at.
func (s *sqlStore) UpdateProjections(projections map[string]models.Projection) (int, error) {
	changed := 0
	_, err := s.mutate("update projections", func(tx *sql.Tx, cur *models.DraftState) (*models.DraftState, models.DraftLogEntry, error) {
		for id, pr := range projections {
			res, err := tx.Exec(s.bind(`
				UPDATE players SET projected_value = ?, tier = ?
				WHERE id = ? AND (projected_value <> ? OR tier <> ?)
				AND id NOT IN (SELECT player_id FROM picks)
			`), pr.Value, pr.Tier, id, pr.Value, pr.Tier)
			if err != nil {
				return nil, models.DraftLogEntry{}, fmt.Errorf("update projection %s: %w", id, err)
			}
			n, _ := res.RowsAffected()
			changed += int(n)
		}
		if changed == 0 {
			return nil, models.DraftLogEntry{}, errNoProjectionChanges
		}
		next, err := s.loadState(tx)
		if err != nil {
			return nil, models.DraftLogEntry{}, err
		}
		return next, newLogEntry(models.LogSystem, fmt.Sprintf("Projections refreshed for %d players", changed)), nil
	})
	if errors.Is(err, errNoProjectionChanges) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func (s *sqlStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
