package dal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	team TEXT NOT NULL,
	positions TEXT NOT NULL,
	projected_value INTEGER NOT NULL,
	tier INTEGER NOT NULL,
	stats TEXT NOT NULL,
	impact TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS picks (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	pick_id TEXT NOT NULL UNIQUE,
	player_id TEXT NOT NULL UNIQUE REFERENCES players(id),
	team TEXT NOT NULL,
	price INTEGER NOT NULL,
	nominated_by TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	name TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS draft_log (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	ts INTEGER NOT NULL,
	type TEXT NOT NULL,
	text TEXT NOT NULL
);
`

// SQLiteDAL implements DraftDAL using SQLite
type SQLiteDAL struct {
	*sqlStore
}

// NewSQLiteDAL opens (or creates) the database at dbPath and seeds the
// catalog on first use. A nil catalog seeds the built-in sample.
func NewSQLiteDAL(dbPath string, league draft.League, catalog []models.Player) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	store := &sqlStore{db: db, league: league, bind: bindQuestion}
	if err := store.init(sqliteSchema, catalog); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := store.GetState(); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteDAL{sqlStore: store}, nil
}
