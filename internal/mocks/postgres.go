package mocks

import (
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/dal"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/draft"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/logger"
	"github.com/Billy-Davies-2/hoops-auction-advisor/internal/models"
)

// MockPostgresDAL stands in for Postgres during local development. It runs
// the same SQL store on SQLite.
type MockPostgresDAL struct {
	dal.DraftDAL
}

// NewMockPostgresDAL creates a mock Postgres DAL backed by sqliteFile
func NewMockPostgresDAL(sqliteFile string, league draft.League, catalog []models.Player) (*MockPostgresDAL, error) {
	logger.Info("Using MOCK Postgres (SQLite) for local development", "file", sqliteFile)

	sqliteDAL, err := dal.NewSQLiteDAL(sqliteFile, league, catalog)
	if err != nil {
		return nil, err
	}
	return &MockPostgresDAL{DraftDAL: sqliteDAL}, nil
}
