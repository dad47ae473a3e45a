package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gravadigital/urna-api/internal/storage/migrations"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// newTestStore builds a repository container over a private in-memory
// SQLite database. TranslateError is on so duplicate-key detection behaves
// like the production postgres connection.
func newTestStore(t *testing.T) *postgres.Container {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive and
	// serializes writers, which SQLite wants anyway.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(migrations.AllModels()...))

	t.Cleanup(func() { _ = sqlDB.Close() })

	return postgres.NewContainerWithDB(db)
}

// newTestServices wires every service onto one shared store.
func newTestServices(t *testing.T) (*postgres.Container, *ElectionService, *BallotService, *ResultsService, *CandidateService, *VoterService) {
	t.Helper()

	store := newTestStore(t)
	return store,
		NewElectionService(store),
		NewBallotService(store),
		NewResultsService(store),
		NewCandidateService(store),
		NewVoterService(store, "+91")
}

// startElection creates and starts a fresh election.
func startElection(t *testing.T, elections *ElectionService, title string) string {
	t.Helper()

	e, err := elections.Create(CreateElectionRequest{Title: title})
	require.NoError(t, err)

	_, err = elections.Start(e.ID)
	require.NoError(t, err)
	return e.ID
}
