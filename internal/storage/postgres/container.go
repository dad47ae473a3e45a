package postgres

import (
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/urna-api/internal/config"
	"github.com/gravadigital/urna-api/internal/logger"
)

// Container implements RepositoryContainer interface
type Container struct {
	db            *gorm.DB
	log           *log.Logger
	electionRepo  ElectionRepository
	voterRepo     VoterRepository
	candidateRepo CandidateRepository
	voteRepo      VoteRepository
}

// NewContainer creates a new repository container with all repositories initialized
func NewContainer(cfg *config.Config) (*Container, error) {
	log := logger.Repository("postgres_container")
	log.Info("Initializing PostgreSQL repository container...")

	// Establish database connection
	db, err := Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run migrations
	if err := AutoMigrate(db); err != nil {
		log.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	container := NewContainerWithDB(db)

	// Perform health check
	if err := container.Health(); err != nil {
		log.Error("Container health check failed", "error", err)
		return nil, fmt.Errorf("container health check failed: %w", err)
	}

	log.Info("PostgreSQL repository container initialized successfully")
	return container, nil
}

// NewContainerWithDB creates a container with an existing database connection
func NewContainerWithDB(db *gorm.DB) *Container {
	return &Container{
		db:            db,
		log:           logger.Repository("postgres_container"),
		electionRepo:  NewPostgresElectionRepository(db),
		voterRepo:     NewPostgresVoterRepository(db),
		candidateRepo: NewPostgresCandidateRepository(db),
		voteRepo:      NewPostgresVoteRepository(db),
	}
}

// Elections returns the election repository
func (c *Container) Elections() ElectionRepository {
	return c.electionRepo
}

// Voters returns the voter repository
func (c *Container) Voters() VoterRepository {
	return c.voterRepo
}

// Candidates returns the candidate repository
func (c *Container) Candidates() CandidateRepository {
	return c.candidateRepo
}

// Votes returns the vote repository
func (c *Container) Votes() VoteRepository {
	return c.voteRepo
}

// Transaction runs fn against a container whose repositories share a single
// database transaction. A non-nil error from fn rolls everything back.
func (c *Container) Transaction(fn func(repos RepositoryContainer) error) error {
	return c.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewContainerWithDB(tx))
	})
}

// Health performs a health check on the database connection and each table
func (c *Container) Health() error {
	c.log.Debug("Performing container health check...")

	// Check database connection
	if err := HealthCheck(c.db); err != nil {
		c.log.Error("Database health check failed", "error", err)
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Get connection metrics
	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Database connection metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)

	// Verify each table answers a basic query
	for _, table := range []string{"elections", "voters", "candidates", "votes"} {
		var count int64
		if err := c.db.Table(table).Count(&count).Error; err != nil {
			c.log.Error("Repository health check failed", "table", table, "error", err)
			return fmt.Errorf("repository %s health check failed: %w", table, err)
		}
		c.log.Debug("Repository health check passed", "table", table)
	}

	c.log.Debug("Container health check completed successfully")
	return nil
}

// Close gracefully shuts down the container and closes database connections
func (c *Container) Close() error {
	c.log.Info("Closing PostgreSQL repository container...")

	if c.db == nil {
		c.log.Warn("Database connection is nil, nothing to close")
		return nil
	}

	// Get final metrics before closing
	metrics := GetDatabaseMetrics(c.db)
	c.log.Debug("Final database metrics",
		"open_connections", metrics.OpenConnections,
		"in_use_connections", metrics.InUseConnections,
		"idle_connections", metrics.IdleConnections)

	// Close the database connection
	if err := Close(); err != nil {
		c.log.Error("Failed to close database connection", "error", err)
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	c.electionRepo = nil
	c.voterRepo = nil
	c.candidateRepo = nil
	c.voteRepo = nil
	c.db = nil

	c.log.Info("PostgreSQL repository container closed successfully")
	return nil
}

// GetDB returns the underlying database connection (for advanced usage)
func (c *Container) GetDB() *gorm.DB {
	return c.db
}
