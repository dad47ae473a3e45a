package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/election"
	"github.com/gravadigital/urna-api/internal/logger"
)

// PostgresElectionRepository implements ElectionRepository using GORM
type PostgresElectionRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresElectionRepository creates a new PostgreSQL election repository
func NewPostgresElectionRepository(db *gorm.DB) *PostgresElectionRepository {
	return &PostgresElectionRepository{
		db:  db,
		log: logger.Repository("election"),
	}
}

func (r *PostgresElectionRepository) Create(e *election.Election) error {
	r.log.Debug("creating new election", "election_id", e.ID, "title", e.Title)

	if err := e.Validate(); err != nil {
		r.log.Error("election validation failed", "error", err, "election_id", e.ID)
		return common.Validationf("election validation failed: %v", err)
	}

	if err := r.db.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("election id already exists", "election_id", e.ID)
			return common.Validationf("election %s already exists", e.ID)
		}
		r.log.Error("failed to create election", "error", err, "election_id", e.ID)
		return common.Persistence(fmt.Errorf("failed to create election: %w", err))
	}

	r.log.Info("election created successfully", "election_id", e.ID, "title", e.Title)
	return nil
}

func (r *PostgresElectionRepository) GetByID(id string) (*election.Election, error) {
	r.log.Debug("retrieving election by ID", "election_id", id)

	if id == "" {
		return nil, common.Validationf("election ID cannot be empty")
	}

	var e election.Election
	if err := r.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("election not found", "election_id", id)
			return nil, common.NotFoundf("election %s not found", id)
		}
		r.log.Error("failed to retrieve election", "election_id", id, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve election: %w", err))
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetAll() ([]*election.Election, error) {
	r.log.Debug("retrieving all elections")

	var elections []*election.Election
	if err := r.db.Order("created_at DESC").Find(&elections).Error; err != nil {
		r.log.Error("failed to retrieve elections", "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve elections: %w", err))
	}

	r.log.Debug("elections retrieved successfully", "count", len(elections))
	return elections, nil
}

func (r *PostgresElectionRepository) GetActive() (*election.Election, error) {
	r.log.Debug("retrieving active election")

	var e election.Election
	err := r.db.Where("status = ?", election.StatusActive.String()).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to retrieve active election", "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve active election: %w", err))
	}

	return &e, nil
}

func (r *PostgresElectionRepository) GetLastEnded() (*election.Election, error) {
	r.log.Debug("retrieving most recently ended election")

	var e election.Election
	err := r.db.Where("status = ?", election.StatusEnded.String()).
		Order("ended_at DESC").
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to retrieve last ended election", "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve last ended election: %w", err))
	}

	return &e, nil
}

func (r *PostgresElectionRepository) Update(e *election.Election) error {
	r.log.Debug("updating election", "election_id", e.ID, "status", e.Status.String())

	if err := e.Validate(); err != nil {
		r.log.Error("election validation failed", "error", err, "election_id", e.ID)
		return common.Validationf("election validation failed: %v", err)
	}

	result := r.db.Model(&election.Election{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"title":       e.Title,
		"description": e.Description,
		"status":      e.Status,
		"started_at":  e.StartedAt,
		"ended_at":    e.EndedAt,
		"total_votes": e.TotalVotes,
	})
	if result.Error != nil {
		r.log.Error("failed to update election", "error", result.Error, "election_id", e.ID)
		return common.Persistence(fmt.Errorf("failed to update election: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		r.log.Warn("attempted to update non-existent election", "election_id", e.ID)
		return common.NotFoundf("election %s not found", e.ID)
	}

	r.log.Info("election updated successfully", "election_id", e.ID, "status", e.Status.String())
	return nil
}

func (r *PostgresElectionRepository) Delete(id string) error {
	r.log.Debug("deleting election", "election_id", id)

	result := r.db.Delete(&election.Election{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("failed to delete election", "election_id", id, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to delete election: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		r.log.Warn("attempted to delete non-existent election", "election_id", id)
		return common.NotFoundf("election %s not found", id)
	}

	r.log.Info("election deleted successfully", "election_id", id)
	return nil
}
