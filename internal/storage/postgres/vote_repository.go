package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/urna-api/internal/domain/ballot"
	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
)

// PostgresVoteRepository implements VoteRepository using GORM
type PostgresVoteRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoteRepository creates a new PostgreSQL vote repository
func NewPostgresVoteRepository(db *gorm.DB) *PostgresVoteRepository {
	return &PostgresVoteRepository{
		db:  db,
		log: logger.Repository("vote"),
	}
}

func (r *PostgresVoteRepository) Create(v *ballot.Vote) error {
	r.log.Debug("creating new vote", "vote_id", v.ID, "election_id", v.ElectionID)

	if err := v.Validate(); err != nil {
		r.log.Error("vote validation failed", "error", err, "vote_id", v.ID)
		return common.Validationf("vote validation failed: %v", err)
	}

	// The primary key on the composite id is the enforcement mechanism for
	// one vote per (voter, election); a duplicate insert loses here even
	// when two requests race past any application-level check.
	if err := r.db.Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("duplicate vote rejected", "vote_id", v.ID)
			return common.ErrDuplicateVote
		}
		r.log.Error("failed to create vote", "error", err, "vote_id", v.ID)
		return common.Persistence(fmt.Errorf("failed to create vote: %w", err))
	}

	r.log.Info("vote created successfully", "vote_id", v.ID, "election_id", v.ElectionID)
	return nil
}

func (r *PostgresVoteRepository) GetByID(id string) (*ballot.Vote, error) {
	r.log.Debug("retrieving vote by ID", "vote_id", id)

	if id == "" {
		return nil, common.Validationf("vote ID cannot be empty")
	}

	var v ballot.Vote
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NotFoundf("vote %s not found", id)
		}
		r.log.Error("failed to retrieve vote", "vote_id", id, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve vote: %w", err))
	}

	return &v, nil
}

func (r *PostgresVoteRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&ballot.Vote{}).Where("id = ?", id).Count(&count).Error; err != nil {
		r.log.Error("failed to check vote existence", "vote_id", id, "error", err)
		return false, common.Persistence(fmt.Errorf("failed to check vote existence: %w", err))
	}
	return count > 0, nil
}

func (r *PostgresVoteRepository) GetByElectionID(electionID string) ([]*ballot.Vote, error) {
	r.log.Debug("retrieving votes by election ID", "election_id", electionID)

	if electionID == "" {
		return nil, common.Validationf("election ID cannot be empty")
	}

	var votes []*ballot.Vote
	if err := r.db.Where("election_id = ?", electionID).Order("timestamp ASC").Find(&votes).Error; err != nil {
		r.log.Error("failed to retrieve votes by election ID", "election_id", electionID, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve votes by election ID: %w", err))
	}

	r.log.Debug("votes retrieved successfully", "election_id", electionID, "count", len(votes))
	return votes, nil
}

func (r *PostgresVoteRepository) CountByElection(electionID string) (int64, error) {
	var count int64
	if err := r.db.Model(&ballot.Vote{}).Where("election_id = ?", electionID).Count(&count).Error; err != nil {
		r.log.Error("failed to count votes by election ID", "election_id", electionID, "error", err)
		return 0, common.Persistence(fmt.Errorf("failed to count votes by election ID: %w", err))
	}
	return count, nil
}

func (r *PostgresVoteRepository) DeleteByElection(electionID string) error {
	r.log.Debug("deleting votes by election ID", "election_id", electionID)

	result := r.db.Delete(&ballot.Vote{}, "election_id = ?", electionID)
	if result.Error != nil {
		r.log.Error("failed to delete votes by election ID", "election_id", electionID, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to delete votes by election ID: %w", result.Error))
	}

	r.log.Info("votes deleted for election", "election_id", electionID, "count", result.RowsAffected)
	return nil
}
