package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/urna-api/internal/domain/candidate"
	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
)

// PostgresCandidateRepository implements CandidateRepository using GORM
type PostgresCandidateRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresCandidateRepository creates a new PostgreSQL candidate repository
func NewPostgresCandidateRepository(db *gorm.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{
		db:  db,
		log: logger.Repository("candidate"),
	}
}

func (r *PostgresCandidateRepository) Create(c *candidate.Candidate) error {
	r.log.Debug("creating new candidate", "candidate_id", c.ID, "name", c.Name)

	if err := c.Validate(); err != nil {
		r.log.Error("candidate validation failed", "error", err, "candidate_id", c.ID)
		return common.Validationf("candidate validation failed: %v", err)
	}

	// Position is assigned inside the transaction so registration order
	// stays monotonic under concurrent admin requests.
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		row := tx.Model(&candidate.Candidate{}).Select("COALESCE(MAX(position), 0)").Row()
		if err := row.Scan(&maxPosition); err != nil {
			return err
		}
		c.Position = maxPosition + 1
		return tx.Create(c).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("candidate already exists", "candidate_id", c.ID)
			return common.Validationf("candidate %s already exists", c.ID)
		}
		r.log.Error("failed to create candidate", "error", err, "candidate_id", c.ID)
		return common.Persistence(fmt.Errorf("failed to create candidate: %w", err))
	}

	r.log.Info("candidate created successfully", "candidate_id", c.ID, "name", c.Name, "position", c.Position)
	return nil
}

func (r *PostgresCandidateRepository) GetByID(id string) (*candidate.Candidate, error) {
	r.log.Debug("retrieving candidate by ID", "candidate_id", id)

	if id == "" {
		return nil, common.Validationf("candidate ID cannot be empty")
	}

	var c candidate.Candidate
	if err := r.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("candidate not found", "candidate_id", id)
			return nil, common.NotFoundf("candidate %s not found", id)
		}
		r.log.Error("failed to retrieve candidate", "candidate_id", id, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve candidate: %w", err))
	}

	return &c, nil
}

func (r *PostgresCandidateRepository) GetAll() ([]*candidate.Candidate, error) {
	r.log.Debug("retrieving all candidates")

	var candidates []*candidate.Candidate
	if err := r.db.Order("position ASC").Find(&candidates).Error; err != nil {
		r.log.Error("failed to retrieve candidates", "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve candidates: %w", err))
	}

	r.log.Debug("candidates retrieved successfully", "count", len(candidates))
	return candidates, nil
}

func (r *PostgresCandidateRepository) Delete(id string) error {
	r.log.Debug("deleting candidate", "candidate_id", id)

	result := r.db.Delete(&candidate.Candidate{}, "id = ?", id)
	if result.Error != nil {
		r.log.Error("failed to delete candidate", "candidate_id", id, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to delete candidate: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		r.log.Warn("attempted to delete non-existent candidate", "candidate_id", id)
		return common.NotFoundf("candidate %s not found", id)
	}

	r.log.Info("candidate deleted successfully", "candidate_id", id)
	return nil
}

func (r *PostgresCandidateRepository) IncrementVotes(id string) error {
	r.log.Debug("incrementing candidate vote counter", "candidate_id", id)

	// Atomic SQL increment, never read-modify-write.
	result := r.db.Model(&candidate.Candidate{}).Where("id = ?", id).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if result.Error != nil {
		r.log.Error("failed to increment candidate votes", "candidate_id", id, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to increment candidate votes: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return common.NotFoundf("candidate %s not found", id)
	}

	return nil
}

func (r *PostgresCandidateRepository) ResetVotes() error {
	r.log.Debug("resetting all candidate vote counters")

	err := r.db.Model(&candidate.Candidate{}).Where("votes <> ?", 0).
		UpdateColumn("votes", 0).Error
	if err != nil {
		r.log.Error("failed to reset candidate vote counters", "error", err)
		return common.Persistence(fmt.Errorf("failed to reset candidate vote counters: %w", err))
	}

	r.log.Info("candidate vote counters reset")
	return nil
}
