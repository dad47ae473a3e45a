package postgres

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/voter"
	"github.com/gravadigital/urna-api/internal/logger"
)

// PostgresVoterRepository implements VoterRepository using GORM
type PostgresVoterRepository struct {
	db  *gorm.DB
	log *log.Logger
}

// NewPostgresVoterRepository creates a new PostgreSQL voter repository
func NewPostgresVoterRepository(db *gorm.DB) *PostgresVoterRepository {
	return &PostgresVoterRepository{
		db:  db,
		log: logger.Repository("voter"),
	}
}

func (r *PostgresVoterRepository) Create(v *voter.Voter) error {
	r.log.Debug("creating new voter", "phone", v.Phone)

	if err := v.Validate(); err != nil {
		r.log.Error("voter validation failed", "error", err, "phone", v.Phone)
		return common.Validationf("voter validation failed: %v", err)
	}

	if err := r.db.Create(v).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.log.Warn("voter already registered", "phone", v.Phone)
			return common.Validationf("voter with this phone or email already exists")
		}
		r.log.Error("failed to create voter", "error", err, "phone", v.Phone)
		return common.Persistence(fmt.Errorf("failed to create voter: %w", err))
	}

	r.log.Info("voter created successfully", "phone", v.Phone, "name", v.Name)
	return nil
}

func (r *PostgresVoterRepository) GetByPhone(phone string) (*voter.Voter, error) {
	r.log.Debug("retrieving voter by phone", "phone", phone)

	if phone == "" {
		return nil, common.Validationf("phone cannot be empty")
	}

	var v voter.Voter
	if err := r.db.First(&v, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("voter not found", "phone", phone)
			return nil, common.NotFoundf("voter %s not found", phone)
		}
		r.log.Error("failed to retrieve voter", "phone", phone, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve voter: %w", err))
	}

	return &v, nil
}

func (r *PostgresVoterRepository) GetByEmail(email string) (*voter.Voter, error) {
	r.log.Debug("retrieving voter by email", "email", email)

	if email == "" {
		return nil, common.Validationf("email cannot be empty")
	}

	var v voter.Voter
	if err := r.db.Where("LOWER(email) = LOWER(?)", email).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("voter not found by email", "email", email)
			return nil, common.NotFoundf("voter with email %s not found", email)
		}
		r.log.Error("failed to retrieve voter by email", "email", email, "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve voter by email: %w", err))
	}

	return &v, nil
}

func (r *PostgresVoterRepository) GetAll() ([]*voter.Voter, error) {
	r.log.Debug("retrieving all voters")

	var voters []*voter.Voter
	if err := r.db.Order("created_at ASC").Find(&voters).Error; err != nil {
		r.log.Error("failed to retrieve voters", "error", err)
		return nil, common.Persistence(fmt.Errorf("failed to retrieve voters: %w", err))
	}

	r.log.Debug("voters retrieved successfully", "count", len(voters))
	return voters, nil
}

func (r *PostgresVoterRepository) Update(originalPhone string, v *voter.Voter) error {
	r.log.Debug("updating voter", "original_phone", originalPhone, "phone", v.Phone)

	existing, err := r.GetByPhone(originalPhone)
	if err != nil {
		return err
	}

	// HasVoted and Photo survive administrative edits.
	v.HasVoted = existing.HasVoted
	v.Photo = existing.Photo
	v.CreatedAt = existing.CreatedAt

	if err := v.Validate(); err != nil {
		r.log.Error("voter validation failed", "error", err, "phone", v.Phone)
		return common.Validationf("voter validation failed: %v", err)
	}

	if v.Phone == originalPhone {
		if err := r.db.Save(v).Error; err != nil {
			r.log.Error("failed to update voter", "error", err, "phone", v.Phone)
			return common.Persistence(fmt.Errorf("failed to update voter: %w", err))
		}
		r.log.Info("voter updated successfully", "phone", v.Phone)
		return nil
	}

	// Phone change re-keys the record.
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&voter.Voter{}, "phone = ?", originalPhone).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.Validationf("voter with this phone or email already exists")
		}
		r.log.Error("failed to re-key voter", "error", err, "original_phone", originalPhone, "phone", v.Phone)
		return common.Persistence(fmt.Errorf("failed to re-key voter: %w", err))
	}

	r.log.Info("voter updated successfully", "original_phone", originalPhone, "phone", v.Phone)
	return nil
}

func (r *PostgresVoterRepository) Delete(phone string) error {
	r.log.Debug("deleting voter", "phone", phone)

	result := r.db.Delete(&voter.Voter{}, "phone = ?", phone)
	if result.Error != nil {
		r.log.Error("failed to delete voter", "phone", phone, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to delete voter: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		r.log.Warn("attempted to delete non-existent voter", "phone", phone)
		return common.NotFoundf("voter %s not found", phone)
	}

	r.log.Info("voter deleted successfully", "phone", phone)
	return nil
}

func (r *PostgresVoterRepository) UpdatePhoto(phone, filename string) error {
	r.log.Debug("updating voter photo", "phone", phone, "filename", filename)

	result := r.db.Model(&voter.Voter{}).Where("phone = ?", phone).Update("photo", filename)
	if result.Error != nil {
		r.log.Error("failed to update voter photo", "phone", phone, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to update voter photo: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return common.NotFoundf("voter %s not found", phone)
	}

	r.log.Info("voter photo updated", "phone", phone, "filename", filename)
	return nil
}

func (r *PostgresVoterRepository) SetHasVoted(phone string, hasVoted bool) error {
	r.log.Debug("setting has_voted flag", "phone", phone, "has_voted", hasVoted)

	result := r.db.Model(&voter.Voter{}).Where("phone = ?", phone).Update("has_voted", hasVoted)
	if result.Error != nil {
		r.log.Error("failed to set has_voted flag", "phone", phone, "error", result.Error)
		return common.Persistence(fmt.Errorf("failed to set has_voted flag: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return common.NotFoundf("voter %s not found", phone)
	}

	return nil
}

func (r *PostgresVoterRepository) ResetHasVoted() error {
	r.log.Debug("resetting has_voted flag for all voters")

	err := r.db.Model(&voter.Voter{}).Where("has_voted = ?", true).Update("has_voted", false).Error
	if err != nil {
		r.log.Error("failed to reset has_voted flags", "error", err)
		return common.Persistence(fmt.Errorf("failed to reset has_voted flags: %w", err))
	}

	return nil
}
