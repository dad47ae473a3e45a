package services

import (
	"github.com/charmbracelet/log"

	"github.com/gravadigital/urna-api/internal/domain/candidate"
	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
	"github.com/gravadigital/urna-api/internal/validation"
)

// CandidateService maneja la lógica de negocio de los candidatos
type CandidateService struct {
	store     postgres.RepositoryContainer
	log       *log.Logger
	validator validation.CandidateValidation
}

// NewCandidateService crea una nueva instancia del servicio de candidatos
func NewCandidateService(store postgres.RepositoryContainer) *CandidateService {
	return &CandidateService{
		store:     store,
		log:       logger.Service("candidate"),
		validator: validation.CandidateValidation{},
	}
}

// AddCandidateRequest representa una solicitud para registrar un candidato
type AddCandidateRequest struct {
	Name  string `json:"name" binding:"required"`
	Photo string `json:"photo"`
}

// Add registers a candidate. The id is the slug of the name, so adding the
// same name twice fails instead of creating a second entry.
func (s *CandidateService) Add(req AddCandidateRequest) (*candidate.Candidate, error) {
	if err := s.validator.ValidateName(req.Name); err != nil {
		return nil, common.Validationf("%v", err)
	}

	c := candidate.NewCandidate(req.Name, req.Photo)
	if err := s.store.Candidates().Create(c); err != nil {
		return nil, err
	}

	s.log.Info("candidate added", "candidate_id", c.ID, "name", c.Name)
	return c, nil
}

// GetByID obtiene un candidato por su ID
func (s *CandidateService) GetByID(id string) (*candidate.Candidate, error) {
	return s.store.Candidates().GetByID(id)
}

// GetAll obtiene todos los candidatos en orden de registro
func (s *CandidateService) GetAll() ([]*candidate.Candidate, error) {
	return s.store.Candidates().GetAll()
}

// Delete elimina un candidato
func (s *CandidateService) Delete(id string) error {
	if err := s.store.Candidates().Delete(id); err != nil {
		return err
	}
	s.log.Info("candidate deleted", "candidate_id", id)
	return nil
}
