package services

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/election"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
	"github.com/gravadigital/urna-api/internal/validation"
)

// ElectionService maneja la lógica de negocio del ciclo de vida electoral
type ElectionService struct {
	store     postgres.RepositoryContainer
	log       *log.Logger
	validator validation.ElectionValidation
	now       func() time.Time
}

// NewElectionService crea una nueva instancia del servicio de elecciones
func NewElectionService(store postgres.RepositoryContainer) *ElectionService {
	return &ElectionService{
		store:     store,
		log:       logger.Service("election"),
		validator: validation.ElectionValidation{},
		now:       time.Now,
	}
}

// CreateElectionRequest representa una solicitud para crear una elección
type CreateElectionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Create registers a new election in the created state. Elections created
// within the same second get a numeric suffix on the time-derived id.
func (s *ElectionService) Create(req CreateElectionRequest) (*election.Election, error) {
	if err := s.validator.ValidateTitle(req.Title); err != nil {
		return nil, common.Validationf("%v", err)
	}
	if err := s.validator.ValidateDescription(req.Description); err != nil {
		return nil, common.Validationf("%v", err)
	}

	e := election.NewElection(req.Title, req.Description, s.now())

	baseID := e.ID
	for n := 1; ; n++ {
		_, err := s.store.Elections().GetByID(e.ID)
		if common.IsNotFound(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		e.ID = fmt.Sprintf("%s_%d", baseID, n)
	}

	if err := s.store.Elections().Create(e); err != nil {
		return nil, err
	}

	s.log.Info("election created", "election_id", e.ID, "title", e.Title)
	return e, nil
}

// Start activates the election, ending any currently active one first and
// resetting candidate counters and advisory voter flags. Votes stay keyed
// to their own election id, so the new election begins with an empty
// ledger while prior elections keep theirs for recounts.
func (s *ElectionService) Start(id string) (*election.Election, error) {
	var started *election.Election

	err := s.store.Transaction(func(repos postgres.RepositoryContainer) error {
		target, err := repos.Elections().GetByID(id)
		if err != nil {
			return err
		}
		if target.IsActive() {
			return fmt.Errorf("election %s is already active: %w", id, common.ErrActiveElection)
		}

		now := s.now()

		// La elección activa anterior se cierra con su recuento final
		active, err := repos.Elections().GetActive()
		if err != nil {
			return err
		}
		if active != nil {
			count, err := repos.Votes().CountByElection(active.ID)
			if err != nil {
				return err
			}
			if err := active.End(now, int(count)); err != nil {
				return common.Validationf("%v", err)
			}
			if err := repos.Elections().Update(active); err != nil {
				return err
			}
			s.log.Info("ended previously active election", "election_id", active.ID, "total_votes", count)
		}

		if err := repos.Candidates().ResetVotes(); err != nil {
			return err
		}
		if err := repos.Voters().ResetHasVoted(); err != nil {
			return err
		}

		if err := target.Start(now); err != nil {
			return common.Validationf("%v", err)
		}
		if err := repos.Elections().Update(target); err != nil {
			return err
		}

		started = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("election started", "election_id", started.ID)
	return started, nil
}

// Stop ends the election with the given id, or the currently active one
// when id is empty. The final vote count is snapshotted onto the election.
func (s *ElectionService) Stop(id string) (*election.Election, error) {
	var stopped *election.Election

	err := s.store.Transaction(func(repos postgres.RepositoryContainer) error {
		var target *election.Election
		var err error

		if id == "" {
			target, err = repos.Elections().GetActive()
			if err != nil {
				return err
			}
			if target == nil {
				return common.ErrNoActiveElection
			}
		} else {
			target, err = repos.Elections().GetByID(id)
			if err != nil {
				return err
			}
			if !target.IsActive() {
				return fmt.Errorf("election %s is not active: %w", id, common.ErrNoActiveElection)
			}
		}

		count, err := repos.Votes().CountByElection(target.ID)
		if err != nil {
			return err
		}

		if err := target.End(s.now(), int(count)); err != nil {
			return common.Validationf("%v", err)
		}
		if err := repos.Elections().Update(target); err != nil {
			return err
		}

		stopped = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("election stopped", "election_id", stopped.ID, "total_votes", stopped.TotalVotes)
	return stopped, nil
}

// Delete removes the election and every vote attached to it. An active
// election must be stopped before it can be deleted.
func (s *ElectionService) Delete(id string) error {
	err := s.store.Transaction(func(repos postgres.RepositoryContainer) error {
		target, err := repos.Elections().GetByID(id)
		if err != nil {
			return err
		}
		if target.IsActive() {
			return fmt.Errorf("cannot delete election %s: %w", id, common.ErrActiveElection)
		}

		if err := repos.Votes().DeleteByElection(id); err != nil {
			return err
		}
		return repos.Elections().Delete(id)
	})
	if err != nil {
		return err
	}

	s.log.Info("election deleted", "election_id", id)
	return nil
}

// GetByID obtiene una elección por su ID
func (s *ElectionService) GetByID(id string) (*election.Election, error) {
	return s.store.Elections().GetByID(id)
}

// Current returns the active election, or nil when none is active.
func (s *ElectionService) Current() (*election.Election, error) {
	return s.store.Elections().GetActive()
}

// All obtiene todas las elecciones, las más recientes primero
func (s *ElectionService) All() ([]*election.Election, error) {
	return s.store.Elections().GetAll()
}

// LastEnded returns the most recently ended election, or nil when none.
func (s *ElectionService) LastEnded() (*election.Election, error) {
	return s.store.Elections().GetLastEnded()
}
