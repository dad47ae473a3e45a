package services

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/urna-api/internal/domain/ballot"
	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// BallotService maneja la lógica de negocio de la emisión de votos
type BallotService struct {
	store postgres.RepositoryContainer
	log   *log.Logger
	now   func() time.Time
}

// NewBallotService crea una nueva instancia del servicio de votación
func NewBallotService(store postgres.RepositoryContainer) *BallotService {
	return &BallotService{
		store: store,
		log:   logger.Service("ballot"),
		now:   time.Now,
	}
}

// CastVote records one vote by the given voter for the given candidate in
// the currently active election. The whole operation runs inside a store
// transaction: the election is re-read there, so a vote racing an election
// stop fails with ErrNoActiveElection instead of attaching to an ended
// election. Uniqueness is ultimately enforced by the ballot primary key,
// not by the read-side pre-check.
func (s *BallotService) CastVote(voterPhone, candidateID string) (*ballot.Vote, error) {
	phone := strings.TrimSpace(voterPhone)
	if phone == "" {
		return nil, common.Validationf("voter phone cannot be empty")
	}
	if strings.TrimSpace(candidateID) == "" {
		return nil, common.Validationf("candidate ID cannot be empty")
	}

	var vote *ballot.Vote
	err := s.store.Transaction(func(repos postgres.RepositoryContainer) error {
		active, err := repos.Elections().GetActive()
		if err != nil {
			return err
		}
		if active == nil {
			return common.ErrNoActiveElection
		}

		cand, err := repos.Candidates().GetByID(candidateID)
		if err != nil {
			return err
		}

		// Chequeo amistoso; la llave primaria decide en caso de carrera
		exists, err := repos.Votes().Exists(ballot.VoteKey(phone, active.ID))
		if err != nil {
			return err
		}
		if exists {
			return common.ErrDuplicateVote
		}

		v := ballot.NewVote(phone, cand.ID, active.ID, s.now())
		if err := repos.Votes().Create(v); err != nil {
			return err
		}
		if err := repos.Candidates().IncrementVotes(cand.ID); err != nil {
			return err
		}

		vote = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Advisory flag only; the ledger already holds the authoritative record.
	if err := s.store.Voters().SetHasVoted(phone, true); err != nil {
		s.log.Warn("failed to flag voter as voted", "voter_phone", phone, "error", err)
	}

	s.log.Info("vote cast", "vote_id", vote.ID, "candidate_id", vote.CandidateID, "election_id", vote.ElectionID)
	return vote, nil
}

// HasVoted reports whether the voter already holds a ballot in the active
// election. When no election is active it reports false without error.
func (s *BallotService) HasVoted(voterPhone string) (bool, error) {
	active, err := s.store.Elections().GetActive()
	if err != nil {
		return false, err
	}
	if active == nil {
		return false, nil
	}
	return s.store.Votes().Exists(ballot.VoteKey(strings.TrimSpace(voterPhone), active.ID))
}
