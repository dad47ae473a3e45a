package services

import (
	"sort"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/election"
	"github.com/gravadigital/urna-api/internal/logger"
	"github.com/gravadigital/urna-api/internal/storage/postgres"
)

// ResultsService maneja el cómputo de resultados electorales
type ResultsService struct {
	store postgres.RepositoryContainer
	log   *log.Logger
}

// NewResultsService crea una nueva instancia del servicio de resultados
func NewResultsService(store postgres.RepositoryContainer) *ResultsService {
	return &ResultsService{
		store: store,
		log:   logger.Service("results"),
	}
}

// CandidateResult is one row of a computed tally.
type CandidateResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Votes int    `json:"votes"`
}

// Results is a full tally for one election. Election is nil when no
// election could be resolved; the rest of the shape stays valid.
type Results struct {
	Election   *election.Election `json:"election"`
	TotalVotes int                `json:"total_votes"`
	Candidates []CandidateResult  `json:"candidates"`
}

// Compute recounts the ledger for the given election, or for the resolved
// one (active first, then the most recently ended) when id is empty. The
// recount reads the votes table directly and is the authoritative tally;
// the live candidate counters are never consulted. Every registered
// candidate appears in the output, zero-filled when unvoted, ordered by
// votes descending with ties kept in registration order.
func (s *ResultsService) Compute(electionID string) (*Results, error) {
	target, err := s.resolveTarget(electionID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		s.log.Debug("no election resolvable for results")
		return &Results{TotalVotes: 0, Candidates: []CandidateResult{}}, nil
	}

	votes, err := s.store.Votes().GetByElectionID(target.ID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.store.Candidates().GetAll()
	if err != nil {
		return nil, err
	}

	tally := make(map[string]int, len(candidates))
	for _, v := range votes {
		tally[v.CandidateID]++
	}

	rows := make([]CandidateResult, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, CandidateResult{
			ID:    c.ID,
			Name:  c.Name,
			Photo: c.Photo,
			Votes: tally[c.ID],
		})
	}

	// GetAll ya entrega orden de registro; el sort estable lo preserva en empates
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Votes > rows[j].Votes
	})

	s.log.Debug("results computed", "election_id", target.ID, "total_votes", len(votes))
	return &Results{
		Election:   target,
		TotalVotes: len(votes),
		Candidates: rows,
	}, nil
}

// resolveTarget picks the election whose results are being asked for:
// an explicit id wins, otherwise the active election, otherwise the most
// recently ended one, otherwise nil. An unknown explicit id resolves to
// nil so callers get the empty tally shape, same as asking after a delete.
func (s *ResultsService) resolveTarget(electionID string) (*election.Election, error) {
	if electionID != "" {
		target, err := s.store.Elections().GetByID(electionID)
		if common.IsNotFound(err) {
			return nil, nil
		}
		return target, err
	}

	active, err := s.store.Elections().GetActive()
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, nil
	}

	return s.store.Elections().GetLastEnded()
}
