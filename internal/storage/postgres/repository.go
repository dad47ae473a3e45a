package postgres

import (
	"github.com/gravadigital/urna-api/internal/domain/ballot"
	"github.com/gravadigital/urna-api/internal/domain/candidate"
	"github.com/gravadigital/urna-api/internal/domain/election"
	"github.com/gravadigital/urna-api/internal/domain/voter"
)

// ElectionRepository define los métodos para interactuar con las elecciones en la DB.
type ElectionRepository interface {
	Create(e *election.Election) error
	GetByID(id string) (*election.Election, error)
	// GetAll returns elections newest-created first.
	GetAll() ([]*election.Election, error)
	// GetActive returns the single active election, or nil when none.
	GetActive() (*election.Election, error)
	// GetLastEnded returns the ended election with the latest ended_at, or nil.
	GetLastEnded() (*election.Election, error)
	Update(e *election.Election) error
	Delete(id string) error
}

// VoterRepository define los métodos para interactuar con los votantes en la DB.
type VoterRepository interface {
	Create(v *voter.Voter) error
	GetByPhone(phone string) (*voter.Voter, error)
	// GetByEmail performs a case-insensitive lookup.
	GetByEmail(email string) (*voter.Voter, error)
	GetAll() ([]*voter.Voter, error)
	// Update replaces the record stored under originalPhone, re-keying it
	// when the phone number changed. HasVoted and Photo are preserved.
	Update(originalPhone string, v *voter.Voter) error
	Delete(phone string) error
	UpdatePhoto(phone, filename string) error
	SetHasVoted(phone string, hasVoted bool) error
	ResetHasVoted() error
}

// CandidateRepository define los métodos para interactuar con los candidatos
type CandidateRepository interface {
	Create(c *candidate.Candidate) error
	GetByID(id string) (*candidate.Candidate, error)
	// GetAll returns candidates in registration order.
	GetAll() ([]*candidate.Candidate, error)
	Delete(id string) error
	// IncrementVotes atomically adds one to the live counter.
	IncrementVotes(id string) error
	// ResetVotes zeroes every candidate's live counter.
	ResetVotes() error
}

// VoteRepository define los métodos para interactuar con los votos
type VoteRepository interface {
	Create(v *ballot.Vote) error
	GetByID(id string) (*ballot.Vote, error)
	Exists(id string) (bool, error)
	GetByElectionID(electionID string) ([]*ballot.Vote, error)
	CountByElection(electionID string) (int64, error)
	DeleteByElection(electionID string) error
}

// RepositoryContainer agrupa los repositorios sobre una misma conexión.
type RepositoryContainer interface {
	Elections() ElectionRepository
	Voters() VoterRepository
	Candidates() CandidateRepository
	Votes() VoteRepository

	// Transaction runs fn with repositories bound to a single database
	// transaction, committing on nil and rolling back on error.
	Transaction(fn func(RepositoryContainer) error) error
}
