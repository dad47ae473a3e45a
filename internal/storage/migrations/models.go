package migrations

import (
	"github.com/gravadigital/urna-api/internal/domain/ballot"
	"github.com/gravadigital/urna-api/internal/domain/candidate"
	"github.com/gravadigital/urna-api/internal/domain/election"
	"github.com/gravadigital/urna-api/internal/domain/voter"
)

// AllModels returns a slice of all models for migration
func AllModels() []any {
	return []any{
		&election.Election{},
		&voter.Voter{},
		&candidate.Candidate{},
		&ballot.Vote{},
	}
}
