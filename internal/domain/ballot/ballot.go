package ballot

import (
	"fmt"
	"time"
)

// Vote is a single ballot. The id is the composite of voter phone and
// election id; the primary key makes "at most one vote per voter per
// election" a store-level guarantee rather than an application check.
type Vote struct {
	ID          string    `json:"id" gorm:"primaryKey;size:96"`
	VoterPhone  string    `json:"voter_phone" gorm:"not null;index"`
	CandidateID string    `json:"candidate_id" gorm:"not null;index"`
	ElectionID  string    `json:"election_id" gorm:"not null;index"`
	Timestamp   time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Vote) TableName() string {
	return "votes"
}

// VoteKey builds the composite ballot key for a (voter, election) pair.
func VoteKey(voterPhone, electionID string) string {
	return voterPhone + "_" + electionID
}

// NewVote creates a ballot for the given voter, candidate and election.
func NewVote(voterPhone, candidateID, electionID string, now time.Time) *Vote {
	return &Vote{
		ID:          VoteKey(voterPhone, electionID),
		VoterPhone:  voterPhone,
		CandidateID: candidateID,
		ElectionID:  electionID,
		Timestamp:   now,
	}
}

// Validate checks if the vote data is valid
func (v *Vote) Validate() error {
	if v.VoterPhone == "" {
		return fmt.Errorf("voter_phone is required")
	}
	if v.CandidateID == "" {
		return fmt.Errorf("candidate_id is required")
	}
	if v.ElectionID == "" {
		return fmt.Errorf("election_id is required")
	}
	if v.ID != VoteKey(v.VoterPhone, v.ElectionID) {
		return fmt.Errorf("id must be the composite of voter_phone and election_id")
	}
	return nil
}
