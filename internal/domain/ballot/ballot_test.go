package ballot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVoteKey(t *testing.T) {
	assert.Equal(t, "+919876543210_election_1756600000",
		VoteKey("+919876543210", "election_1756600000"))
}

func TestNewVote(t *testing.T) {
	now := time.Now()
	v := NewVote("+919876543210", "alice", "election_1756600000", now)

	assert.Equal(t, VoteKey("+919876543210", "election_1756600000"), v.ID)
	assert.Equal(t, "+919876543210", v.VoterPhone)
	assert.Equal(t, "alice", v.CandidateID)
	assert.Equal(t, "election_1756600000", v.ElectionID)
	assert.Equal(t, now, v.Timestamp)
	assert.NoError(t, v.Validate())
}

func TestVoteValidateRejectsMismatchedKey(t *testing.T) {
	v := NewVote("+919876543210", "alice", "election_1", time.Now())
	v.ID = "+910000000000_election_1"
	assert.Error(t, v.Validate())
}

func TestVoteValidateRequiredFields(t *testing.T) {
	v := NewVote("", "alice", "election_1", time.Now())
	assert.Error(t, v.Validate())

	v = NewVote("+919876543210", "", "election_1", time.Now())
	assert.Error(t, v.Validate())

	v = NewVote("+919876543210", "alice", "", time.Now())
	assert.Error(t, v.Validate())
}
