package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/urna-api/internal/domain/ballot"
	"github.com/gravadigital/urna-api/internal/domain/common"
)

func TestCastVoteWithoutActiveElection(t *testing.T) {
	_, _, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	_, err = ballots.CastVote("+919000000001", "alice")
	assert.ErrorIs(t, err, common.ErrNoActiveElection)
}

func TestCastVoteUnknownCandidate(t *testing.T) {
	_, elections, ballots, _, _, _ := newTestServices(t)

	startElection(t, elections, "Council")

	_, err := ballots.CastVote("+919000000001", "nobody")
	assert.True(t, common.IsNotFound(err))
}

func TestCastVoteRecordsBallotAndCounter(t *testing.T) {
	store, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")

	vote, err := ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)
	assert.Equal(t, ballot.VoteKey("+919000000001", id), vote.ID)

	cand, err := candidates.GetByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, cand.Votes)

	count, err := store.Votes().CountByElection(id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestDuplicateVoteRejected(t *testing.T) {
	_, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = candidates.Add(AddCandidateRequest{Name: "Bob"})
	require.NoError(t, err)

	startElection(t, elections, "Council")

	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)

	// Same voter, same election: rejected even for a different candidate
	_, err = ballots.CastVote("+919000000001", "bob")
	assert.ErrorIs(t, err, common.ErrDuplicateVote)

	// Counters untouched by the rejected attempt
	alice, err := candidates.GetByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.Votes)
	bob, err := candidates.GetByID("bob")
	require.NoError(t, err)
	assert.Zero(t, bob.Votes)
}

func TestHasVoted(t *testing.T) {
	_, elections, ballots, _, candidates, _ := newTestServices(t)

	// No active election means no ballot, not an error
	voted, err := ballots.HasVoted("+919000000001")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)
	startElection(t, elections, "Council")

	voted, err = ballots.HasVoted("+919000000001")
	require.NoError(t, err)
	assert.False(t, voted)

	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)

	voted, err = ballots.HasVoted("+919000000001")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestCastVoteAfterElectionStopped(t *testing.T) {
	_, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")
	_, err = elections.Stop(id)
	require.NoError(t, err)

	_, err = ballots.CastVote("+919000000001", "alice")
	assert.ErrorIs(t, err, common.ErrNoActiveElection)
}

func TestConcurrentDuplicateVotes(t *testing.T) {
	_, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	startElection(t, elections, "Council")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ballots.CastVote("+919000000001", "alice")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, common.ErrDuplicateVote)
		duplicates++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, duplicates)

	cand, err := candidates.GetByID("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, cand.Votes)
}

func TestConcurrentDistinctVoters(t *testing.T) {
	store, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")

	const voters = 10
	var wg sync.WaitGroup
	errs := make(chan error, voters)

	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := ballots.CastVote(fmt.Sprintf("+9190000000%02d", n), "alice")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	count, err := store.Votes().CountByElection(id)
	require.NoError(t, err)
	assert.EqualValues(t, voters, count)

	cand, err := candidates.GetByID("alice")
	require.NoError(t, err)
	assert.Equal(t, voters, cand.Votes)
}
