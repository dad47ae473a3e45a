package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEmptyShape(t *testing.T) {
	_, _, _, results, _, _ := newTestServices(t)

	r, err := results.Compute("")
	require.NoError(t, err)

	assert.Nil(t, r.Election)
	assert.Zero(t, r.TotalVotes)
	assert.NotNil(t, r.Candidates)
	assert.Empty(t, r.Candidates)
}

func TestComputeZeroFillsAndKeepsTieOrder(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := candidates.Add(AddCandidateRequest{Name: name})
		require.NoError(t, err)
	}

	startElection(t, elections, "Council")

	// Two votes each for Alice and Bob, none for Carol
	for i, candidateID := range []string{"alice", "bob", "alice", "bob"} {
		_, err := ballots.CastVote(fmt.Sprintf("+9190000000%02d", i), candidateID)
		require.NoError(t, err)
	}

	r, err := results.Compute("")
	require.NoError(t, err)

	require.Len(t, r.Candidates, 3)
	assert.Equal(t, 4, r.TotalVotes)

	// Tie between Alice and Bob resolves to registration order
	assert.Equal(t, "alice", r.Candidates[0].ID)
	assert.Equal(t, 2, r.Candidates[0].Votes)
	assert.Equal(t, "bob", r.Candidates[1].ID)
	assert.Equal(t, 2, r.Candidates[1].Votes)
	assert.Equal(t, "carol", r.Candidates[2].ID)
	assert.Zero(t, r.Candidates[2].Votes)
}

func TestComputeMatchesLiveCountersAndIsIdempotent(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = candidates.Add(AddCandidateRequest{Name: "Bob"})
	require.NoError(t, err)

	startElection(t, elections, "Council")

	for i := 0; i < 5; i++ {
		target := "alice"
		if i%2 == 1 {
			target = "bob"
		}
		_, err := ballots.CastVote(fmt.Sprintf("+9190000000%02d", i), target)
		require.NoError(t, err)
	}

	first, err := results.Compute("")
	require.NoError(t, err)

	// The recount agrees with the live counters
	live, err := candidates.GetAll()
	require.NoError(t, err)
	counters := make(map[string]int, len(live))
	total := 0
	for _, c := range live {
		counters[c.ID] = c.Votes
		total += c.Votes
	}
	assert.Equal(t, total, first.TotalVotes)
	for _, row := range first.Candidates {
		assert.Equal(t, counters[row.ID], row.Votes, "candidate %s", row.ID)
	}

	// Computing again changes nothing
	second, err := results.Compute("")
	require.NoError(t, err)
	assert.Equal(t, first.TotalVotes, second.TotalVotes)
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestComputeResolvesLastEndedElection(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)
	_, err = elections.Stop(id)
	require.NoError(t, err)

	r, err := results.Compute("")
	require.NoError(t, err)

	require.NotNil(t, r.Election)
	assert.Equal(t, id, r.Election.ID)
	assert.Equal(t, 1, r.TotalVotes)
}

func TestComputeExplicitElection(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)

	r, err := results.Compute(id)
	require.NoError(t, err)
	assert.Equal(t, id, r.Election.ID)
	assert.Equal(t, 1, r.TotalVotes)

	// An unknown id yields the empty shape rather than an error.
	r, err = results.Compute("election_0")
	require.NoError(t, err)
	assert.Nil(t, r.Election)
	assert.Zero(t, r.TotalVotes)
	assert.Empty(t, r.Candidates)
}

func TestComputeAfterElectionDeleted(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)
	_, err = elections.Stop(id)
	require.NoError(t, err)
	require.NoError(t, elections.Delete(id))

	r, err := results.Compute(id)
	require.NoError(t, err)
	assert.Nil(t, r.Election)
	assert.Zero(t, r.TotalVotes)
	assert.Empty(t, r.Candidates)
}

func TestComputeEndedElectionAfterNewStart(t *testing.T) {
	_, elections, ballots, results, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	firstID := startElection(t, elections, "First")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)

	startElection(t, elections, "Second")

	// The ended election's recount still matches its snapshot.
	first, err := elections.GetByID(firstID)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalVotes)

	r, err := results.Compute(firstID)
	require.NoError(t, err)
	require.NotNil(t, r.Election)
	assert.Equal(t, firstID, r.Election.ID)
	assert.Equal(t, first.TotalVotes, r.TotalVotes)
}
