package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/urna-api/internal/domain/common"
	"github.com/gravadigital/urna-api/internal/domain/election"
)

func TestCreateElection(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	e, err := elections.Create(CreateElectionRequest{
		Title:       "Student Council 2026",
		Description: "Annual council election",
	})
	require.NoError(t, err)

	assert.Equal(t, election.StatusCreated, e.Status)
	assert.Contains(t, e.ID, "election_")
	assert.Equal(t, 0, e.TotalVotes)

	// The created state must survive the insert-and-reload round trip.
	stored, err := elections.GetByID(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Title, stored.Title)
	assert.Equal(t, election.StatusCreated, stored.Status)
}

func TestCreateElectionRequiresTitle(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	_, err := elections.Create(CreateElectionRequest{Title: "   "})
	assert.True(t, common.IsValidation(err))
}

func TestCreateElectionSameSecondGetsSuffix(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	fixed := time.Unix(1756600000, 0)
	elections.now = func() time.Time { return fixed }

	first, err := elections.Create(CreateElectionRequest{Title: "First"})
	require.NoError(t, err)
	second, err := elections.Create(CreateElectionRequest{Title: "Second"})
	require.NoError(t, err)

	assert.Equal(t, "election_1756600000", first.ID)
	assert.Equal(t, "election_1756600000_1", second.ID)
}

func TestStartUnknownElection(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	_, err := elections.Start("election_0")
	assert.True(t, common.IsNotFound(err))
}

func TestStartEndedElectionFails(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	id := startElection(t, elections, "Council")
	_, err := elections.Stop(id)
	require.NoError(t, err)

	_, err = elections.Start(id)
	assert.Error(t, err)
}

func TestStartEndsPredecessorAndResetsState(t *testing.T) {
	store, elections, ballots, _, candidates, voters := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)
	_, err = voters.Register(RegisterVoterRequest{
		Name: "Asha", Phone: "9876543210", RollNumber: "21CS001",
	})
	require.NoError(t, err)

	firstID := startElection(t, elections, "First")
	_, err = ballots.CastVote("+919876543210", "alice")
	require.NoError(t, err)

	second, err := elections.Create(CreateElectionRequest{Title: "Second"})
	require.NoError(t, err)
	_, err = elections.Start(second.ID)
	require.NoError(t, err)

	// Predecessor ended with its final count snapshotted
	first, err := elections.GetByID(firstID)
	require.NoError(t, err)
	assert.Equal(t, election.StatusEnded, first.Status)
	assert.Equal(t, 1, first.TotalVotes)
	assert.NotNil(t, first.EndedAt)

	// The predecessor keeps its ledger; the new election starts empty.
	count, err := store.Votes().CountByElection(firstID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = store.Votes().CountByElection(second.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	cands, err := candidates.GetAll()
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Zero(t, cands[0].Votes)

	v, err := voters.GetByPhone("+919876543210")
	require.NoError(t, err)
	assert.False(t, v.HasVoted)

	current, err := elections.Current()
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
}

func TestStartAlreadyActiveElection(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	id := startElection(t, elections, "Council")
	_, err := elections.Start(id)
	assert.ErrorIs(t, err, common.ErrActiveElection)
}

func TestStopWithoutActiveElection(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	_, err := elections.Stop("")
	assert.ErrorIs(t, err, common.ErrNoActiveElection)
}

func TestStopSnapshotsTotalVotes(t *testing.T) {
	_, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	startElection(t, elections, "Council")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)
	_, err = ballots.CastVote("+919000000002", "alice")
	require.NoError(t, err)

	stopped, err := elections.Stop("")
	require.NoError(t, err)

	assert.Equal(t, election.StatusEnded, stopped.Status)
	assert.Equal(t, 2, stopped.TotalVotes)
	assert.NotNil(t, stopped.EndedAt)

	current, err := elections.Current()
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestStopNonActiveByID(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	e, err := elections.Create(CreateElectionRequest{Title: "Council"})
	require.NoError(t, err)

	_, err = elections.Stop(e.ID)
	assert.ErrorIs(t, err, common.ErrNoActiveElection)
}

func TestDeleteActiveElectionFails(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	id := startElection(t, elections, "Council")
	err := elections.Delete(id)
	assert.ErrorIs(t, err, common.ErrActiveElection)
}

func TestDeleteCascadesVotes(t *testing.T) {
	store, elections, ballots, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	id := startElection(t, elections, "Council")
	_, err = ballots.CastVote("+919000000001", "alice")
	require.NoError(t, err)
	_, err = elections.Stop(id)
	require.NoError(t, err)

	require.NoError(t, elections.Delete(id))

	_, err = elections.GetByID(id)
	assert.True(t, common.IsNotFound(err))

	count, err := store.Votes().CountByElection(id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCurrentAndLastEnded(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	current, err := elections.Current()
	require.NoError(t, err)
	assert.Nil(t, current)

	last, err := elections.LastEnded()
	require.NoError(t, err)
	assert.Nil(t, last)

	id := startElection(t, elections, "Council")
	_, err = elections.Stop(id)
	require.NoError(t, err)

	last, err = elections.LastEnded()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, id, last.ID)
}

func TestAllNewestFirst(t *testing.T) {
	_, elections, _, _, _, _ := newTestServices(t)

	base := time.Unix(1756600000, 0)
	elections.now = func() time.Time { return base }
	_, err := elections.Create(CreateElectionRequest{Title: "Older"})
	require.NoError(t, err)

	elections.now = func() time.Time { return base.Add(time.Minute) }
	newer, err := elections.Create(CreateElectionRequest{Title: "Newer"})
	require.NoError(t, err)

	all, err := elections.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
}
