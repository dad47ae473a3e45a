package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/urna-api/internal/domain/common"
)

func TestAddCandidateSlugID(t *testing.T) {
	_, _, _, _, candidates, _ := newTestServices(t)

	c, err := candidates.Add(AddCandidateRequest{Name: "Jean-Luc Picard", Photo: "picard.png"})
	require.NoError(t, err)

	assert.Equal(t, "jean_luc_picard", c.ID)
	assert.Equal(t, "Jean-Luc Picard", c.Name)
	assert.Equal(t, 0, c.Votes)
}

func TestAddCandidateRequiresName(t *testing.T) {
	_, _, _, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "   "})
	assert.True(t, common.IsValidation(err))
}

func TestAddCandidateDuplicateName(t *testing.T) {
	_, _, _, _, candidates, _ := newTestServices(t)

	_, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	_, err = candidates.Add(AddCandidateRequest{Name: "alice"})
	assert.True(t, common.IsValidation(err))
}

func TestCandidatesKeepRegistrationOrder(t *testing.T) {
	_, _, _, _, candidates, _ := newTestServices(t)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := candidates.Add(AddCandidateRequest{Name: name})
		require.NoError(t, err)
	}

	all, err := candidates.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "alice", all[0].ID)
	assert.Equal(t, "bob", all[1].ID)
	assert.Equal(t, "carol", all[2].ID)
	assert.Equal(t, 1, all[0].Position)
	assert.Equal(t, 2, all[1].Position)
	assert.Equal(t, 3, all[2].Position)
}

func TestDeleteCandidate(t *testing.T) {
	_, _, _, _, candidates, _ := newTestServices(t)

	c, err := candidates.Add(AddCandidateRequest{Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, candidates.Delete(c.ID))

	_, err = candidates.GetByID(c.ID)
	assert.True(t, common.IsNotFound(err))

	assert.True(t, common.IsNotFound(candidates.Delete("ghost")))
}
