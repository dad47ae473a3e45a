package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugID(t *testing.T) {
	cases := map[string]string{
		"Alice":            "alice",
		"Mary Jane Watson": "mary_jane_watson",
		"Jean-Luc Picard":  "jean_luc_picard",
		"  Bob  ":          "bob",
		"O Brien":          "o_brien",
	}

	for name, want := range cases {
		assert.Equal(t, want, SlugID(name), "slug for %q", name)
	}
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("  Mary Jane Watson ", "mj.png")

	assert.Equal(t, "mary_jane_watson", c.ID)
	assert.Equal(t, "Mary Jane Watson", c.Name)
	assert.Equal(t, "mj.png", c.Photo)
	assert.Equal(t, 0, c.Votes)
	assert.NoError(t, c.Validate())
}

func TestCandidateValidate(t *testing.T) {
	c := NewCandidate("Alice", "")
	assert.NoError(t, c.Validate())

	c.Votes = -1
	assert.Error(t, c.Validate())

	empty := &Candidate{}
	assert.Error(t, empty.Validate())
}
