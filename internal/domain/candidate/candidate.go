package candidate

import (
	"fmt"
	"strings"
	"time"
)

// Candidate is a contestant in the current election. The id is a slug
// derived from the name, so re-adding the same name collides instead of
// silently duplicating the candidate.
type Candidate struct {
	ID    string `json:"id" gorm:"primaryKey;size:128"`
	Name  string `json:"name" gorm:"not null"`
	Photo string `json:"photo"`
	// Votes is the live counter, reset to zero whenever a new election
	// starts. Incremented atomically by the ballot engine; the recount in
	// the results aggregator is the authoritative tally.
	Votes int `json:"votes" gorm:"not null;default:0"`
	// Position records registration order and backs the stable tie-break
	// in results. Assigned by the repository at create time.
	Position  int       `json:"-" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName overrides the table name used by GORM
func (Candidate) TableName() string {
	return "candidates"
}

// NewCandidate builds a candidate with its id derived from the name.
func NewCandidate(name, photo string) *Candidate {
	return &Candidate{
		ID:    SlugID(name),
		Name:  strings.TrimSpace(name),
		Photo: strings.TrimSpace(photo),
	}
}

// Validate checks if the candidate data is valid
func (c *Candidate) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.ID == "" {
		return fmt.Errorf("id is required")
	}
	if c.Votes < 0 {
		return fmt.Errorf("votes cannot be negative")
	}
	return nil
}

// SlugID lowercases the name and maps spaces and hyphens to underscores.
func SlugID(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
