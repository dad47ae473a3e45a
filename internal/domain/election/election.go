package election

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Election represents a single contest together with its lifecycle state.
// At most one election is active at any time; the partial unique index on
// status enforces it at the store boundary.
type Election struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      Status     `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	StartedAt   *time.Time `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	// TotalVotes is a snapshot taken when the election is stopped, not a
	// live counter.
	TotalVotes int `json:"total_votes" gorm:"not null;default:0"`
}

// TableName overrides the table name used by GORM
func (Election) TableName() string {
	return "elections"
}

// NewElection creates an election in the created state. The id is derived
// from the creation time so that lexicographic order matches creation order.
func NewElection(title, description string, now time.Time) *Election {
	return &Election{
		ID:          fmt.Sprintf("election_%d", now.Unix()),
		Title:       title,
		Description: description,
		Status:      StatusCreated,
		CreatedAt:   now,
	}
}

// Validate checks if the election data is valid
func (e *Election) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if e.ID == "" {
		return fmt.Errorf("id is required")
	}
	return nil
}

// IsActive reports whether the election is currently accepting votes.
func (e *Election) IsActive() bool {
	return e.Status == StatusActive
}

// CanTransitionTo checks if the election can move to a new status.
// Ended is terminal.
func (e *Election) CanTransitionTo(next Status) bool {
	switch e.Status {
	case StatusCreated:
		return next == StatusActive
	case StatusActive:
		return next == StatusEnded
	default:
		return false
	}
}

// Start marks the election active as of now.
func (e *Election) Start(now time.Time) error {
	if !e.CanTransitionTo(StatusActive) {
		return fmt.Errorf("cannot start election in status %s", e.Status)
	}
	e.Status = StatusActive
	e.StartedAt = &now
	return nil
}

// End marks the election ended and snapshots the total vote count.
func (e *Election) End(now time.Time, totalVotes int) error {
	if !e.CanTransitionTo(StatusEnded) {
		return fmt.Errorf("cannot end election in status %s", e.Status)
	}
	e.Status = StatusEnded
	e.EndedAt = &now
	e.TotalVotes = totalVotes
	return nil
}

// Status represents the lifecycle state of an election
type Status byte

const (
	StatusCreated Status = iota
	StatusActive
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalJSON implements the json.Marshaler interface
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Status) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status: %s", str)
	}
	*s = status
	return nil
}

// StatusFromString converts a string to a Status
func StatusFromString(s string) (Status, bool) {
	switch s {
	case "created":
		return StatusCreated, true
	case "active":
		return StatusActive, true
	case "ended":
		return StatusEnded, true
	default:
		return StatusCreated, false
	}
}

// Scan implements the sql.Scanner interface for database deserialization
func (s *Status) Scan(value interface{}) error {
	if value == nil {
		*s = StatusCreated
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Status", value)
	}

	status, valid := StatusFromString(str)
	if !valid {
		return fmt.Errorf("invalid status value: %s", str)
	}
	*s = status
	return nil
}

// Value implements the driver.Valuer interface for database serialization
func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}
