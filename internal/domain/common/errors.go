package common

import (
	"errors"
	"fmt"
)

// Error kinds shared across services and repositories. Handlers map these
// to HTTP statuses; everything else wraps them with context via %w.
var (
	// ErrValidation indicates bad or missing input (empty title, malformed phone).
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates an unknown election, voter or candidate id.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveElection indicates an operation that requires an active election.
	ErrNoActiveElection = errors.New("no active election")

	// ErrActiveElection indicates an operation that is illegal while the
	// target election is active (e.g. deleting it).
	ErrActiveElection = errors.New("election is active")

	// ErrDuplicateVote indicates a second vote for the same (voter, election) pair.
	ErrDuplicateVote = errors.New("already voted in this election")

	// ErrPersistence indicates a store I/O failure.
	ErrPersistence = errors.New("persistence error")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Persistence wraps a store error into the persistence kind, keeping the
// original error in the chain for logging.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
