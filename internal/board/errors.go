package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrRemoteRequired is returned by write operations when no REST
	// endpoint is configured. No network call is attempted.
	ErrRemoteRequired = errors.New("write operations require the REST API")

	// ErrNoFields is returned when an update carries no fields.
	ErrNoFields = errors.New("no fields to update")

	// ErrInvalidArgument wraps argument validation failures.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError reports a missing board or card.
type NotFoundError struct {
	Kind string // "Board" or "Card"
	ID   string
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
