package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/balance/internal/board"
)

var (
	// ErrStopped is returned when enqueueing after Stop.
	ErrStopped = errors.New("engine stopped")

	// ErrUnknownContainer means the board has no container with that tag.
	ErrUnknownContainer = errors.New("unknown container")

	// ErrEmptyContainer means there is no token to pick up.
	ErrEmptyContainer = errors.New("container is empty")
)

// ContainerError ties a container lookup failure to the tag that caused it.
// Callers branch on the wrapped sentinel with errors.Is.
type ContainerError struct {
	ID  board.ContainerID
	Err error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%s: %q", e.Err, e.ID)
}

func (e *ContainerError) Unwrap() error {
	return e.Err
}

// IsUnknownContainer reports whether err names a container the board lacks.
// Uses errors.As to handle wrapped errors.
func IsUnknownContainer(err error) (board.ContainerID, bool) {
	var ce *ContainerError
	if errors.As(err, &ce) && errors.Is(ce.Err, ErrUnknownContainer) {
		return ce.ID, true
	}
	return "", false
}
