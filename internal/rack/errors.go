package rack

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResponse is returned by the executor when the pipeline produced
	// no result for a request.
	ErrNoResponse = errors.New("the request pipeline returned no response")

	// ErrAlreadyExecuting is returned when a request is handed to the
	// executor while a previous execution of the same request value is
	// still in flight.
	ErrAlreadyExecuting = errors.New("request is already executing")
)

// StatusError is synthesized for an unsuccessful canonical response that
// carries no embedded error of its own.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Code)
}
