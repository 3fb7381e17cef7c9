package clinicapi

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// NetworkError is a failed exchange with the clinic API: either the request
// never produced a response (Err set) or the response was not 2xx (Status
// and Body set).
type NetworkError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("clinic api %s: status %d: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("clinic api %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NotFoundError means the record is absent both by id and from the full list.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
