package vitalset

import (
	"errors"
	"fmt"
)

// ErrNoDataFound is returned when a bulk read yields no records.
var ErrNoDataFound = errors.New("no data found")

// ErrResourceNotFound matches any *ResourceNotFoundError via errors.Is.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceNotFoundError reports a single-record operation on an unknown identifier.
type ResourceNotFoundError struct {
	ID int64
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found for id %d", e.ID)
}

func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// NewResourceNotFound builds the error for id.
func NewResourceNotFound(id int64) error {
	return &ResourceNotFoundError{ID: id}
}
