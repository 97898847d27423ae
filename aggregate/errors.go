// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package aggregate

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a record is missing a required field or
	// violates its declared enumeration or range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidWinner indicates a vote whose winner is neither A nor B.
	ErrInvalidWinner = errors.New("invalid winner")
)

// RecordError identifies the offending record in an input collection.
type RecordError struct {
	// Kind is the record kind (photo, vote, rating).
	Kind string

	// Index is the position of the record in its input slice.
	Index int

	// Field is the wire name of the first failing field, if known.
	Field string

	Err error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s[%d]: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("%s[%d].%s: %v", e.Kind, e.Index, e.Field, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
