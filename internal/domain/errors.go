package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyText means an entry's text decoded to an empty array, so there is
	// no last group to read wind levels from.
	ErrEmptyText = errors.New("text holds no wind groups")

	// ErrTupleArity means a wind level tuple did not have exactly 5 elements.
	ErrTupleArity = errors.New("wind level tuple must have 5 elements")

	// ErrNullAltitude means a wind level tuple had no altitude.
	ErrNullAltitude = errors.New("wind level altitude is null")
)

// FetchError is returned by the forecast fetcher for any transport, status,
// or decoding failure.
type FetchError struct {
	AirportCode string
	Err         error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.AirportCode, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StoreError is returned by a sink when a record could not be persisted.
type StoreError struct {
	AirportCode string
	Sink        string
	Err         error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s to %s: %v", e.AirportCode, e.Sink, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// MalformedEntryError describes a forecast entry that Transform skipped.
type MalformedEntryError struct {
	Index         int // position in the vendor "data" array
	StartValidity string
	Err           error
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("entry %d (start %q): %v", e.Index, e.StartValidity, e.Err)
}

func (e *MalformedEntryError) Unwrap() error { return e.Err }
