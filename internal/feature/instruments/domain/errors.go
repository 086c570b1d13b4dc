package domain

import "errors"

var (
	// ErrInstrumentNotFound is returned when a query matches no active instrument.
	ErrInstrumentNotFound = errors.New("instrument not found")
)
