// Package domain defines the pivot analysis model: timeframes and their windows,
// the ten pivot levels, and the position of a price relative to them.
package domain

import "errors"

var (
	// ErrNoDataAvailable is returned when the market data source has no bars
	// for the requested symbol and window. It is a user-visible, non-fatal condition.
	ErrNoDataAvailable = errors.New("data unavailable for this instrument/timeframe")

	// ErrUnknownTimeframe is returned by ParseTimeframe for identifiers outside the closed set.
	ErrUnknownTimeframe = errors.New("unknown timeframe")
)
