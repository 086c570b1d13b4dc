package domain

import "fmt"

// Position classifies a price against the primary pivot band.
type Position int

const (
	Balanced Position = iota
	Above
	Below
)

// EvaluatePosition places price relative to [min(PP1,PP2), max(PP1,PP2)].
// Both ends of the band count as Balanced.
func EvaluatePosition(price float64, levels PivotLevels) Position {
	lo, hi := levels.PivotBand()
	switch {
	case lo <= price && price <= hi:
		return Balanced
	case price > hi:
		return Above
	default:
		return Below
	}
}

func (p Position) String() string {
	switch p {
	case Above:
		return "above"
	case Below:
		return "below"
	case Balanced:
		return "balanced"
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// MarshalText encodes the position as its lower-case name.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Summary is the one-line reading of the position for the given timeframe.
func (p Position) Summary(tf Timeframe) string {
	switch p {
	case Above:
		return fmt.Sprintf("Price is trading above the pivot levels on a %s basis.", tf)
	case Below:
		return fmt.Sprintf("Price is trading below the pivot levels on a %s basis.", tf)
	default:
		return fmt.Sprintf("Price is balanced between the main pivot levels on a %s basis.", tf)
	}
}
