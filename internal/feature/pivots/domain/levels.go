package domain

// LevelName identifies one of the ten pivot levels.
type LevelName string

const (
	PP1 LevelName = "PP1"
	PP2 LevelName = "PP2"
	R1  LevelName = "R1"
	S1  LevelName = "S1"
	R2  LevelName = "R2"
	S2  LevelName = "S2"
	HR1 LevelName = "HR1"
	HS1 LevelName = "HS1"
	HR2 LevelName = "HR2"
	HS2 LevelName = "HS2"
)

// DisplayOrder lists the levels from the highest resistance down to the lowest support.
var DisplayOrder = []LevelName{R2, HR2, R1, HR1, PP1, PP2, HS1, S1, HS2, S2}

// PivotLevels is the complete set of ten levels derived from one high/low/close triple.
type PivotLevels struct {
	PP1 float64 `json:"PP1"`
	PP2 float64 `json:"PP2"`
	R1  float64 `json:"R1"`
	S1  float64 `json:"S1"`
	R2  float64 `json:"R2"`
	S2  float64 `json:"S2"`
	HR1 float64 `json:"HR1"`
	HS1 float64 `json:"HS1"`
	HR2 float64 `json:"HR2"`
	HS2 float64 `json:"HS2"`
}

// NamedLevel pairs a level name with its price.
type NamedLevel struct {
	Name  LevelName
	Value float64
}

// ComputeLevels derives the pivot levels from a period's high, low and close.
// Inputs are not validated: an inverted range or non-finite values propagate
// through ordinary float64 arithmetic.
func ComputeLevels(high, low, close float64) PivotLevels {
	pp1 := (high + low + close) / 3
	pp2 := (high + low) / 2

	r1 := 2*pp1 - low
	s1 := 2*pp1 - high
	r2 := pp1 + (high - low)
	s2 := pp1 - (high - low)

	return PivotLevels{
		PP1: pp1,
		PP2: pp2,
		R1:  r1,
		S1:  s1,
		R2:  r2,
		S2:  s2,
		HR1: (pp1 + r1) / 2,
		HS1: (pp1 + s1) / 2,
		HR2: (r1 + r2) / 2,
		HS2: (s1 + s2) / 2,
	}
}

// Value returns the price of the named level. ok is false for an unknown name.
func (l PivotLevels) Value(name LevelName) (v float64, ok bool) {
	switch name {
	case PP1:
		return l.PP1, true
	case PP2:
		return l.PP2, true
	case R1:
		return l.R1, true
	case S1:
		return l.S1, true
	case R2:
		return l.R2, true
	case S2:
		return l.S2, true
	case HR1:
		return l.HR1, true
	case HS1:
		return l.HS1, true
	case HR2:
		return l.HR2, true
	case HS2:
		return l.HS2, true
	}
	return 0, false
}

// Ordered returns all ten levels in DisplayOrder.
func (l PivotLevels) Ordered() []NamedLevel {
	out := make([]NamedLevel, 0, len(DisplayOrder))
	for _, name := range DisplayOrder {
		v, _ := l.Value(name)
		out = append(out, NamedLevel{Name: name, Value: v})
	}
	return out
}

// PivotBand returns the two primary pivots as (lo, hi).
func (l PivotLevels) PivotBand() (lo, hi float64) {
	if l.PP1 <= l.PP2 {
		return l.PP1, l.PP2
	}
	return l.PP2, l.PP1
}
