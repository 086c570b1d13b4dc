package domain

import (
	"fmt"
	"strings"
)

// Timeframe is the analysis granularity. The set is closed: only the constants below are valid.
type Timeframe int

const (
	Daily Timeframe = iota
	Weekly
	Monthly
	Quarterly

	timeframeCount
)

// DefaultTimeframe is used when a caller does not pick one.
const DefaultTimeframe = Weekly

// Window holds the day counts derived from a timeframe.
// All three are interpreted as bar counts when slicing a fetched series,
// except HistoryLookbackDays which is a calendar span for the fetch.
type Window struct {
	HistoryLookbackDays int `json:"history_lookback_days"`
	ChartWindowDays     int `json:"chart_window_days"`
	PivotWindowDays     int `json:"pivot_window_days"`
}

var timeframeIDs = [timeframeCount]string{
	Daily:     "daily",
	Weekly:    "weekly",
	Monthly:   "monthly",
	Quarterly: "quarterly",
}

var windows = [timeframeCount]Window{
	Daily:     {HistoryLookbackDays: 14, ChartWindowDays: 7, PivotWindowDays: 3},
	Weekly:    {HistoryLookbackDays: 60, ChartWindowDays: 21, PivotWindowDays: 7},
	Monthly:   {HistoryLookbackDays: 180, ChartWindowDays: 60, PivotWindowDays: 30},
	Quarterly: {HistoryLookbackDays: 365, ChartWindowDays: 90, PivotWindowDays: 90},
}

// Timeframes returns every timeframe in ascending order of granularity.
func Timeframes() []Timeframe {
	return []Timeframe{Daily, Weekly, Monthly, Quarterly}
}

// ResolveWindow returns the fixed window parameters of tf.
// A value outside the enum is a programming error and panics.
func ResolveWindow(tf Timeframe) Window {
	if !tf.valid() {
		panic(fmt.Sprintf("domain: invalid timeframe %d", int(tf)))
	}
	return windows[tf]
}

// ParseTimeframe converts an external identifier ("daily", "Weekly", ...) into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	id := strings.ToLower(strings.TrimSpace(s))
	for tf, name := range timeframeIDs {
		if name == id {
			return Timeframe(tf), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTimeframe, s)
}

// String returns the lower-case identifier used on the wire.
func (tf Timeframe) String() string {
	if !tf.valid() {
		return fmt.Sprintf("Timeframe(%d)", int(tf))
	}
	return timeframeIDs[tf]
}

// MarshalText encodes the timeframe as its identifier.
func (tf Timeframe) MarshalText() ([]byte, error) {
	if !tf.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTimeframe, int(tf))
	}
	return []byte(timeframeIDs[tf]), nil
}

// UnmarshalText decodes an identifier produced by MarshalText.
func (tf *Timeframe) UnmarshalText(b []byte) error {
	v, err := ParseTimeframe(string(b))
	if err != nil {
		return err
	}
	*tf = v
	return nil
}

func (tf Timeframe) valid() bool {
	return tf >= 0 && tf < timeframeCount
}
