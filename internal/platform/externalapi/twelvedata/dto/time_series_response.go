// Package dto defines data transfer objects for the Twelve Data API responses.
package dto

// TimeSeriesResponse is the body of GET /time_series.
// On failure Status is "error" and Code/Message describe the problem; Values is absent.
type TimeSeriesResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Meta    Meta   `json:"meta"`
	Values  []Bar  `json:"values"`
}

// Meta describes the returned series.
type Meta struct {
	Symbol   string `json:"symbol"`
	Interval string `json:"interval"`
	Exchange string `json:"exchange,omitempty"`
	Timezone string `json:"exchange_timezone,omitempty"`
}

// Bar is one OHLCV row. Twelve Data encodes every number as a string and
// omits volume for some instruments (indices, FX).
type Bar struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume,omitempty"`
}
