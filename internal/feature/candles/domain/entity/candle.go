// Package entity defines the domain models for the candles feature.
package entity

import "time"

// DailyInterval は日足を表す時間間隔です。ピボット分析は日足のみを使用します。
const DailyInterval = "1day"

// Candle represents one OHLCV bar for a symbol at a specific interval.
// A bar is immutable once fetched; series are ordered by Time ascending and unique by Time.
type Candle struct {
	Symbol   string    // Data-source ticker symbol (e.g., "THYAO.IS", "AAPL")
	Interval string    // Time interval (e.g., "1day")
	Time     time.Time // Timestamp for the start of this candle period
	Open     float64   // Opening price
	High     float64   // Highest price during this period
	Low      float64   // Lowest price during this period
	Close    float64   // Closing price
	Volume   int64     // Trading volume
}
