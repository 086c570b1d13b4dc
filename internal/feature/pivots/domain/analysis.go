package domain

import "pivot_backend/internal/feature/candles/domain/entity"

// AnalysisResult is the outcome of one pivot analysis request.
// It is handed to the presentation layer as a plain value.
type AnalysisResult struct {
	Symbol    string
	Timeframe Timeframe
	Levels    PivotLevels
	LastClose float64
	// Chart is the tail of the fetched series used for display, oldest first.
	Chart []entity.Candle
}

// Position classifies LastClose against Levels.
func (r AnalysisResult) Position() Position {
	return EvaluatePosition(r.LastClose, r.Levels)
}
