// Package dto defines data transfer objects for the pivots HTTP API.
package dto

import (
	"math"

	"github.com/shopspring/decimal"

	"pivot_backend/internal/feature/pivots/domain"
)

const chartDateLayout = "2006-01-02"

// LevelItem は1つのピボット水準です。Display は小数2桁に丸めた表示用の文字列です。
// 値が有限でない場合 Value は null、Display は "n/a" になります。
type LevelItem struct {
	Name    string   `json:"name"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// ChartBar はチャート表示用の日足です。
type ChartBar struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// PivotResponse は GET /pivots/:code のレスポンスです。
type PivotResponse struct {
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name,omitempty"`
	Timeframe domain.Timeframe `json:"timeframe"`
	LastClose float64          `json:"last_close"`
	Position  domain.Position  `json:"position"`
	Summary   string           `json:"summary"`
	Levels    []LevelItem      `json:"levels"`
	Chart     []ChartBar       `json:"chart"`
}

// NewPivotResponse は分析結果をレスポンスに変換します。水準は表示順に並びます。
func NewPivotResponse(name string, r *domain.AnalysisResult) PivotResponse {
	pos := r.Position()

	levels := make([]LevelItem, 0, len(domain.DisplayOrder))
	for _, l := range r.Levels.Ordered() {
		levels = append(levels, NewLevelItem(string(l.Name), l.Value))
	}

	chart := make([]ChartBar, 0, len(r.Chart))
	for _, c := range r.Chart {
		chart = append(chart, ChartBar{
			Time:   c.Time.Format(chartDateLayout),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}

	return PivotResponse{
		Symbol:    r.Symbol,
		Name:      name,
		Timeframe: r.Timeframe,
		LastClose: r.LastClose,
		Position:  pos,
		Summary:   pos.Summary(r.Timeframe),
		Levels:    levels,
		Chart:     chart,
	}
}

// NewLevelItem は水準を表示用に変換します。
// NaN や無限大は JSON で表せないため value を省き、display を "n/a" にします。
func NewLevelItem(name string, v float64) LevelItem {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LevelItem{Name: name, Display: "n/a"}
	}
	return LevelItem{Name: name, Value: &v, Display: FormatPrice(v)}
}

// FormatPrice は価格を小数2桁の文字列にします (例: 312.4 -> "312.40")。
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// TimeframeItem は GET /timeframes の1要素です。
type TimeframeItem struct {
	ID      string `json:"id"`
	Default bool   `json:"default,omitempty"`
	domain.Window
}
