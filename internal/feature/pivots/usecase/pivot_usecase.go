// Package usecase はピボット分析のパイプラインを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"pivot_backend/internal/feature/candles/domain/entity"
	"pivot_backend/internal/feature/pivots/domain"
)

// MarketDataRepository は日足の時系列を取得する外部データソースを抽象化します。
// 実装は古い順に並んだバーを返し、データがない場合はエラーではなく空のスライスを返します。
type MarketDataRepository interface {
	FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error)
}

// PivotUsecase はデータ取得、ウィンドウ切り出し、ピボット計算を組み合わせます。
// 状態を持たないため、複数のリクエストから同時に利用できます。
type PivotUsecase struct {
	market MarketDataRepository
}

// NewPivotUsecase はPivotUsecaseの新しいインスタンスを生成します。
func NewPivotUsecase(market MarketDataRepository) *PivotUsecase {
	return &PivotUsecase{market: market}
}

// Analyze は now を基準に symbol の時系列を取得し、timeframe に応じたピボット水準を計算します。
// データソースが空の系列を返した場合は domain.ErrNoDataAvailable を返します。
func (u *PivotUsecase) Analyze(ctx context.Context, symbol string, tf domain.Timeframe, now time.Time) (*domain.AnalysisResult, error) {
	w := domain.ResolveWindow(tf)

	start := now.AddDate(0, 0, -w.HistoryLookbackDays)
	series, err := u.market.FetchRange(ctx, symbol, start, now)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(series) == 0 {
		return nil, domain.ErrNoDataAvailable
	}

	lastClose := series[len(series)-1].Close

	// ウィンドウは日数ではなく本数で切り出す
	period := tail(series, w.PivotWindowDays)
	high, low, close := aggregate(period)

	return &domain.AnalysisResult{
		Symbol:    symbol,
		Timeframe: tf,
		Levels:    domain.ComputeLevels(high, low, close),
		LastClose: lastClose,
		Chart:     tail(series, w.ChartWindowDays),
	}, nil
}

// tail は末尾 n 本を返します。n が系列長以上なら全体を返します。
func tail(series []entity.Candle, n int) []entity.Candle {
	if n <= 0 {
		return series[:0]
	}
	if n >= len(series) {
		return series
	}
	return series[len(series)-n:]
}

// aggregate は期間内の最高値・最安値と最後の終値を返します。period は空であってはいけません。
func aggregate(period []entity.Candle) (high, low, close float64) {
	high, low = period[0].High, period[0].Low
	for _, c := range period[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	return high, low, period[len(period)-1].Close
}
