package metrics

import (
	"context"
	"time"

	"pivot_backend/internal/feature/candles/domain/entity"
	pivotusecase "pivot_backend/internal/feature/pivots/usecase"
)

// InstrumentedMarket measures latency and outcome of every FetchRange call.
type InstrumentedMarket struct {
	inner  pivotusecase.MarketDataRepository
	source string
	m      *Metrics
}

var _ pivotusecase.MarketDataRepository = (*InstrumentedMarket)(nil)

func NewInstrumentedMarket(inner pivotusecase.MarketDataRepository, source string, m *Metrics) *InstrumentedMarket {
	return &InstrumentedMarket{inner: inner, source: source, m: m}
}

func (i *InstrumentedMarket) FetchRange(ctx context.Context, symbol string, start, end time.Time) ([]entity.Candle, error) {
	began := time.Now()
	out, err := i.inner.FetchRange(ctx, symbol, start, end)
	i.m.MarketFetchDuration.WithLabelValues(i.source).Observe(time.Since(began).Seconds())

	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case len(out) == 0:
		outcome = OutcomeEmpty
	}
	i.m.MarketFetches.WithLabelValues(i.source, outcome).Inc()

	return out, err
}
